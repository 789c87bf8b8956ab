package attempt

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightboard/assessment/internal/llm"
	"github.com/brightboard/assessment/internal/quizgen"

	// Database drivers.
	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

// Driver selects the SQL backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS test_attempts (
	id          TEXT PRIMARY KEY,
	student_id  TEXT NOT NULL,
	subject_id  TEXT NOT NULL,
	chapter     TEXT NOT NULL,
	topic       TEXT NOT NULL DEFAULT '',
	score       INTEGER NOT NULL,
	difficulty  TEXT NOT NULL,
	created_at  BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_test_attempts_student ON test_attempts (student_id, created_at);

CREATE TABLE IF NOT EXISTS llm_events (
	id            TEXT PRIMARY KEY,
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	purpose       TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL,
	latency_ms    BIGINT NOT NULL,
	cost_usd      DOUBLE PRECISION NOT NULL,
	success       BOOLEAN NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at    BIGINT NOT NULL
);
`

// SQLStore implements Store over database/sql with the sqlite or pgx driver.
type SQLStore struct {
	db *sql.DB
}

// Open connects to the database, applies the schema and returns the store.
func Open(ctx context.Context, driver Driver, dsn string) (*SQLStore, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		if dsn == "" {
			dsn = "file:assessment.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx"
		if dsn == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN")
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) AppendAttempt(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO test_attempts (id, student_id, subject_id, chapter, topic, score, difficulty, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.StudentID, rec.SubjectID, rec.ChapterName, rec.TopicName,
		rec.Score, string(rec.Difficulty), rec.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (s *SQLStore) ListAttempts(ctx context.Context, studentID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, student_id, subject_id, chapter, topic, score, difficulty, created_at
		 FROM test_attempts WHERE student_id = $1 ORDER BY created_at DESC`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var difficulty string
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.SubjectID, &rec.ChapterName,
			&rec.TopicName, &rec.Score, &difficulty, &createdAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.Difficulty = quizgen.Difficulty(difficulty)
		rec.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) AppendLLMEvent(ctx context.Context, ev llm.RequestEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO llm_events (id, provider, model, purpose, input_tokens, output_tokens, latency_ms, cost_usd, success, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		uuid.NewString(), ev.Provider, ev.Model, ev.Purpose,
		ev.InputTokens, ev.OutputTokens, ev.LatencyMs, ev.CostUSD,
		ev.Success, ev.ErrorMessage, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert llm event: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
