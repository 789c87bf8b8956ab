// Package attempt owns the lifecycle of a timed test attempt: the in-memory
// session from quiz generation to submission, and the append-only record of
// completed attempts.
package attempt

import (
	"context"
	"time"

	"github.com/brightboard/assessment/internal/llm"
	"github.com/brightboard/assessment/internal/quizgen"
)

// Record is one persisted test attempt. Records are append-only: there is
// no update or delete path, and a resubmission creates a new record.
type Record struct {
	ID          string             `json:"attemptId"`
	StudentID   string             `json:"studentId"`
	SubjectID   string             `json:"subjectId"`
	ChapterName string             `json:"chapterName"`
	TopicName   string             `json:"topicName,omitempty"`
	Score       int                `json:"score"`
	Difficulty  quizgen.Difficulty `json:"difficulty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Store persists completed attempts and LLM request events.
type Store interface {
	// AppendAttempt records a completed attempt. Idempotency is not
	// guaranteed; retried clients may create duplicates.
	AppendAttempt(ctx context.Context, rec Record) error

	// ListAttempts returns a student's attempts, newest first.
	ListAttempts(ctx context.Context, studentID string) ([]Record, error)

	// AppendLLMEvent records one LLM API call for diagnostics.
	AppendLLMEvent(ctx context.Context, ev llm.RequestEvent) error

	Close() error
}
