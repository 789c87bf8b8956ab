package attempt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brightboard/assessment/internal/explain"
	"github.com/brightboard/assessment/internal/logger"
	"github.com/brightboard/assessment/internal/quizgen"
	"github.com/brightboard/assessment/internal/remarks"
	"github.com/brightboard/assessment/internal/scoring"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = fmt.Errorf("session not found")

// StartRequest opens a new timed attempt.
type StartRequest struct {
	StudentID string
	Quiz      quizgen.Request

	// Duration overrides the default attempt time limit when positive.
	Duration time.Duration
}

// ManagerConfig tunes session lifecycle handling.
type ManagerConfig struct {
	// Duration is the default attempt time limit.
	Duration time.Duration

	// ReviewWindow is how long a submitted session stays available for
	// review (explanations, result reads) before it is evicted.
	ReviewWindow time.Duration

	// SubmitTimeout bounds the remarks/persistence work of one submission.
	SubmitTimeout time.Duration
}

// DefaultManagerConfig returns recommended defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Duration:      DefaultDuration,
		ReviewWindow:  2 * time.Hour,
		SubmitTimeout: 30 * time.Second,
	}
}

// Manager owns all live attempt sessions and orchestrates the attempt
// lifecycle: quiz generation at start, scoring + remarks + persistence at
// submit, cached explanation generation during review.
type Manager struct {
	quiz    *quizgen.Service
	explain *explain.Service
	remarks *remarks.Service
	store   Store
	cfg     ManagerConfig
	log     *logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	stop chan struct{}
	once sync.Once
}

// NewManager creates a session manager and starts its eviction loop.
func NewManager(quiz *quizgen.Service, ex *explain.Service, rm *remarks.Service, store Store, cfg ManagerConfig, log *logger.Logger) *Manager {
	m := &Manager{
		quiz:     quiz,
		explain:  ex,
		remarks:  rm,
		store:    store,
		cfg:      cfg,
		log:      log,
		sessions: map[string]*Session{},
		stop:     make(chan struct{}),
	}
	go m.evictLoop()
	return m
}

// Close stops the eviction loop and pending expiry timers.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.mu.Lock()
		if s.timer != nil {
			s.timer.Stop()
		}
		s.mu.Unlock()
	}
}

// Start generates a quiz and opens a timed session for it. On expiry the
// session is submitted automatically with whatever answers were recorded.
func (m *Manager) Start(ctx context.Context, req StartRequest) (*Session, error) {
	if req.StudentID == "" {
		return nil, fmt.Errorf("studentId is required")
	}

	quiz, err := m.quiz.Generate(ctx, req.Quiz)
	if err != nil {
		return nil, err
	}

	duration := req.Duration
	if duration <= 0 {
		duration = m.cfg.Duration
	}

	s := newSession(uuid.NewString(), req.StudentID, quiz, req.Quiz, duration)
	s.timer = time.AfterFunc(duration, func() { m.autoSubmit(s.ID) })

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Info("attempt started",
		"session_id", s.ID, "student_id", req.StudentID,
		"chapter", req.Quiz.ChapterName, "questions", len(quiz.Questions),
		"duration", duration)
	return s, nil
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// SaveAnswers merges in-progress answers into the session.
func (m *Manager) SaveAnswers(id string, answers map[int]int) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.RecordAnswers(answers)
	return nil
}

// Submit closes the attempt: scores it, produces remarks, persists the
// record and stores the immutable result. Exactly one submission wins; a
// manual submit racing the expiry timer (or a retried client) receives the
// already-computed result.
func (m *Manager) Submit(ctx context.Context, id string, answers map[int]int) (*Result, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	final, first := s.beginSubmit(answers)
	if !first {
		if r := s.Result(); r != nil {
			return r, nil
		}
		// Another submission is being computed right now; the result is
		// owned by that caller.
		return nil, fmt.Errorf("submission already in progress")
	}

	score := scoring.Score(s.Quiz.Questions, final)

	summary := m.remarks.Remark(ctx, remarks.Request{
		Score:          score,
		TotalQuestions: len(s.Quiz.Questions),
		ChapterName:    s.Request.ChapterName,
		Topic:          s.Request.TopicName,
		Difficulty:     s.Request.Difficulty,
	})

	rec := Record{
		ID:          uuid.NewString(),
		StudentID:   s.StudentID,
		SubjectID:   s.Request.SubjectID,
		ChapterName: s.Request.ChapterName,
		TopicName:   s.Request.TopicName,
		Score:       score,
		Difficulty:  s.Request.Difficulty,
	}

	// A persistence failure must not roll back the already-computed score;
	// the caller sees "completed, but results failed to save".
	saved := true
	if err := m.store.AppendAttempt(ctx, rec); err != nil {
		saved = false
		m.log.Error("failed to persist attempt",
			"session_id", id, "student_id", s.StudentID, "error", err)
	}

	result := buildResult(s, final, score, summary, rec.ID, saved)
	s.setResult(result)

	m.log.Info("attempt submitted",
		"session_id", id, "student_id", s.StudentID,
		"score", score, "saved", saved)
	return result, nil
}

// autoSubmit is the timer-driven submission path at deadline expiry.
func (m *Manager) autoSubmit(id string) {
	s, err := m.Get(id)
	if err != nil {
		return
	}
	if s.Submitted() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.SubmitTimeout)
	defer cancel()

	if _, err := m.Submit(ctx, id, nil); err != nil {
		m.log.Warn("auto-submit failed", "session_id", id, "error", err)
	}
}

// Explanation returns the rationale for one question, generating it at most
// once per session unless refresh is set. Concurrent requests for the same
// index share a single upstream call.
func (m *Manager) Explanation(ctx context.Context, id string, index int, refresh bool) (string, error) {
	s, err := m.Get(id)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(s.Quiz.Questions) {
		return "", fmt.Errorf("question index %d out of range", index)
	}

	if refresh {
		s.dropExplanation(index)
	} else if text, ok := s.cachedExplanation(index); ok {
		return text, nil
	}

	key := fmt.Sprintf("explain-%d", index)
	text, err, _ := s.flight.Do(key, func() (any, error) {
		if text, ok := s.cachedExplanation(index); ok {
			return text, nil
		}

		q := s.Quiz.Questions[index]
		req := explain.Request{
			Question:     q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Topic:        s.Request.TopicName,
		}
		if sel, ok := s.Answers()[index]; ok {
			req.StudentIndex = &sel
		}

		generated, err := m.explain.Explain(ctx, req)
		if err != nil {
			return "", err
		}
		s.storeExplanation(index, generated)
		return generated, nil
	})
	if err != nil {
		return "", err
	}
	return text.(string), nil
}

// evictLoop drops sessions that are past their deadline plus the review
// window.
func (m *Manager) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for id, s := range m.sessions {
				if now.After(s.Deadline.Add(m.cfg.ReviewWindow)) {
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		}
	}
}
