package attempt

import (
	"sync"
	"time"

	"github.com/brightboard/assessment/internal/quizgen"
	"github.com/brightboard/assessment/internal/remarks"
	"golang.org/x/sync/singleflight"
)

// DefaultDuration is the attempt time limit when none is requested.
const DefaultDuration = 600 * time.Second

// Result is the outcome of a submitted attempt. Once computed it is never
// mutated; late submission paths receive the same value.
type Result struct {
	AttemptID      string      `json:"attemptId,omitempty"`
	Score          int         `json:"score"`
	TotalQuestions int         `json:"totalQuestions"`
	Remarks        []string    `json:"remarks"`
	CorrectAnswers []int       `json:"correctAnswers"`
	Answers        map[int]int `json:"answers"`
	Saved          bool        `json:"saved"`
	SubmittedAt    time.Time   `json:"submittedAt"`
}

// Session is the state of one student's timed run through a generated quiz.
// The quiz and answer map are owned exclusively by this session.
type Session struct {
	ID        string
	StudentID string
	Quiz      *quizgen.Quiz
	Request   quizgen.Request

	StartedAt time.Time
	Deadline  time.Time

	mu        sync.Mutex
	answers   map[int]int
	submitted bool
	result    *Result
	timer     *time.Timer

	// Explanation cache lives for the review session only; concurrent
	// requests for the same question share one in-flight generation.
	explanations map[int]string
	flight       singleflight.Group
}

func newSession(id, studentID string, quiz *quizgen.Quiz, req quizgen.Request, duration time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		StudentID:    studentID,
		Quiz:         quiz,
		Request:      req,
		StartedAt:    now,
		Deadline:     now.Add(duration),
		answers:      map[int]int{},
		explanations: map[int]string{},
	}
}

// RecordAnswers merges the given answers into the session. Answers after
// submission are ignored.
func (s *Session) RecordAnswers(answers map[int]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return
	}
	for i, sel := range answers {
		if i >= 0 && i < len(s.Quiz.Questions) {
			s.answers[i] = sel
		}
	}
}

// Answers returns a copy of the recorded answer map.
func (s *Session) Answers() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]int, len(s.answers))
	for i, sel := range s.answers {
		out[i] = sel
	}
	return out
}

// Submitted reports whether the attempt has been submitted.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// beginSubmit atomically claims the single submission slot. It returns the
// final answer map and true for the first caller; every later caller
// (manual resubmit or the expiry timer racing a manual submit) gets false
// and should read the stored result instead.
func (s *Session) beginSubmit(answers map[int]int) (map[int]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return nil, false
	}
	s.submitted = true
	if s.timer != nil {
		s.timer.Stop()
	}
	for i, sel := range answers {
		if i >= 0 && i < len(s.Quiz.Questions) {
			s.answers[i] = sel
		}
	}
	final := make(map[int]int, len(s.answers))
	for i, sel := range s.answers {
		final[i] = sel
	}
	return final, true
}

// setResult stores the computed result. Called exactly once.
func (s *Session) setResult(r *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = r
}

// Result returns the stored result, or nil before submission completes.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// cachedExplanation returns the cached text for a question index.
func (s *Session) cachedExplanation(index int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.explanations[index]
	return text, ok
}

// storeExplanation caches the generated text for a question index.
func (s *Session) storeExplanation(index int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.explanations[index] = text
}

// dropExplanation evicts a cached entry so an explicit refresh regenerates.
func (s *Session) dropExplanation(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.explanations, index)
}

// buildResult assembles the immutable submission outcome.
func buildResult(s *Session, answers map[int]int, score int, summary remarks.Remarks, attemptID string, saved bool) *Result {
	questions := s.Quiz.Questions
	correct := make([]int, len(questions))
	for i, q := range questions {
		correct[i] = q.CorrectIndex
	}
	return &Result{
		AttemptID:      attemptID,
		Score:          score,
		TotalQuestions: len(questions),
		Remarks:        summary.Slice(),
		CorrectAnswers: correct,
		Answers:        answers,
		Saved:          saved,
		SubmittedAt:    time.Now(),
	}
}
