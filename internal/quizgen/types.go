package quizgen

import "fmt"

// OptionsPerQuestion is the fixed number of choices on every question.
const OptionsPerQuestion = 4

// DefaultQuestionCount is used when a request does not specify a count.
const DefaultQuestionCount = 10

// Difficulty is passed through to the prompt. One of easy, medium, hard.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty level.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single multiple-choice item.
// Invariants: exactly OptionsPerQuestion options, CorrectIndex in [0,3].
type Question struct {
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_answer"`
}

// Metadata echoes the generation request back with the produced quiz.
// QuestionCount is the actual number of questions in the quiz.
type Metadata struct {
	SubjectName   string     `json:"subjectName"`
	ChapterName   string     `json:"chapterName"`
	TopicName     string     `json:"topicName,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionCount int        `json:"questionCount"`
}

// Quiz is a validated, ordered question set generated for one attempt.
// It is immutable after generation and owned by that attempt.
type Quiz struct {
	Questions []Question `json:"questions"`
	Metadata  Metadata   `json:"metadata"`
}

// Request describes one quiz generation.
type Request struct {
	SubjectID string

	// SubjectName is the display name echoed into metadata and the prompt.
	// Falls back to SubjectID when empty.
	SubjectName string

	ChapterName string

	// TopicName narrows generation to one topic. When empty the quiz must
	// span the whole chapter and the prompt instructs the model to spread
	// coverage across sub-topics.
	TopicName string

	Difficulty    Difficulty
	QuestionCount int
}

// Validate rejects malformed requests before they reach the model.
func (r *Request) Validate() error {
	if r.SubjectID == "" {
		return fmt.Errorf("subjectId is required")
	}
	if r.ChapterName == "" {
		return fmt.Errorf("chapterName is required")
	}
	if r.QuestionCount <= 0 {
		return fmt.Errorf("questionCount must be positive, got %d", r.QuestionCount)
	}
	if !r.Difficulty.Valid() {
		return fmt.Errorf("difficulty must be easy, medium or hard, got %q", r.Difficulty)
	}
	return nil
}

// subject returns the display name used in prompts and metadata.
func (r *Request) subject() string {
	if r.SubjectName != "" {
		return r.SubjectName
	}
	return r.SubjectID
}
