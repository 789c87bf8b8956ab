package quizgen

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/brightboard/assessment/internal/llm"
)

// Service generates schema-validated quizzes from a generative model.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a quiz generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// quizOutput is the raw model response before validation.
type quizOutput struct {
	Questions []Question `json:"questions"`
}

// Generate runs the full pipeline: prompt, model call, sanitize, parse,
// validate. It returns a complete quiz or a typed failure; no partial quiz
// is ever returned.
func (s *Service) Generate(ctx context.Context, req Request) (*Quiz, error) {
	if req.QuestionCount == 0 {
		req.QuestionCount = DefaultQuestionCount
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, "quiz-gen")
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req)},
		},
		Schema:      QuizSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, mapProviderError(err)
	}

	text := llm.Sanitize(string(resp.Content))

	var out quizOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, &MalformedOutputError{Raw: text, Err: err}
	}

	if verr := validateQuestions(out.Questions); verr != nil {
		return nil, verr
	}

	return &Quiz{
		Questions: out.Questions,
		Metadata: Metadata{
			SubjectName:   req.subject(),
			ChapterName:   req.ChapterName,
			TopicName:     req.TopicName,
			Difficulty:    req.Difficulty,
			QuestionCount: len(out.Questions),
		},
	}, nil
}

// mapProviderError converts provider-layer failures into the generation
// error taxonomy.
func mapProviderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &TimeoutError{Err: err}
	}

	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		return &MalformedOutputError{Raw: string(invalid.Content), Err: err}
	}
	var truncated *llm.ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		return &MalformedOutputError{Raw: string(truncated.Content), Err: err}
	}

	return &TransportError{Err: err}
}
