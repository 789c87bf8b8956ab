// Package explain generates short per-question rationales on demand.
//
// Unlike remarks there is no fallback text: failure is surfaced as a
// recoverable error and the caller's contract tolerates "explanation
// unavailable". Caching and in-flight deduplication belong to the caller,
// scoped to one attempt's review session.
package explain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brightboard/assessment/internal/llm"
)

// Request describes one explanation generation.
type Request struct {
	Question     string
	Options      []string
	CorrectIndex int

	// StudentIndex is the option the student picked, nil when the question
	// was left unanswered.
	StudentIndex *int

	// Topic gives the model subject context when known.
	Topic string
}

// Validate rejects malformed requests before they reach the model.
func (r *Request) Validate() error {
	if r.Question == "" {
		return fmt.Errorf("question is required")
	}
	if len(r.Options) != 4 {
		return fmt.Errorf("expected 4 options, got %d", len(r.Options))
	}
	if r.CorrectIndex < 0 || r.CorrectIndex > 3 {
		return fmt.Errorf("correctAnswerIndex %d out of range [0,3]", r.CorrectIndex)
	}
	if r.StudentIndex != nil && (*r.StudentIndex < 0 || *r.StudentIndex > 3) {
		return fmt.Errorf("studentAnswerIndex %d out of range [0,3]", *r.StudentIndex)
	}
	return nil
}

// Config controls explanation generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0.5,
	}
}

// Service generates explanations from a generative model.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates an explanation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
}

// Explain produces a short rationale for one question. The word budget in
// the prompt is advisory to the model; output length is not enforced.
func (s *Service) Explain(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	ctx = llm.WithPurpose(ctx, "explanation")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: explainSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req)},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("explanation generation: %w", err)
	}

	text := llm.Sanitize(string(resp.Content))

	var out explanationOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return "", fmt.Errorf("parse explanation response: %w", err)
	}
	if out.Explanation == "" {
		return "", fmt.Errorf("model returned an empty explanation")
	}

	return out.Explanation, nil
}

// ExplanationSchema defines the JSON schema for explanation responses.
var ExplanationSchema = &llm.Schema{
	Name:        "explanation",
	Description: "A short rationale for a multiple-choice answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "The rationale, around 40 words",
			},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}
