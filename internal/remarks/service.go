// Package remarks produces the aggregate 4-point performance summary for a
// completed attempt. Its defining property is totality: generation failure
// is absorbed by a deterministic fallback and never surfaced to the caller.
package remarks

import (
	"context"
	"encoding/json"

	"github.com/brightboard/assessment/internal/llm"
	"github.com/brightboard/assessment/internal/logger"
	"github.com/brightboard/assessment/internal/quizgen"
	"github.com/brightboard/assessment/internal/scoring"
)

// Request describes one remarks generation.
type Request struct {
	Score          int
	TotalQuestions int
	ChapterName    string
	Topic          string
	Difficulty     quizgen.Difficulty
}

// Config controls remarks generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0.6,
	}
}

// Service generates remarks from a generative model with a deterministic
// fallback.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
}

// NewService creates a remarks service.
func NewService(provider llm.Provider, cfg Config, log *logger.Logger) *Service {
	return &Service{provider: provider, cfg: cfg, log: log}
}

// Remark returns a 4-point summary. It never fails: any upstream error or
// unusable output is replaced by the fallback quadruple for the score's
// percentage band.
func (s *Service) Remark(ctx context.Context, req Request) Remarks {
	percentage := scoring.Percentage(req.Score, req.TotalQuestions)

	generated, err := s.generate(ctx, req)
	if err != nil {
		s.log.Warn("remarks generation failed, using fallback",
			"percentage", percentage, "error", err)
		return FallbackFor(percentage)
	}
	return generated
}

func (s *Service) generate(ctx context.Context, req Request) (Remarks, error) {
	ctx = llm.WithPurpose(ctx, "remarks")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: remarksSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req)},
		},
		Schema:      RemarksSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Remarks{}, err
	}

	text := llm.Sanitize(string(resp.Content))

	var points []string
	if err := json.Unmarshal([]byte(text), &points); err != nil {
		return Remarks{}, err
	}
	return fromPoints(points)
}

// RemarksSchema defines the JSON schema for remarks responses: a bare array
// of exactly four short strings.
var RemarksSchema = &llm.Schema{
	Name:        "remarks",
	Description: "A four-point performance summary",
	Definition: map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"minItems":    PointCount,
		"maxItems":    PointCount,
		"description": "Exactly 4 short remark points",
	},
}
