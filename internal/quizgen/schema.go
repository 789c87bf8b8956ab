package quizgen

import "github.com/brightboard/assessment/internal/llm"

// QuizSchema defines the JSON schema for quiz generation responses.
// Providers with native structured output use it to constrain the model;
// the service still validates the parsed result structurally.
var QuizSchema = &llm.Schema{
	Name:        "quiz",
	Description: "A multiple-choice test with four options per question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "The ordered list of questions",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text in plain language",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 answer options",
						},
						"correct_answer": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "Index of the correct option",
						},
					},
					"required":             []any{"question", "options", "correct_answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
