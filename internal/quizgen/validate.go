package quizgen

import "fmt"

// validateQuestions enforces the quiz structural contract: a non-empty
// question list where every question has exactly 4 options and an in-bounds
// correct index. Validation is all-or-nothing; the first violation aborts.
func validateQuestions(questions []Question) *SchemaViolationError {
	if len(questions) == 0 {
		return &SchemaViolationError{Index: -1, Reason: "questions list is empty"}
	}
	for i, q := range questions {
		if q.Text == "" {
			return &SchemaViolationError{Index: i, Reason: "question text is empty"}
		}
		if len(q.Options) != OptionsPerQuestion {
			return &SchemaViolationError{
				Index:  i,
				Reason: fmt.Sprintf("expected %d options, got %d", OptionsPerQuestion, len(q.Options)),
			}
		}
		for j, opt := range q.Options {
			if opt == "" {
				return &SchemaViolationError{
					Index:  i,
					Reason: fmt.Sprintf("option %d is empty", j),
				}
			}
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= OptionsPerQuestion {
			return &SchemaViolationError{
				Index:  i,
				Reason: fmt.Sprintf("correct_answer %d out of range [0,%d]", q.CorrectIndex, OptionsPerQuestion-1),
			}
		}
	}
	return nil
}
