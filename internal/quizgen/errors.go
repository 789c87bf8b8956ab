package quizgen

import "fmt"

// MalformedOutputError indicates the model response could not be parsed as
// JSON even after sanitization. Raw carries the sanitized text for
// diagnostics.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// SchemaViolationError indicates the response parsed but violated the quiz
// structural contract. Index is the offending question (-1 for quiz-level
// violations such as an empty question list).
type SchemaViolationError struct {
	Index  int
	Reason string
}

func (e *SchemaViolationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("quiz schema violation: %s", e.Reason)
	}
	return fmt.Sprintf("quiz schema violation at question %d: %s", e.Index, e.Reason)
}

// TimeoutError indicates the upstream call exceeded its deadline.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generation timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// TransportError indicates the upstream call failed before producing any
// usable output (network failure, provider unavailable, rate limited out).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("generation transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
