package llm

import (
	"encoding/json"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain json untouched",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "surrounding whitespace",
			in:   "\n  {\"a\":1}  \n",
			want: `{"a":1}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "bare fence",
			in:   "```\n[1,2,3]\n```",
			want: `[1,2,3]`,
		},
		{
			name: "fence without trailing newline",
			in:   "```json{\"a\":1}```",
			want: `{"a":1}`,
		},
		{
			name: "payload on fence line",
			in:   "```{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	in := "```json\n{\"questions\":[]}\n```"
	once := Sanitize(in)
	twice := Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize not idempotent: %q vs %q", once, twice)
	}
}

func TestSanitize_FencedRoundTrip(t *testing.T) {
	payload := `{"questions":[{"question":"2+2?","options":["1","2","3","4"],"correct_answer":3}]}`
	fenced := "```json\n" + payload + "\n```"

	var fromFenced, fromPlain any
	if err := json.Unmarshal([]byte(Sanitize(fenced)), &fromFenced); err != nil {
		t.Fatalf("sanitized fenced payload did not parse: %v", err)
	}
	if err := json.Unmarshal([]byte(payload), &fromPlain); err != nil {
		t.Fatalf("plain payload did not parse: %v", err)
	}
	if Sanitize(fenced) != payload {
		t.Errorf("sanitized fenced payload = %q, want %q", Sanitize(fenced), payload)
	}
}
