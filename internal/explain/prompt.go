package explain

import (
	"fmt"
	"strings"
)

const explainSystemPrompt = `You are a tutor explaining multiple-choice answers to a student reviewing a test.

Rules:
- Explain why the correct option is right in exactly 40 words.
- If the student picked a wrong option, briefly address why that option is wrong.
- Use plain text. No markdown.
- Respond with JSON only. Do not wrap the JSON in code fences and do not add any text before or after it.`

func buildUserMessage(req Request) string {
	var b strings.Builder

	if req.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	}
	fmt.Fprintf(&b, "Question: %s\n", req.Question)
	for i, opt := range req.Options {
		fmt.Fprintf(&b, "Option %d: %s\n", i, opt)
	}
	fmt.Fprintf(&b, "Correct option: %d\n", req.CorrectIndex)
	if req.StudentIndex != nil {
		fmt.Fprintf(&b, "Student picked option: %d\n", *req.StudentIndex)
	} else {
		b.WriteString("The student did not answer this question.\n")
	}

	b.WriteString(`
Return a JSON object with this exact shape:
{"explanation": "<the 40-word rationale>"}`)

	return b.String()
}
