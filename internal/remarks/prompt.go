package remarks

import (
	"fmt"
	"strings"

	"github.com/brightboard/assessment/internal/scoring"
)

const remarksSystemPrompt = `You are a teacher writing concise feedback after a student's multiple-choice test.

Rules:
- Write exactly 4 short remark points summarizing the performance.
- Use at most 40 words in total across all 4 points.
- Be encouraging but honest about weak areas.
- Respond with JSON only: a bare array of 4 strings. Do not wrap the JSON in code fences and do not add any text before or after it.`

func buildUserMessage(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Score: %d out of %d\n", req.Score, req.TotalQuestions)
	fmt.Fprintf(&b, "Percentage: %.0f%%\n", scoring.Percentage(req.Score, req.TotalQuestions))
	fmt.Fprintf(&b, "Chapter: %s\n", req.ChapterName)
	if req.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)

	b.WriteString(`
Return a JSON array with this exact shape:
["<point 1>", "<point 2>", "<point 3>", "<point 4>"]`)

	return b.String()
}
