package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an exam setter creating multiple-choice tests for school students.

Rules:
- Generate exactly the requested number of questions for the given subject, chapter and difficulty.
- Every question must have exactly 4 options and exactly one correct option.
- Questions must be factually correct and unambiguous. Distractors should be plausible, not random.
- Use plain text for all content. No LaTeX, no markdown.
- Respond with JSON only. Do not wrap the JSON in code fences and do not add any text before or after it.`

// buildUserMessage renders the generation request into the user prompt,
// including the exact output shape the model must produce.
func buildUserMessage(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", req.subject())
	fmt.Fprintf(&b, "Chapter: %s\n", req.ChapterName)
	if req.TopicName != "" {
		fmt.Fprintf(&b, "Topic: %s\n", req.TopicName)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Number of questions: %d\n", req.QuestionCount)

	if req.TopicName == "" {
		b.WriteString("\nThe test covers the whole chapter. Distribute the questions evenly across the chapter's sub-topics so no single sub-topic dominates.\n")
	}

	b.WriteString(`
Return a JSON object with this exact shape:
{"questions": [{"question": "<question text>", "options": ["<option 1>", "<option 2>", "<option 3>", "<option 4>"], "correct_answer": <index 0-3 of the correct option>}]}

The "questions" array must contain `)
	fmt.Fprintf(&b, "%d elements.", req.QuestionCount)

	return b.String()
}
