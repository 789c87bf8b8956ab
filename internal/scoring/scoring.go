// Package scoring maps a quiz and a student's answers to a normalized score.
package scoring

import (
	"math"

	"github.com/brightboard/assessment/internal/quizgen"
)

// MaxScore is the upper bound of the normalized score scale.
const MaxScore = 10

// AnswerMap maps 0-based question index to the selected option index.
// Unanswered questions are simply absent.
type AnswerMap map[int]int

// CorrectCount returns how many answers match the quiz's correct indices.
// Out-of-range or missing entries count as incorrect.
func CorrectCount(questions []quizgen.Question, answers AnswerMap) int {
	correct := 0
	for i, q := range questions {
		if sel, ok := answers[i]; ok && sel == q.CorrectIndex {
			correct++
		}
	}
	return correct
}

// Score computes round(correct/total*10) on the [0,10] scale. It is pure,
// total and deterministic: the same inputs always yield the same score.
func Score(questions []quizgen.Question, answers AnswerMap) int {
	if len(questions) == 0 {
		return 0
	}
	correct := CorrectCount(questions, answers)
	return int(math.Round(float64(correct) / float64(len(questions)) * MaxScore))
}

// Percentage returns correct/total*100 for remark banding.
func Percentage(score, totalQuestions int) float64 {
	if totalQuestions <= 0 {
		return 0
	}
	return float64(score) / float64(totalQuestions) * 100
}
