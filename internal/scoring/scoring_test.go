package scoring

import (
	"testing"

	"github.com/brightboard/assessment/internal/quizgen"
)

func makeQuiz(n int) []quizgen.Question {
	qs := make([]quizgen.Question, n)
	for i := range qs {
		qs[i] = quizgen.Question{
			Text:         "q",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
		}
	}
	return qs
}

func allCorrect(qs []quizgen.Question) AnswerMap {
	m := AnswerMap{}
	for i, q := range qs {
		m[i] = q.CorrectIndex
	}
	return m
}

func TestScore_NoAnswers(t *testing.T) {
	if got := Score(makeQuiz(10), AnswerMap{}); got != 0 {
		t.Errorf("empty answers: expected 0, got %d", got)
	}
}

func TestScore_AllCorrect(t *testing.T) {
	qs := makeQuiz(10)
	if got := Score(qs, allCorrect(qs)); got != 10 {
		t.Errorf("all correct: expected 10, got %d", got)
	}
}

func TestScore_SevenOfTen(t *testing.T) {
	qs := makeQuiz(10)
	answers := allCorrect(qs)
	// Break three answers.
	for i := 0; i < 3; i++ {
		answers[i] = (qs[i].CorrectIndex + 1) % 4
	}
	if got := Score(qs, answers); got != 7 {
		t.Errorf("7/10 correct: expected 7, got %d", got)
	}
}

func TestScore_OneOfThreeRounds(t *testing.T) {
	qs := makeQuiz(3)
	answers := AnswerMap{0: qs[0].CorrectIndex}
	// round(1/3*10) = round(3.33) = 3
	if got := Score(qs, answers); got != 3 {
		t.Errorf("1/3 correct: expected 3, got %d", got)
	}
}

func TestScore_UnansweredCountIncorrect(t *testing.T) {
	qs := makeQuiz(4)
	answers := allCorrect(qs)
	delete(answers, 2)
	delete(answers, 3)
	// round(2/4*10) = 5
	if got := Score(qs, answers); got != 5 {
		t.Errorf("2/4 answered correct: expected 5, got %d", got)
	}
}

func TestScore_Deterministic(t *testing.T) {
	qs := makeQuiz(10)
	answers := allCorrect(qs)
	answers[4] = (qs[4].CorrectIndex + 2) % 4

	first := Score(qs, answers)
	second := Score(qs, answers)
	if first != second {
		t.Errorf("score not deterministic: %d vs %d", first, second)
	}
}

func TestScore_OutOfRangeSelection(t *testing.T) {
	qs := makeQuiz(2)
	answers := AnswerMap{0: 99, 1: qs[1].CorrectIndex}
	// round(1/2*10) = 5
	if got := Score(qs, answers); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestScore_EmptyQuiz(t *testing.T) {
	if got := Score(nil, AnswerMap{}); got != 0 {
		t.Errorf("empty quiz: expected 0, got %d", got)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total int
		want         float64
	}{
		{6, 10, 60},
		{10, 10, 100},
		{0, 10, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Percentage(tt.score, tt.total); got != tt.want {
			t.Errorf("Percentage(%d,%d) = %v, want %v", tt.score, tt.total, got, tt.want)
		}
	}
}
