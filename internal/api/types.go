// Package api exposes the assessment pipeline as HTTP JSON endpoints.
package api

import (
	"time"

	"github.com/brightboard/assessment/internal/quizgen"
)

// question is the wire shape of a quiz question. correctAnswerIndex is
// withheld on session start and revealed with the submission result.
type question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctAnswerIndex,omitempty"`
}

type generateQuizRequest struct {
	SubjectID     string `json:"subjectId"`
	SubjectName   string `json:"subjectName,omitempty"`
	ChapterName   string `json:"chapterName"`
	TopicName     string `json:"topicName,omitempty"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
}

func (r generateQuizRequest) toDomain() quizgen.Request {
	return quizgen.Request{
		SubjectID:     r.SubjectID,
		SubjectName:   r.SubjectName,
		ChapterName:   r.ChapterName,
		TopicName:     r.TopicName,
		Difficulty:    quizgen.Difficulty(r.Difficulty),
		QuestionCount: r.QuestionCount,
	}
}

type generateQuizResponse struct {
	Questions []question       `json:"questions"`
	Metadata  quizgen.Metadata `json:"metadata"`
}

type explanationRequest struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	StudentIndex *int     `json:"studentAnswerIndex,omitempty"`
	CorrectIndex int      `json:"correctAnswerIndex"`
	TopicName    string   `json:"topicName,omitempty"`
}

type explanationResponse struct {
	Explanation string `json:"explanation"`
}

type remarksRequest struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	ChapterName    string `json:"chapterName"`
	TopicName      string `json:"topicName,omitempty"`
	Difficulty     string `json:"difficulty"`
}

type remarksResponse struct {
	Remarks []string `json:"remarks"`
}

type submitAttemptRequest struct {
	StudentID   string `json:"studentId"`
	SubjectID   string `json:"subjectId"`
	ChapterName string `json:"chapterName"`
	TopicName   string `json:"topicName,omitempty"`
	Score       int    `json:"score"`
	Difficulty  string `json:"difficulty"`
}

type submitAttemptResponse struct {
	AttemptID string `json:"attemptId"`
}

type startSessionRequest struct {
	StudentID       string `json:"studentId"`
	SubjectID       string `json:"subjectId"`
	SubjectName     string `json:"subjectName,omitempty"`
	ChapterName     string `json:"chapterName"`
	TopicName       string `json:"topicName,omitempty"`
	Difficulty      string `json:"difficulty"`
	QuestionCount   int    `json:"questionCount"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
}

type startSessionResponse struct {
	SessionID string           `json:"sessionId"`
	StartedAt time.Time        `json:"startedAt"`
	Deadline  time.Time        `json:"deadline"`
	Questions []question       `json:"questions"`
	Metadata  quizgen.Metadata `json:"metadata"`
}

// answersPayload carries an answer map with string keys, as JSON objects
// require. Keys are parsed as 0-based question indices.
type answersPayload struct {
	Answers map[string]int `json:"answers"`
}

type sessionExplanationResponse struct {
	QuestionIndex int    `json:"questionIndex"`
	Explanation   string `json:"explanation"`
}

func toQuestions(qs []quizgen.Question, withAnswers bool) []question {
	out := make([]question, len(qs))
	for i, q := range qs {
		out[i] = question{Text: q.Text, Options: q.Options}
		if withAnswers {
			idx := q.CorrectIndex
			out[i].CorrectIndex = &idx
		}
	}
	return out
}
