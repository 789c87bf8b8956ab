package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightboard/assessment/internal/attempt"
	"github.com/brightboard/assessment/internal/explain"
	"github.com/brightboard/assessment/internal/quizgen"
	"github.com/brightboard/assessment/internal/remarks"
	"github.com/brightboard/assessment/internal/scoring"
)

// GenerateQuizHandler runs the full generation pipeline and returns the
// complete quiz including answer keys. Stateless: no session is opened.
func (s *Server) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "bad json")
		return
	}

	quiz, err := s.quiz.Generate(r.Context(), req.toDomain())
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateQuizResponse{
		Questions: toQuestions(quiz.Questions, true),
		Metadata:  quiz.Metadata,
	})
}

// generateExplanation produces a one-off rationale with no session cache.
func (s *Server) generateExplanation(w http.ResponseWriter, r *http.Request) {
	var req explanationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "bad json")
		return
	}

	domainReq := explain.Request{
		Question:     req.Question,
		Options:      req.Options,
		CorrectIndex: req.CorrectIndex,
		StudentIndex: req.StudentIndex,
		Topic:        req.TopicName,
	}
	if err := domainReq.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	text, err := s.explain.Explain(r.Context(), domainReq)
	if err != nil {
		// No fallback text exists; the client shows "explanation unavailable".
		writeError(w, http.StatusBadGateway, "explanation_unavailable", "explanation generation failed, please try again")
		return
	}
	writeJSON(w, http.StatusOK, explanationResponse{Explanation: text})
}

// generateRemarks always succeeds: upstream failure is absorbed by the
// deterministic fallback server-side.
func (s *Server) generateRemarks(w http.ResponseWriter, r *http.Request) {
	var req remarksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "bad json")
		return
	}
	if req.TotalQuestions <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "totalQuestions must be positive")
		return
	}
	if req.ChapterName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "chapterName is required")
		return
	}

	summary := s.remarks.Remark(r.Context(), remarks.Request{
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		ChapterName:    req.ChapterName,
		Topic:          req.TopicName,
		Difficulty:     quizgen.Difficulty(req.Difficulty),
	})
	writeJSON(w, http.StatusOK, remarksResponse{Remarks: summary.Slice()})
}

// submitAttempt appends a completed attempt record directly, for clients
// that manage their own attempt state.
func (s *Server) submitAttempt(w http.ResponseWriter, r *http.Request) {
	var req submitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "bad json")
		return
	}
	if req.StudentID == "" || req.SubjectID == "" || req.ChapterName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "studentId, subjectId and chapterName are required")
		return
	}
	if req.Score < 0 || req.Score > scoring.MaxScore {
		writeError(w, http.StatusBadRequest, "invalid_request", "score out of range")
		return
	}

	rec := attempt.Record{
		StudentID:   req.StudentID,
		SubjectID:   req.SubjectID,
		ChapterName: req.ChapterName,
		TopicName:   req.TopicName,
		Score:       req.Score,
		Difficulty:  quizgen.Difficulty(req.Difficulty),
	}
	rec.ID = uuid.NewString()
	if err := s.store.AppendAttempt(r.Context(), rec); err != nil {
		s.log.Error("append attempt failed", "student_id", req.StudentID, "error", err)
		writeError(w, http.StatusInternalServerError, "persistence_failure", "attempt could not be saved")
		return
	}
	writeJSON(w, http.StatusOK, submitAttemptResponse{AttemptID: rec.ID})
}

// listAttempts returns a student's persisted attempt history.
func (s *Server) listAttempts(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("student_id")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "student_id is required")
		return
	}
	recs, err := s.store.ListAttempts(r.Context(), studentID)
	if err != nil {
		s.log.Error("list attempts failed", "student_id", studentID, "error", err)
		writeError(w, http.StatusInternalServerError, "persistence_failure", "attempts could not be loaded")
		return
	}
	if recs == nil {
		recs = []attempt.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"attempts": recs})
}

// startSession generates a quiz and opens a timed attempt session. Answer
// keys are withheld until submission.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "bad json")
		return
	}
	if req.StudentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "studentId is required")
		return
	}

	start := attempt.StartRequest{
		StudentID: req.StudentID,
		Quiz: quizgen.Request{
			SubjectID:     req.SubjectID,
			SubjectName:   req.SubjectName,
			ChapterName:   req.ChapterName,
			TopicName:     req.TopicName,
			Difficulty:    quizgen.Difficulty(req.Difficulty),
			QuestionCount: req.QuestionCount,
		},
		Duration: time.Duration(req.DurationSeconds) * time.Second,
	}

	session, err := s.attempts.Start(r.Context(), start)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, startSessionResponse{
		SessionID: session.ID,
		StartedAt: session.StartedAt,
		Deadline:  session.Deadline,
		Questions: toQuestions(session.Quiz.Questions, false),
		Metadata:  session.Quiz.Metadata,
	})
}

// saveAnswers merges in-progress answers into the session.
func (s *Server) saveAnswers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	answers, ok := decodeAnswers(w, r)
	if !ok {
		return
	}
	if err := s.attempts.SaveAnswers(id, answers); err != nil {
		writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// submitSession closes the attempt. Duplicate submissions (double click,
// timer race) receive the already-computed result.
func (s *Server) submitSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	answers, ok := decodeAnswers(w, r)
	if !ok {
		return
	}
	result, err := s.attempts.Submit(r.Context(), id, answers)
	if err != nil {
		writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// sessionExplanation serves the cached per-attempt rationale for one
// question; ?refresh=1 regenerates it.
func (s *Server) sessionExplanation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "bad question index")
		return
	}
	refresh := r.URL.Query().Get("refresh") == "1"

	text, err := s.attempts.Explanation(r.Context(), id, index, refresh)
	if err != nil {
		if err == attempt.ErrSessionNotFound {
			writeError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		writeError(w, http.StatusBadGateway, "explanation_unavailable", "explanation generation failed, please try again")
		return
	}
	writeJSON(w, http.StatusOK, sessionExplanationResponse{
		QuestionIndex: index,
		Explanation:   text,
	})
}

// decodeAnswers parses the {"answers":{"0":2}} payload into an index map.
// A missing body yields an empty map.
func decodeAnswers(w http.ResponseWriter, r *http.Request) (map[int]int, bool) {
	var payload answersPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "bad json")
		return nil, false
	}
	answers := make(map[int]int, len(payload.Answers))
	for k, sel := range payload.Answers {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "answer keys must be non-negative question indices")
			return nil, false
		}
		answers[idx] = sel
	}
	return answers, true
}
