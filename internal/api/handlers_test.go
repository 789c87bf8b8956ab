package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightboard/assessment/internal/attempt"
	"github.com/brightboard/assessment/internal/explain"
	"github.com/brightboard/assessment/internal/llm"
	"github.com/brightboard/assessment/internal/logger"
	"github.com/brightboard/assessment/internal/quizgen"
	"github.com/brightboard/assessment/internal/remarks"
)

// memStore is an in-memory attempt.Store for handler tests.
type memStore struct {
	mu         sync.Mutex
	records    []attempt.Record
	failAppend bool
}

func (m *memStore) AppendAttempt(_ context.Context, rec attempt.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAppend {
		return fmt.Errorf("store unavailable")
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memStore) ListAttempts(_ context.Context, studentID string) ([]attempt.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attempt.Record
	for _, r := range m.records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) AppendLLMEvent(context.Context, llm.RequestEvent) error { return nil }

func (m *memStore) Close() error { return nil }

type serverFixture struct {
	srv         *httptest.Server
	store       *memStore
	quizMock    *llm.MockProvider
	explainMock *llm.MockProvider
	remarksMock *llm.MockProvider
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	f := &serverFixture{
		store:       &memStore{},
		quizMock:    llm.NewMockProvider(),
		explainMock: llm.NewMockProvider(),
		remarksMock: llm.NewMockProvider(),
	}
	log := logger.Nop()
	quizSvc := quizgen.NewService(f.quizMock, quizgen.DefaultConfig())
	explainSvc := explain.NewService(f.explainMock, explain.DefaultConfig())
	remarksSvc := remarks.NewService(f.remarksMock, remarks.DefaultConfig(), log)
	manager := attempt.NewManager(quizSvc, explainSvc, remarksSvc, f.store, attempt.DefaultManagerConfig(), log)
	t.Cleanup(manager.Close)

	server := NewServer(quizSvc, explainSvc, remarksSvc, manager, f.store, log, DefaultOptions())
	f.srv = httptest.NewServer(server.Router())
	t.Cleanup(f.srv.Close)
	return f
}

func (f *serverFixture) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(f.srv.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func quizPayload(n int) json.RawMessage {
	var qs []string
	for i := 0; i < n; i++ {
		qs = append(qs, fmt.Sprintf(
			`{"question":"Question %d?","options":["a","b","c","d"],"correct_answer":%d}`,
			i, i%4))
	}
	return json.RawMessage(`{"questions":[` + strings.Join(qs, ",") + `]}`)
}

func TestGenerateQuiz(t *testing.T) {
	f := newServerFixture(t)
	f.quizMock.AddResponse(llm.MockResponse{Content: quizPayload(10)})

	resp := f.post(t, "/api/quiz/generate", map[string]any{
		"subjectId":   "s1",
		"chapterName": "Algebra",
		"difficulty":  "medium",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[generateQuizResponse](t, resp)
	require.Len(t, body.Questions, 10)
	assert.Equal(t, 10, body.Metadata.QuestionCount)
	for i, q := range body.Questions {
		assert.Len(t, q.Options, 4)
		require.NotNil(t, q.CorrectIndex, "question %d missing answer key", i)
	}
}

func TestGenerateQuiz_MalformedOutput(t *testing.T) {
	f := newServerFixture(t)
	f.quizMock.AddResponse(llm.MockResponse{Content: json.RawMessage(`not json at all`)})

	resp := f.post(t, "/api/quiz/generate", map[string]any{
		"subjectId":   "s1",
		"chapterName": "Algebra",
		"difficulty":  "medium",
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decode[errorResponse](t, resp)
	assert.Equal(t, "malformed_output", body.Code)
}

func TestGenerateQuiz_SchemaViolation(t *testing.T) {
	f := newServerFixture(t)
	f.quizMock.AddResponse(llm.MockResponse{
		Content: json.RawMessage(`{"questions":[{"question":"q","options":["a","b"],"correct_answer":0}]}`),
	})

	resp := f.post(t, "/api/quiz/generate", map[string]any{
		"subjectId":   "s1",
		"chapterName": "Algebra",
		"difficulty":  "medium",
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decode[errorResponse](t, resp)
	assert.Equal(t, "schema_violation", body.Code)
}

func TestGenerateQuiz_InvalidRequest(t *testing.T) {
	f := newServerFixture(t)

	resp := f.post(t, "/api/quiz/generate", map[string]any{
		"subjectId":  "s1",
		"difficulty": "medium",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, f.quizMock.CallCount(), "invalid request must not reach the provider")
}

func TestGenerateExplanation(t *testing.T) {
	f := newServerFixture(t)
	f.explainMock.AddResponse(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"because the slope is rise over run"}`),
	})

	resp := f.post(t, "/api/explanations", map[string]any{
		"question":           "What is slope?",
		"options":            []string{"a", "b", "c", "d"},
		"correctAnswerIndex": 1,
		"studentAnswerIndex": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[explanationResponse](t, resp)
	assert.Equal(t, "because the slope is rise over run", body.Explanation)
}

func TestGenerateExplanation_UpstreamFailure(t *testing.T) {
	f := newServerFixture(t)
	// Empty mock queue: the provider reports unavailable.

	resp := f.post(t, "/api/explanations", map[string]any{
		"question":           "What is slope?",
		"options":            []string{"a", "b", "c", "d"},
		"correctAnswerIndex": 1,
	})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decode[errorResponse](t, resp)
	assert.Equal(t, "explanation_unavailable", body.Code)
}

func TestGenerateRemarks_FallbackAlwaysSucceeds(t *testing.T) {
	f := newServerFixture(t)
	// Empty mock queue: generation fails, the fallback band answers.

	resp := f.post(t, "/api/remarks", map[string]any{
		"score":          9,
		"totalQuestions": 10,
		"chapterName":    "Algebra",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[remarksResponse](t, resp)
	require.Len(t, body.Remarks, 4)
	assert.Equal(t, "Excellent performance achieved", body.Remarks[0])
}

func TestGenerateRemarks_Generated(t *testing.T) {
	f := newServerFixture(t)
	f.remarksMock.AddResponse(llm.MockResponse{
		Content: json.RawMessage(`["p1","p2","p3","p4"]`),
	})

	resp := f.post(t, "/api/remarks", map[string]any{
		"score":          5,
		"totalQuestions": 10,
		"chapterName":    "Algebra",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[remarksResponse](t, resp)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, body.Remarks)
}

func TestSubmitAndListAttempts(t *testing.T) {
	f := newServerFixture(t)

	resp := f.post(t, "/api/attempts", map[string]any{
		"studentId":   "stu-1",
		"subjectId":   "s1",
		"chapterName": "Algebra",
		"score":       7,
		"difficulty":  "medium",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	submitted := decode[submitAttemptResponse](t, resp)
	require.NotEmpty(t, submitted.AttemptID)

	listResp, err := http.Get(f.srv.URL + "/api/attempts?student_id=stu-1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	listed := decode[struct {
		Attempts []attempt.Record `json:"attempts"`
	}](t, listResp)
	require.Len(t, listed.Attempts, 1)
	assert.Equal(t, 7, listed.Attempts[0].Score)
}

func TestSubmitAttempt_RejectsOutOfRangeScore(t *testing.T) {
	f := newServerFixture(t)

	resp := f.post(t, "/api/attempts", map[string]any{
		"studentId":   "stu-1",
		"subjectId":   "s1",
		"chapterName": "Algebra",
		"score":       11,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionFlow(t *testing.T) {
	f := newServerFixture(t)
	f.quizMock.AddResponse(llm.MockResponse{Content: quizPayload(4)})
	f.remarksMock.AddResponse(llm.MockResponse{
		Content: json.RawMessage(`["g1","g2","g3","g4"]`),
	})

	startResp := f.post(t, "/api/sessions", map[string]any{
		"studentId":   "stu-1",
		"subjectId":   "s1",
		"chapterName": "Algebra",
		"difficulty":  "hard",
	})
	require.Equal(t, http.StatusOK, startResp.StatusCode)
	started := decode[startSessionResponse](t, startResp)
	require.NotEmpty(t, started.SessionID)
	require.Len(t, started.Questions, 4)
	for i, q := range started.Questions {
		assert.Nil(t, q.CorrectIndex, "question %d leaked its answer key", i)
	}

	// Save partial answers mid-attempt.
	saveResp := f.post(t, "/api/sessions/"+started.SessionID+"/answers", map[string]any{
		"answers": map[string]int{"0": 0},
	})
	require.Equal(t, http.StatusOK, saveResp.StatusCode)
	saveResp.Body.Close()

	// Submit with the rest. Correct answers are i%4 per quizPayload.
	submitResp := f.post(t, "/api/sessions/"+started.SessionID+"/submit", map[string]any{
		"answers": map[string]int{"1": 1, "2": 2, "3": 0},
	})
	require.Equal(t, http.StatusOK, submitResp.StatusCode)
	result := decode[attempt.Result](t, submitResp)

	// 3 of 4 correct: round(3/4*10) = 8.
	assert.Equal(t, 8, result.Score)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, []int{0, 1, 2, 3}, result.CorrectAnswers)
	assert.True(t, result.Saved)
	assert.Equal(t, []string{"g1", "g2", "g3", "g4"}, result.Remarks)
}

func TestSessionFlow_ResubmitReturnsSameResult(t *testing.T) {
	f := newServerFixture(t)
	f.quizMock.AddResponse(llm.MockResponse{Content: quizPayload(4)})
	f.remarksMock.AddResponse(llm.MockResponse{
		Content: json.RawMessage(`["g1","g2","g3","g4"]`),
	})

	started := decode[startSessionResponse](t, f.post(t, "/api/sessions", map[string]any{
		"studentId":   "stu-1",
		"subjectId":   "s1",
		"chapterName": "Algebra",
		"difficulty":  "easy",
	}))

	first := decode[attempt.Result](t, f.post(t, "/api/sessions/"+started.SessionID+"/submit", map[string]any{
		"answers": map[string]int{"0": 0},
	}))
	second := decode[attempt.Result](t, f.post(t, "/api/sessions/"+started.SessionID+"/submit", map[string]any{
		"answers": map[string]int{"0": 3, "1": 3},
	}))

	assert.Equal(t, first.AttemptID, second.AttemptID)
	assert.Equal(t, first.Score, second.Score)
}

func TestSessionExplanation(t *testing.T) {
	f := newServerFixture(t)
	f.quizMock.AddResponse(llm.MockResponse{Content: quizPayload(4)})
	f.explainMock.AddResponse(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"first"}`),
	})
	f.explainMock.AddResponse(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"second"}`),
	})

	started := decode[startSessionResponse](t, f.post(t, "/api/sessions", map[string]any{
		"studentId":   "stu-1",
		"subjectId":   "s1",
		"chapterName": "Algebra",
		"difficulty":  "medium",
	}))

	path := "/api/sessions/" + started.SessionID + "/questions/2/explanation"
	got := decode[sessionExplanationResponse](t, f.post(t, path, map[string]any{}))
	assert.Equal(t, 2, got.QuestionIndex)
	assert.Equal(t, "first", got.Explanation)

	// Cached on repeat.
	got = decode[sessionExplanationResponse](t, f.post(t, path, map[string]any{}))
	assert.Equal(t, "first", got.Explanation)
	assert.Equal(t, 1, f.explainMock.CallCount())

	// Regenerated on refresh.
	got = decode[sessionExplanationResponse](t, f.post(t, path+"?refresh=1", map[string]any{}))
	assert.Equal(t, "second", got.Explanation)
}

func TestSessionExplanation_UnknownSession(t *testing.T) {
	f := newServerFixture(t)

	resp := f.post(t, "/api/sessions/nope/questions/0/explanation", map[string]any{})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[errorResponse](t, resp)
	assert.Equal(t, "not_found", body.Code)
}

func TestListAttempts_RequiresStudentID(t *testing.T) {
	f := newServerFixture(t)

	resp, err := http.Get(f.srv.URL + "/api/attempts")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
