package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-workflow-be/internal/bootstrap"
	"ai-workflow-be/internal/config"
	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/pkg/events"
	"ai-workflow-be/pkg/llm/mock"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App:   config.AppConfig{Port: "0", Environment: "test", CorsAllowedOrigins: "*"},
		Ai:    config.AIConfig{LLMProvider: "mock", GatewayTimeout: time.Second},
		Cache: config.CacheConfig{Backend: "memory", TTL: time.Hour},
		Events: config.EventsConfig{
			Topic: "workflow.events.test",
		},
	}
}

func newTestApp(t *testing.T, provider *mock.Provider) *fiber.App {
	t.Helper()
	container := bootstrap.NewContainerWithProvider(testConfig(), provider, logger.NewNopLogger(), logger.NewNopLogger())
	t.Cleanup(container.Close)
	return New(testConfig(), container).GetApp()
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func quizPool(n int) string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(`{"type":"trueFalse","question":"Hygiene fact %d?","correctAnswer":true,"explanation":"Because %d"}`, i, i))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestQuizScenario(t *testing.T) {
	provider := mock.NewProvider(quizPool(5))
	app := newTestApp(t, provider)

	status, body := do(t, app, http.MethodPost, "/api/start-quiz", map[string]any{
		"numberOfQuestions": 5, "difficulty": "easy", "category": "hygiene",
	})
	require.Equal(t, http.StatusOK, status, body)
	sessionId := body["sessionId"].(string)
	require.NotEmpty(t, sessionId)

	questions := map[string]bool{}
	for i := 0; i < 5; i++ {
		status, body = do(t, app, http.MethodPost, "/api/generate-question", map[string]any{"sessionId": sessionId})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, float64(i), body["questionIndex"])
		assert.Equal(t, "trueFalse", body["type"])
		assert.NotContains(t, body, "correctAnswer")
		questions[body["question"].(string)] = true
	}
	assert.Len(t, questions, 5)

	status, body = do(t, app, http.MethodPost, "/api/generate-question", map[string]any{"sessionId": sessionId})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"quizCompleted": true}, body)

	status, body = do(t, app, http.MethodPost, "/api/check-answer", map[string]any{"sessionId": sessionId, "questionIndex": 0, "userAnswer": "True"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["isCorrect"])
	assert.Equal(t, "Because 1", body["explanation"])
	assert.Equal(t, "true", body["correctAnswer"])

	status, body = do(t, app, http.MethodPost, "/api/complete-quiz", map[string]any{"sessionId": sessionId})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(1), body["score"])
	assert.Equal(t, float64(5), body["total"])
	assert.Contains(t, body["message"], "1 out of 5")

	status, body = do(t, app, http.MethodPost, "/api/complete-quiz", map[string]any{"sessionId": sessionId})
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body["error"])
	assert.Equal(t, 1, provider.Calls())
}

func TestUnknownSessionIs404(t *testing.T) {
	app := newTestApp(t, mock.NewProvider())

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/question"},
		{http.MethodPost, "/api/generate-question"},
		{http.MethodPost, "/api/next-step"},
		{http.MethodPost, "/api/complete-experiment"},
	} {
		status, body := do(t, app, tc.method, tc.path, map[string]any{"sessionId": "nope"})
		assert.Equal(t, http.StatusNotFound, status, tc.path)
		assert.Contains(t, body["error"], "not found", tc.path)
	}

	status, body := do(t, app, http.MethodGet, "/api/interview-summary/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["error"], "not found")

	status, _ = do(t, app, http.MethodGet, "/api/result/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRequestValidationIs400(t *testing.T) {
	app := newTestApp(t, mock.NewProvider())

	status, body := do(t, app, http.MethodPost, "/api/start-interview", map[string]any{"jobRole": "QA"})
	assert.Equal(t, http.StatusBadRequest, status)
	details := body["details"].(map[string]any)
	assert.Contains(t, details, "difficulty")
	assert.Contains(t, details, "numQuestions")

	status, _ = do(t, app, http.MethodPost, "/api/check-answer", map[string]any{"sessionId": "x", "userAnswer": "a"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestOptimizeOutOfRangeIs400WithoutGenerating(t *testing.T) {
	provider := mock.NewProvider()
	app := newTestApp(t, provider)

	status, body := do(t, app, http.MethodPost, "/api/optimize", map[string]any{
		"processSteps": map[string]any{"heating": map[string]any{"Temperature": 200}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["details"], "processSteps.heating.Temperature")
	assert.Zero(t, provider.Calls())
}

func TestOptimizeRoundTrip(t *testing.T) {
	provider := mock.NewProvider(`Here you go: {"optimizations": [{"step": "heating", "parameter": "temperature", "recommendedValue": 70, "suggestion": "lower"}], "summary": {"savings": "10%"}}`)
	app := newTestApp(t, provider)
	req := map[string]any{"processSteps": map[string]any{"heating": map[string]any{"temperature": 90}}}

	status, first := do(t, app, http.MethodPost, "/api/optimize", req)
	require.Equal(t, http.StatusOK, status, first)
	assert.Equal(t, false, first["fromCache"])

	status, second := do(t, app, http.MethodPost, "/api/optimize", req)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, second["fromCache"])

	id := first["metadata"].(map[string]any)["id"].(string)

	status, result := do(t, app, http.MethodGet, "/api/result/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"savings": "10%"}, result["summary"])

	status, _ = do(t, app, http.MethodDelete, "/api/result/"+id, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = do(t, app, http.MethodDelete, "/api/result/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMalformedModelOutputIs500WithRaw(t *testing.T) {
	app := newTestApp(t, mock.NewProvider("I'd rather not answer in JSON"))

	status, body := do(t, app, http.MethodPost, "/api/start-experiment", map[string]any{"experimentName": "Titration"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotEmpty(t, body["error"])
	details := body["details"].(map[string]any)
	assert.Equal(t, "I'd rather not answer in JSON", details["raw"])
}

func TestInterviewOverHTTP(t *testing.T) {
	provider := mock.NewProvider("Tell me about yourself.")
	app := newTestApp(t, provider)

	status, body := do(t, app, http.MethodPost, "/api/start-interview", map[string]any{
		"jobRole": "Data Engineer", "difficulty": "easy", "interviewType": "behavioral", "numQuestions": 1,
	})
	require.Equal(t, http.StatusOK, status, body)
	sessionId := body["sessionId"].(string)

	status, body = do(t, app, http.MethodPost, "/api/question", map[string]any{"sessionId": sessionId})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Tell me about yourself.", body["question"])
	assert.Equal(t, float64(0), body["questionIndex"])

	status, body = do(t, app, http.MethodPost, "/api/question", map[string]any{"sessionId": sessionId})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"completed": true}, body)

	status, body = do(t, app, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["sessions"].(map[string]any)["interview"])
}

func TestHealthReportsConsumedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container := bootstrap.NewContainerWithProvider(testConfig(), mock.NewProvider(), logger.NewNopLogger(), logger.NewNopLogger())
	t.Cleanup(container.Close)
	require.NoError(t, container.ConsumerService.Consume(ctx))
	app := New(testConfig(), container).GetApp()

	status, body := do(t, app, http.MethodPost, "/api/start-interview", map[string]any{
		"jobRole": "Chef", "difficulty": "easy", "interviewType": "technical", "numQuestions": 2,
	})
	require.Equal(t, http.StatusOK, status, body)

	require.Eventually(t, func() bool {
		_, body := do(t, app, http.MethodGet, "/api/health", nil)
		counts, ok := body["events"].(map[string]any)
		return ok && counts[events.TypeSessionStarted] == float64(1)
	}, time.Second, 10*time.Millisecond)
}
