package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaot623/roastbattle/battle"
	"github.com/xiaot623/roastbattle/llm"
	"github.com/xiaot623/roastbattle/policy"
	"github.com/xiaot623/roastbattle/roast"
	"github.com/xiaot623/roastbattle/tests/helpers"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	st := helpers.NewTestSQLiteStore(t)
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	client := llm.NewMockClient()
	generator := roast.NewGenerator(client, "mock", 0)
	scorer := roast.NewScorer(client, "mock")
	svc := battle.New(st, generator, scorer, engine, 0)

	e := echo.New()
	NewHandler(svc).RegisterRoutes(e)
	return e
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, e *echo.Echo) string {
	t.Helper()

	rec := doRequest(e, http.MethodPost, "/v1/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var session struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.True(t, strings.HasPrefix(session.SessionID, "sess_"), "unexpected session id %q", session.SessionID)
	return session.SessionID
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestListStyles(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/v1/styles", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Styles map[string]string `json:"styles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Styles, 5)
	for _, style := range []string{"savage", "clever", "playful", "creative", "cringe"} {
		assert.NotEmpty(t, resp.Styles[style], "missing description for %s", style)
	}
}

func TestPlayRoundEndToEnd(t *testing.T) {
	e := newTestServer(t)
	sessionID := createSession(t, e)

	body := `{"user_roast":"You have something on your chin... no, the third one down.","style":"savage","difficulty":"hard"}`
	rec := doRequest(e, http.MethodPost, "/v1/sessions/"+sessionID+"/rounds", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var record struct {
		RoundID   string `json:"round_id"`
		SessionID string `json:"session_id"`
		UserRoast string `json:"user_roast"`
		AIRoast   string `json:"ai_roast"`
		UserScore struct {
			Overall float64 `json:"overall"`
			Grade   string  `json:"grade"`
		} `json:"user_score"`
		AIScore struct {
			Overall float64 `json:"overall"`
		} `json:"ai_score"`
		Winner string `json:"winner"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.True(t, strings.HasPrefix(record.RoundID, "rnd_"))
	assert.Equal(t, sessionID, record.SessionID)
	assert.NotEmpty(t, record.AIRoast)
	assert.GreaterOrEqual(t, record.UserScore.Overall, 1.0)
	assert.LessOrEqual(t, record.UserScore.Overall, 10.0)
	assert.NotEmpty(t, record.UserScore.Grade)
	assert.Contains(t, []string{"user", "ai", "tie"}, record.Winner)

	// History and stats reflect the round.
	rec = doRequest(e, http.MethodGet, "/v1/sessions/"+sessionID+"/rounds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Rounds []json.RawMessage `json:"rounds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history.Rounds, 1)

	rec = doRequest(e, http.MethodGet, "/v1/sessions/"+sessionID+"/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		Rounds  int     `json:"rounds"`
		WinRate float64 `json:"win_rate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Rounds)
}

func TestPlayRoundRejected(t *testing.T) {
	e := newTestServer(t)
	sessionID := createSession(t, e)

	rec := doRequest(e, http.MethodPost, "/v1/sessions/"+sessionID+"/rounds", `{"user_roast":"   "}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "roast rejected", resp["error"])
	assert.NotEmpty(t, resp["reason"])

	long := strings.Repeat("a", 501)
	rec = doRequest(e, http.MethodPost, "/v1/sessions/"+sessionID+"/rounds", fmt.Sprintf(`{"user_roast":"%s"}`, long))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Nothing recorded.
	rec = doRequest(e, http.MethodGet, "/v1/sessions/"+sessionID+"/rounds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Rounds []json.RawMessage `json:"rounds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Empty(t, history.Rounds)
}

func TestGetRoundsLimit(t *testing.T) {
	e := newTestServer(t)
	sessionID := createSession(t, e)

	for i := 0; i < 3; i++ {
		body := fmt.Sprintf(`{"user_roast":"round number %d roast","style":"clever"}`, i)
		rec := doRequest(e, http.MethodPost, "/v1/sessions/"+sessionID+"/rounds", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := doRequest(e, http.MethodGet, "/v1/sessions/"+sessionID+"/rounds?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		Rounds []struct {
			UserRoast string `json:"user_roast"`
		} `json:"rounds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Rounds, 2)
	// Most recent two, oldest first.
	assert.Equal(t, "round number 1 roast", history.Rounds[0].UserRoast)
	assert.Equal(t, "round number 2 roast", history.Rounds[1].UserRoast)
}

func TestResetSession(t *testing.T) {
	e := newTestServer(t)
	sessionID := createSession(t, e)

	rec := doRequest(e, http.MethodPost, "/v1/sessions/"+sessionID+"/rounds", `{"user_roast":"a perfectly fine roast"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodPost, "/v1/sessions/"+sessionID+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "true")

	rec = doRequest(e, http.MethodGet, "/v1/sessions/"+sessionID+"/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		Rounds int `json:"rounds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Zero(t, stats.Rounds)
}

func TestSessionNotFound(t *testing.T) {
	e := newTestServer(t)

	for _, req := range []struct {
		method, path string
		body         string
	}{
		{http.MethodPost, "/v1/sessions/sess_ghost/rounds", `{"user_roast":"hello"}`},
		{http.MethodGet, "/v1/sessions/sess_ghost/rounds", ""},
		{http.MethodGet, "/v1/sessions/sess_ghost/stats", ""},
		{http.MethodPost, "/v1/sessions/sess_ghost/reset", ""},
	} {
		rec := doRequest(e, req.method, req.path, req.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", req.method, req.path)
	}
}
