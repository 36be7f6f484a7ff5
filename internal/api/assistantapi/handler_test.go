package assistantapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pepuhub/internal/adapters/errors/noop"
	"pepuhub/internal/assistant"
)

// brokenService has no wired pipeline; any chat attempt panics inside,
// exercising the handler's recovery path.
func brokenService() *assistant.Service {
	known := assistant.NewKnownTokenCache("does/not/exist.json", time.Minute)
	return assistant.NewService(nil, nil, nil, nil, nil, known)
}

func newTestHandler() *Handler {
	return New(brokenService(), noop.New())
}

func postChat(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/assistant/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleChat(rec, req)
	return rec
}

func TestHandleChat_MissingMessage(t *testing.T) {
	for _, body := range []string{`{}`, `{"message":""}`, `{"message":"   "}`} {
		rec := postChat(t, newTestHandler(), body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body=%s", body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "message is required", resp["error"], "body=%s", body)
	}
}

func TestHandleChat_InvalidBody(t *testing.T) {
	rec := postChat(t, newTestHandler(), `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_PanicRecoveredAsApology(t *testing.T) {
	rec := postChat(t, newTestHandler(), `{"message":"tell me about pepu"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp["error"])
	assert.NotEmpty(t, resp["response"], "a failed request still carries renderable text")
	assert.Contains(t, resp["response"], "apologize")
}

func TestHandleRefreshKnownTokens(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/assistant/known-tokens/refresh", nil)
	rec := httptest.NewRecorder()
	newTestHandler().HandleRefreshKnownTokens(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message    string `json:"message"`
		TokenCount int    `json:"tokenCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)
	assert.Greater(t, resp.TokenCount, 0, "fallback table is never empty")
}
