package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNewSessionHandler(t *testing.T) {
	s, store := newTestServer(&fakeAgentClient{})

	rec := doJSON(s, http.MethodPost, "/api/session/new?name=杭州行", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "杭州行", body["name"])
	assert.NotEmpty(t, body["session_id"])
	assert.Equal(t, 1, store.Len())
}

func TestListSessionsHandler(t *testing.T) {
	s, store := newTestServer(&fakeAgentClient{})

	empty := store.Create("empty")
	active := store.Create("active")
	require.NoError(t, store.Touch(active.ID, 2))

	rec := doJSON(s, http.MethodGet, "/api/sessions", "")
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total"])

	rec = doJSON(s, http.MethodGet, "/api/sessions?include_empty=true", "")
	body = decodeBody(t, rec)
	assert.Equal(t, float64(2), body["total"])

	sessions := body["sessions"].([]any)
	first := sessions[0].(map[string]any)
	assert.Equal(t, active.ID, first["session_id"])
	_ = empty
}

func TestDeleteSessionHandler(t *testing.T) {
	s, store := newTestServer(&fakeAgentClient{})
	sess := store.Create("")

	rec := doJSON(s, http.MethodDelete, "/api/session/"+sess.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(s, http.MethodDelete, "/api/session/"+sess.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "会话不存在", body["detail"])
}

func TestRenameSessionHandler(t *testing.T) {
	s, store := newTestServer(&fakeAgentClient{})
	sess := store.Create("旧名")

	rec := doJSON(s, http.MethodPut, "/api/session/"+sess.ID+"/name", `{"name":"新名"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "新名", decodeBody(t, rec)["name"])

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "新名", got.Name)

	rec = doJSON(s, http.MethodPut, "/api/session/missing/name", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(s, http.MethodPut, "/api/session/"+sess.ID+"/name", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionModelHandlers(t *testing.T) {
	s, store := newTestServer(&fakeAgentClient{})
	sess := store.Create("")

	// Default model before any explicit choice.
	rec := doJSON(s, http.MethodGet, "/api/session/"+sess.ID+"/model", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "qwen", decodeBody(t, rec)["model_id"])

	rec = doJSON(s, http.MethodPut, "/api/session/"+sess.ID+"/model", `{"model_id":"qwen"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Unknown model 404s with the model error shape.
	rec = doJSON(s, http.MethodPut, "/api/session/"+sess.ID+"/model", `{"model_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Model not found", decodeBody(t, rec)["error"])

	rec = doJSON(s, http.MethodGet, "/api/session/missing/model", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearSessionHandler(t *testing.T) {
	s, store := newTestServer(&fakeAgentClient{})
	sess := store.Create("")
	require.NoError(t, store.Touch(sess.ID, 4))

	rec := doJSON(s, http.MethodPost, "/api/clear/"+sess.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Zero(t, got.MessageCount)

	rec = doJSON(s, http.MethodPost, "/api/clear/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
