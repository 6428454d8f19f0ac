package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
	"github.com/fyrsmithlabs/memoryd/internal/config"
	"github.com/fyrsmithlabs/memoryd/internal/engine"
	"github.com/fyrsmithlabs/memoryd/internal/llm"
	"github.com/fyrsmithlabs/memoryd/internal/services"
	"github.com/fyrsmithlabs/memoryd/internal/store"
)

// newTestServer wires an in-memory store, a mock capability, and the
// engine behind a server instance.
func newTestServer(t *testing.T) (*Server, *store.Store, *llm.Mock) {
	t.Helper()

	st, err := store.Open(store.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	mock := llm.NewMock()
	eng := engine.NewEngine(st, mock, engine.Options{})

	reg := services.NewRegistry(services.Options{
		Engine:     eng,
		Store:      st,
		Capability: mock,
	})

	cfg := config.Default()
	return NewServer(cfg, reg, Options{}), st, mock
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echoContentType, "application/json")
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

const echoContentType = "Content-Type"

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "memoryd", health.Service)
}

func TestAttributeCRUD(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// Create.
	m := attribute.Master{
		Name:             "User Profile",
		ExtractionPrompt: "extract the profile",
		JudgmentPrompt:   "judge the profile",
	}
	rec := doJSON(t, srv, http.MethodPost, "/v1/attributes", m)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created attribute.Master
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	// Get.
	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/v1/attributes/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Update.
	created.JudgmentPrompt = "judge harder"
	rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/v1/attributes/%d", created.ID), created)
	require.Equal(t, http.StatusOK, rec.Code)

	// List reflects the update.
	rec = doJSON(t, srv, http.MethodGet, "/v1/attributes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var masters []attribute.Master
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &masters))
	require.Len(t, masters, 1)
	assert.Equal(t, "judge harder", masters[0].JudgmentPrompt)

	// Delete.
	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/v1/attributes/%d", created.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/v1/attributes/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttributeValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/attributes", attribute.Master{Name: "incomplete"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/attributes/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/v1/attributes/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatJSON(t *testing.T) {
	srv, st, mock := newTestServer(t)

	id, err := st.InsertAttributeMaster(context.Background(), attribute.Master{
		Name:             "User Profile",
		ExtractionPrompt: "extract",
		JudgmentPrompt:   "judge",
	})
	require.NoError(t, err)

	mock.SetExtraction("User Profile", "Taro")
	mock.AddResponse("Nice to meet you, Taro.")

	rec := doJSON(t, srv, http.MethodPost, "/v1/chat", ChatRequest{Message: "My name is Taro"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result ChatResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Nice to meet you, Taro.", result.ResponseText)
	assert.NotEmpty(t, result.SessionID)
	require.Len(t, result.ExtractedAttributes, 1)
	assert.Equal(t, "Taro", result.ExtractedAttributes[0].Content)

	// The extraction was persisted.
	records, err := st.AttributeRecords(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Taro", records[0].Content)

	// A follow-up on the same session reuses its history.
	rec = doJSON(t, srv, http.MethodPost, "/v1/chat", ChatRequest{
		SessionID: result.SessionID,
		Message:   "What is my name?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var second ChatResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, result.SessionID, second.SessionID)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/chat", ChatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatSSE(t *testing.T) {
	srv, _, mock := newTestServer(t)
	mock.AddResponse("streamed reply")

	rec := doJSON(t, srv, http.MethodPost, "/v1/chat", ChatRequest{Message: "hi", Stream: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echoContentType), "text/event-stream")

	events := parseSSE(t, rec.Body.String())
	require.NotEmpty(t, events)

	// With no masters configured the only statuses are generation ones,
	// followed by the terminal response event.
	require.Len(t, events, 3)
	assert.Equal(t, "status", events[0].name)
	assert.Equal(t, "status", events[1].name)
	assert.Equal(t, "response", events[2].name)

	var status engine.TaskStatus
	require.NoError(t, json.Unmarshal([]byte(events[0].data), &status))
	assert.Equal(t, engine.TaskGeneration, status.Type)
	assert.Equal(t, engine.StateProcessing, status.State)

	var result ChatResult
	require.NoError(t, json.Unmarshal([]byte(events[2].data), &result))
	assert.Equal(t, "streamed reply", result.ResponseText)
}

func TestChatSSEErrorEvent(t *testing.T) {
	srv, _, mock := newTestServer(t)
	mock.SetGenerateError(fmt.Errorf("model down"))

	rec := doJSON(t, srv, http.MethodPost, "/v1/chat", ChatRequest{Message: "hi", Stream: true})
	require.Equal(t, http.StatusOK, rec.Code)

	events := parseSSE(t, rec.Body.String())
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, "error", last.name)
	assert.Contains(t, last.data, "model down")
}

func TestHistoryEndpoints(t *testing.T) {
	srv, _, mock := newTestServer(t)
	mock.AddResponse("hello back")

	rec := doJSON(t, srv, http.MethodPost, "/v1/chat", ChatRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	var result ChatResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	rec = doJSON(t, srv, http.MethodGet, "/v1/sessions/"+result.SessionID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var hist HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	require.Len(t, hist.Messages, 2)
	assert.Equal(t, "hello", hist.Messages[0].Content)
	assert.Equal(t, "hello back", hist.Messages[1].Content)

	// Clear, then verify empty.
	rec = doJSON(t, srv, http.MethodDelete, "/v1/sessions/"+result.SessionID+"/history", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/v1/sessions/"+result.SessionID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	assert.Empty(t, hist.Messages)

	// Unknown session.
	rec = doJSON(t, srv, http.MethodGet, "/v1/sessions/nope/history", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordsEndpoints(t *testing.T) {
	srv, st, _ := newTestServer(t)

	id, err := st.InsertAttributeMaster(context.Background(), attribute.Master{
		Name:             "Hobbies",
		ExtractionPrompt: "extract",
		JudgmentPrompt:   "judge",
	})
	require.NoError(t, err)

	_, err = st.InsertAttributeRecord(context.Background(), attribute.Record{
		AttributeID: id,
		Content:     "hiking",
	})
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/v1/attributes/%d/records", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var records []attribute.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "hiking", records[0].Content)

	rec = doJSON(t, srv, http.MethodGet, "/v1/records", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
}

type sseEvent struct {
	name string
	data string
}

// parseSSE splits a raw SSE body into events.
func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	var current sseEvent
	for _, line := range strings.Split(body, "\n") {
		switch {
		case strings.HasPrefix(line, "event: "):
			current.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.data = strings.TrimPrefix(line, "data: ")
		case line == "" && current.name != "":
			events = append(events, current)
			current = sseEvent{}
		}
	}
	return events
}
