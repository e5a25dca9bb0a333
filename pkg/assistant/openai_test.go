package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenAIClient(config.OpenAI{
		APIKey:     "sk-test",
		BaseURL:    srv.URL + "/",
		Timeout:    5 * time.Second,
		MaxRetries: 0,
	})
}

func TestOpenAIClient_AddMessageSendsTextThenImagesInOrder(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads/thread_1/messages", r.URL.Path)
		assert.Equal(t, "assistants=v2", r.Header.Get("OpenAI-Beta"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","object":"thread.message","role":"user","content":[]}`))
	})

	err := client.AddMessage(context.Background(), "thread_1", MessageInput{
		Text:      "analyze",
		ImageURLs: []string{"https://charts/a.png", "https://charts/b.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, "user", body["role"])
	content, ok := body["content"].([]any)
	require.True(t, ok)
	require.Len(t, content, 3)

	first := content[0].(map[string]any)
	assert.Equal(t, "text", first["type"])
	assert.Equal(t, "analyze", first["text"])

	for i, want := range []string{"https://charts/a.png", "https://charts/b.png"} {
		part := content[i+1].(map[string]any)
		assert.Equal(t, "image_url", part["type"])
		assert.Equal(t, want, part["image_url"].(map[string]any)["url"])
	}
}

func TestOpenAIClient_RunLifecycle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/threads":
			_, _ = w.Write([]byte(`{"id":"thread_1","object":"thread"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_1/runs":
			_, _ = w.Write([]byte(`{"id":"run_1","thread_id":"thread_1","status":"queued"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/threads/thread_1/runs/run_1":
			_, _ = w.Write([]byte(`{"id":"run_1","thread_id":"thread_1","status":"failed","last_error":{"code":"server_error","message":"boom"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/threads/thread_1/messages":
			assert.Equal(t, "desc", r.URL.Query().Get("order"))
			_, _ = w.Write([]byte(`{"object":"list","data":[
				{"id":"msg_2","role":"assistant","content":[{"type":"text","text":{"value":"{\"a\":1}","annotations":[]}}]},
				{"id":"msg_1","role":"user","content":[{"type":"text","text":{"value":"analyze","annotations":[]}}]}
			],"has_more":false}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	threadID, err := client.CreateThread(ctx, map[string]string{"domain": "macro"})
	require.NoError(t, err)
	assert.Equal(t, "thread_1", threadID)

	run, err := client.CreateRun(ctx, threadID, "asst_1")
	require.NoError(t, err)
	assert.Equal(t, RunStatusQueued, run.Status)

	run, err = client.GetRun(ctx, threadID, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, "server_error", run.LastErrorCode)
	assert.Equal(t, "boom", run.LastErrorMessage)

	messages, err := client.ListMessages(ctx, threadID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, RoleAssistant, messages[0].Role)
	assert.Equal(t, `{"a":1}`, messages[0].Text)
}
