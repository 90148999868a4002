package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealcompanion/llm"
	"mealcompanion/tools"
)

// mockHTTPClient implements the HTTPClient interface for testing
type mockHTTPClient struct {
	response *http.Response
	err      error
	body     []byte
	url      string
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.url = req.URL.String()
	if req.Body != nil {
		m.body, _ = io.ReadAll(req.Body)
	}
	return m.response, m.err
}

func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(ClientOpts{BaseEndpoint: "http://localhost:11434/", ModelID: "llama3.2", HTTPClient: &mockHTTPClient{}})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/api/chat", c.endpoint)
	assert.Equal(t, 16384, c.options.NumCtx)

	_, err = NewClient(ClientOpts{BaseEndpoint: "http://localhost:11434"})
	assert.Error(t, err)
}

func TestClient_Call(t *testing.T) {
	registry := tools.NewRegistry()

	t.Run("free text", func(t *testing.T) {
		hc := &mockHTTPClient{response: createMockResponse(http.StatusOK, `{"message":{"role":"assistant","content":"**MONDAY**"}}`)}
		c, err := NewClient(ClientOpts{BaseEndpoint: "http://ollama", ModelID: "llama3.2", HTTPClient: hc})
		require.NoError(t, err)

		reply, err := c.Call(context.Background(), llm.Request{Prompt: "plan", Tools: registry.GetTools()})
		require.NoError(t, err)
		assert.Equal(t, llm.FreeText{Content: "**MONDAY**"}, reply)

		var sent map[string]any
		require.NoError(t, json.Unmarshal(hc.body, &sent))
		assert.NotContains(t, sent, "tools")
		assert.Equal(t, false, sent["stream"])
		assert.Len(t, sent["messages"], 1)
	})

	t.Run("constrained call declares only allowed tools", func(t *testing.T) {
		hc := &mockHTTPClient{response: createMockResponse(http.StatusOK, `{"message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"compile_weekly_grocery_list","arguments":{"items":["tofu"],"servings":2}}}]}}`)}
		c, err := NewClient(ClientOpts{BaseEndpoint: "http://ollama", ModelID: "llama3.2", HTTPClient: hc})
		require.NoError(t, err)

		reply, err := c.Call(context.Background(), llm.Request{
			Prompt:     "format",
			Tools:      registry.GetTools(),
			Constraint: llm.MustCall(tools.CompileGroceryListName),
		})
		require.NoError(t, err)
		assert.Equal(t, llm.FormattingCall{Items: []string{"tofu"}, HasItems: true, Servings: 2, HasServings: true}, reply)

		var sent wireRequest
		require.NoError(t, json.Unmarshal(hc.body, &sent))
		require.Len(t, sent.Tools, 1)
		assert.Equal(t, tools.CompileGroceryListName, sent.Tools[0].Function.Name)
		require.Len(t, sent.Messages, 2)
		assert.Equal(t, "system", sent.Messages[0].Role)
		assert.Contains(t, sent.Messages[0].Content, tools.CompileGroceryListName)
	})

	t.Run("non-200 status", func(t *testing.T) {
		hc := &mockHTTPClient{response: createMockResponse(http.StatusInternalServerError, "boom")}
		c, _ := NewClient(ClientOpts{BaseEndpoint: "http://ollama", ModelID: "llama3.2", HTTPClient: hc})
		_, err := c.Call(context.Background(), llm.Request{Prompt: "plan"})
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("transport error", func(t *testing.T) {
		hc := &mockHTTPClient{err: errors.New("connection refused")}
		c, _ := NewClient(ClientOpts{BaseEndpoint: "http://ollama", ModelID: "llama3.2", HTTPClient: hc})
		_, err := c.Call(context.Background(), llm.Request{Prompt: "plan"})
		assert.EqualError(t, err, "connection refused")
	})
}
