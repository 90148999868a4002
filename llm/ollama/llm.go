package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"mealcompanion"
	"mealcompanion/llm"
	"mealcompanion/tools"
)

type options struct {
	Temperature   float64 `json:"temperature,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	NumCtx        int     `json:"num_ctx,omitempty"`
	NumPredict    int     `json:"num_predict,omitempty"`
}

type Client struct {
	endpoint   string
	model      string
	httpClient mealcompanion.HTTPClient
	options    options
}

var _ llm.Client = (*Client)(nil)

type ClientOpts struct {
	BaseEndpoint string
	ModelID      string
	MaxTokens    int
	HTTPClient   mealcompanion.HTTPClient
}

func NewClient(opts ClientOpts) (*Client, error) {
	if strings.TrimSpace(opts.ModelID) == "" {
		return nil, fmt.Errorf("ollama model id is required")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Client{
		model:      opts.ModelID,
		httpClient: opts.HTTPClient,
		endpoint:   strings.TrimRight(opts.BaseEndpoint, "/") + "/api/chat",
		options: options{
			Temperature:   0.2,
			TopP:          0.9,
			RepeatPenalty: 1.05,
			NumCtx:        16384, // a week of recipes plus the extraction prompt fits comfortably
			NumPredict:    opts.MaxTokens,
		},
	}, nil
}

type wireTool struct {
	Type     string         `json:"type"`
	Function wireToolSchema `json:"function"`
}

type wireToolSchema struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  any    `json:"parameters"`
}

type wireToolCall struct {
	Function struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"function"`
}

type wireMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []wireToolCall `json:"tool_calls,omitempty"`
}

type wireResponse struct {
	Message wireMessage `json:"message"`
}

type wireRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Tools    []wireTool    `json:"tools,omitempty"`
	Stream   bool          `json:"stream"`
	Options  options       `json:"options,omitempty"`
}

// Call posts one chat turn. Ollama cannot force a tool choice, so constrained
// requests declare only the allowed tools and spell the constraint out in a
// system message.
func (c *Client) Call(ctx context.Context, req llm.Request) (llm.Reply, error) {
	slog.Info("LLM_CLIENT: Invoked", "provider", "ollama", "prompt_len", len(req.Prompt), "constraint", req.Constraint.Mode.String())

	body := wireRequest{
		Model:    c.model,
		Messages: []wireMessage{{Role: "user", Content: req.Prompt}},
		Stream:   false,
		Options:  c.options,
	}

	if req.Constraint.Mode == llm.MustCallOneOf {
		allowed := req.AllowedTools()
		if len(allowed) == 0 {
			return nil, fmt.Errorf("constraint names tools %v but none are declared", req.Constraint.ToolNames)
		}
		names := make([]string, 0, len(allowed))
		for _, t := range allowed {
			body.Tools = append(body.Tools, wireTool{
				Type: "function",
				Function: wireToolSchema{
					Name:        t.Name(),
					Description: t.Description(),
					Parameters:  t.InputSchema(),
				},
			})
			names = append(names, t.Name())
		}
		body.Messages = append([]wireMessage{{
			Role:    "system",
			Content: "You must respond by calling exactly one of these tools: " + strings.Join(names, ", ") + ". Do not answer with plain text.",
		}}, body.Messages...)
	}

	reqBytes, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: %s: %s", resp.Status, string(respBody))
	}

	var wr wireResponse
	if err := json.Unmarshal(respBody, &wr); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}

	calls := make([]tools.Call, 0, len(wr.Message.ToolCalls))
	for _, call := range wr.Message.ToolCalls {
		calls = append(calls, tools.Call{Name: call.Function.Name, Input: call.Function.Arguments})
	}

	slog.Info("LLM_CLIENT: Ollama response received", "calls_len", len(calls), "content_len", len(wr.Message.Content))
	return llm.DecodeCalls(calls, wr.Message.Content), nil
}
