package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"mealcompanion"
	"mealcompanion/llm"
	"mealcompanion/tools"
)

const (
	defaultModelID     = "gemini-2.5-flash"
	defaultMaxTokens   = 8192
	defaultTemperature = 0.2
	defaultTopP        = 0.9
)

var ErrNoCandidates = errors.New("model returned no candidates")

// generator is the slice of *genai.GenerativeModel the client needs.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// modelFactory configures a model for one request.
type modelFactory func(cfg modelConfig) generator

type modelConfig struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
	Tools       []*genai.Tool
	ToolConfig  *genai.ToolConfig
}

type LLMOptions struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type LLMClient struct {
	newModel modelFactory
	opts     LLMOptions
}

var _ llm.Client = (*LLMClient)(nil)

// NewLLMClient wraps an authenticated genai client.
func NewLLMClient(client *genai.Client, opts LLMOptions) *LLMClient {
	return newLLMClient(func(cfg modelConfig) generator {
		m := client.GenerativeModel(cfg.ModelID)
		m.SetMaxOutputTokens(cfg.MaxTokens)
		m.SetTemperature(cfg.Temperature)
		m.SetTopP(cfg.TopP)
		m.Tools = cfg.Tools
		m.ToolConfig = cfg.ToolConfig
		return m
	}, opts)
}

func newLLMClient(factory modelFactory, opts LLMOptions) *LLMClient {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &LLMClient{newModel: factory, opts: opts}
}

func (c *LLMClient) Call(ctx context.Context, req llm.Request) (llm.Reply, error) {
	ctx, span := otel.Tracer(mealcompanion.TracerNameGemini).Start(ctx, "LLMClient.Call")
	defer span.End()
	span.SetAttributes(
		attribute.String("model.id", c.opts.ModelID),
		attribute.String("llm.constraint", req.Constraint.Mode.String()),
	)

	slog.Info("LLM_CLIENT: Invoked", "provider", "gemini", "prompt_len", len(req.Prompt), "constraint", req.Constraint.Mode.String())

	cfg := modelConfig{
		ModelID:     c.opts.ModelID,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		TopP:        c.opts.TopP,
	}

	if req.Constraint.Mode == llm.MustCallOneOf {
		allowed := req.AllowedTools()
		if len(allowed) == 0 {
			return nil, fmt.Errorf("constraint names tools %v but none are declared", req.Constraint.ToolNames)
		}
		decls := make([]*genai.FunctionDeclaration, 0, len(allowed))
		names := make([]string, 0, len(allowed))
		for _, t := range allowed {
			decls = append(decls, functionDeclaration(t))
			names = append(names, t.Name())
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
		cfg.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingAny,
				AllowedFunctionNames: names,
			},
		}
	}

	resp, err := c.newModel(cfg).GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		slog.Error("LLM_CLIENT: Gemini invoke failed", "error", err)
		span.RecordError(err)
		return nil, err
	}

	reply, err := replyFromResponse(resp)
	if err != nil {
		return nil, err
	}
	slog.Info("LLM_CLIENT: Gemini invoke succeeded", "tool", llm.ToolName(reply), "text_len", len(reply.Text()))
	return reply, nil
}

// replyFromResponse decodes the first candidate: its first function call if
// any, otherwise its text.
func replyFromResponse(resp *genai.GenerateContentResponse) (llm.Reply, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return nil, fmt.Errorf("%w: prompt blocked (%s)", ErrNoCandidates, resp.PromptFeedback.BlockReason)
		}
		return nil, ErrNoCandidates
	}

	cand := resp.Candidates[0]
	if cand.Content == nil {
		return llm.FreeText{}, nil
	}

	var texts []string
	var calls []tools.Call
	for _, part := range cand.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			if s := string(p); s != "" {
				texts = append(texts, s)
			}
		case genai.FunctionCall:
			calls = append(calls, tools.Call{Name: p.Name, Input: p.Args})
		case *genai.FunctionCall:
			if p != nil {
				calls = append(calls, tools.Call{Name: p.Name, Input: p.Args})
			}
		}
	}

	return llm.DecodeCalls(calls, strings.Join(texts, "\n")), nil
}

func functionDeclaration(t tools.Tool) *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  convertSchema(t.InputSchema()),
	}
}

// convertSchema maps the MCP JSON schema subset used by the tools onto genai.Schema.
func convertSchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        schemaType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Items:       convertSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = convertSchema(prop)
		}
	}
	return out
}

func schemaType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
