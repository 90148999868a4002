package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"mealcompanion"
	"mealcompanion/llm"
	"mealcompanion/tools"
)

const (
	// defaultModelID is an inference profile ID, not the foundation model's ID.
	// See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	// A 7-day plan with recipes is long; 4k leaves room for it.
	defaultMaxTokens = 4096

	// Low temperature keeps tool use and structured output consistent.
	defaultTemperature = 0.2

	defaultTopP = 0.9
)

var (
	ErrMaxTokens     = errors.New("model hit MaxTokens limit; consider increasing MaxTokens")
	ErrSafetyBlocked = errors.New("model response blocked by Bedrock safety filters")
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type LLMOptions struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type LLMClient struct {
	brc  bedrockRuntimeClient
	opts LLMOptions
}

var _ llm.Client = (*LLMClient)(nil)

func NewLLMClient(brc bedrockRuntimeClient, opts LLMOptions) *LLMClient {
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
	return &LLMClient{
		brc:  brc,
		opts: opts,
	}
}

// Call sends a single user turn to the Converse API. Constrained requests
// declare only the allowed tools and force a tool choice.
func (c *LLMClient) Call(ctx context.Context, req llm.Request) (llm.Reply, error) {
	ctx, span := otel.Tracer(mealcompanion.TracerNameBedrock).Start(ctx, "LLMClient.Call")
	defer span.End()
	span.SetAttributes(
		attribute.String("model.id", c.opts.ModelID),
		attribute.String("llm.constraint", req.Constraint.Mode.String()),
	)

	slog.Info("LLM_CLIENT: Invoked", "provider", "bedrock", "prompt_len", len(req.Prompt), "constraint", req.Constraint.Mode.String())

	toolConfig, err := buildToolConfig(req)
	if err != nil {
		return nil, err
	}

	in := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.opts.ModelID),
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: req.Prompt}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.opts.MaxTokens),
			Temperature: aws.Float32(c.opts.Temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
		ToolConfig: toolConfig,
	}

	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		slog.Error("LLM_CLIENT: Bedrock invoke failed", "error", err)
		span.RecordError(err)
		return nil, err
	}

	slog.Info("LLM_CLIENT: Bedrock invoke succeeded",
		"stop_reason", out.StopReason,
		"latency_ms", latencyMs(out),
		"input_tokens", inputTokens(out),
		"output_tokens", outputTokens(out),
	)

	switch out.StopReason {
	case types.StopReasonMaxTokens:
		slog.Warn("LLM_CLIENT: Model hit MaxTokens limit")
		return nil, ErrMaxTokens

	case types.StopReasonContentFiltered, types.StopReasonGuardrailIntervened:
		slog.Warn("LLM_CLIENT: Model response blocked by Bedrock safety filters")
		return nil, ErrSafetyBlocked
	}

	text := textFromOutput(out)
	calls := toolCallsFromOutput(out)
	slog.Info("LLM_CLIENT: Decoded response", "text_len", len(text), "calls_len", len(calls))

	return llm.DecodeCalls(calls, text), nil
}

// buildToolConfig returns nil for unconstrained requests: Converse rejects an
// empty tool list.
func buildToolConfig(req llm.Request) (*types.ToolConfiguration, error) {
	allowed := req.AllowedTools()
	if len(allowed) == 0 {
		if req.Constraint.Mode == llm.MustCallOneOf {
			return nil, fmt.Errorf("constraint names tools %v but none are declared", req.Constraint.ToolNames)
		}
		return nil, nil
	}

	specs := make([]types.Tool, 0, len(allowed))
	for _, t := range allowed {
		spec, err := buildToolSpec(t)
		if err != nil {
			return nil, err
		}
		specs = append(specs, &types.ToolMemberToolSpec{Value: spec})
		slog.Info("LLM_CLIENT: Registered tool", "name", t.Name())
	}

	var choice types.ToolChoice
	if len(allowed) == 1 {
		choice = &types.ToolChoiceMemberTool{Value: types.SpecificToolChoice{Name: aws.String(allowed[0].Name())}}
	} else {
		choice = &types.ToolChoiceMemberAny{Value: types.AnyToolChoice{}}
	}

	return &types.ToolConfiguration{Tools: specs, ToolChoice: choice}, nil
}

// buildToolSpec constructs a ToolSpecification for a tool.
func buildToolSpec(t tools.Tool) (types.ToolSpecification, error) {
	// Round-trip through JSON so the schema's own MarshalJSON decides the wire shape.
	schemaJSON, err := json.Marshal(t.InputSchema())
	if err != nil {
		return types.ToolSpecification{}, fmt.Errorf("failed to marshal tool schema for %s: %w", t.Name(), err)
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return types.ToolSpecification{}, fmt.Errorf("failed to unmarshal tool schema for %s: %w", t.Name(), err)
	}

	return types.ToolSpecification{
		Name:        aws.String(t.Name()),
		Description: aws.String(t.Description()),
		InputSchema: &types.ToolInputSchemaMemberJson{
			Value: document.NewLazyDocument(schemaMap),
		},
	}, nil
}

// textFromOutput joins all assistant text blocks with '\n'.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil {
		return ""
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t != nil && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	return strings.Join(texts, "\n")
}

// toolCallsFromOutput extracts tool uses emitted by the assistant.
func toolCallsFromOutput(out *bedrockruntime.ConverseOutput) []tools.Call {
	var calls []tools.Call

	if out == nil {
		return calls
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil {
		return calls
	}

	for _, cb := range msg.Value.Content {
		tu, ok := cb.(*types.ContentBlockMemberToolUse)
		if !ok || tu == nil {
			continue
		}

		var input map[string]any
		if tu.Value.Input == nil || tu.Value.Input.UnmarshalSmithyDocument(&input) != nil || input == nil {
			input = map[string]any{}
		}

		calls = append(calls, tools.Call{
			Name:      aws.ToString(tu.Value.Name),
			Input:     normalizeInput(input).(map[string]any),
			ToolUseID: aws.ToString(tu.Value.ToolUseId),
		})
	}

	return calls
}

// normalizeInput recursively coerces types for safe downstream use.
func normalizeInput(val any) any {
	switch v := val.(type) {
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
		return v

	case string:
		// Some models send arrays as stringified JSON.
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
			var decoded any
			if json.Unmarshal([]byte(trimmed), &decoded) == nil {
				return normalizeInput(decoded)
			}
		}
		return v

	case interface {
		Int64() (int64, error)
		Float64() (float64, error)
	}:
		// smithy document.Number, produced when decoding into interface values
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v

	case []any:
		for i := range v {
			v[i] = normalizeInput(v[i])
		}
		return v

	case map[string]any:
		for key, val := range v {
			v[key] = normalizeInput(val)
		}
		return v

	default:
		return v
	}
}

func latencyMs(out *bedrockruntime.ConverseOutput) int64 {
	if out.Metrics == nil {
		return 0
	}
	return aws.ToInt64(out.Metrics.LatencyMs)
}

func inputTokens(out *bedrockruntime.ConverseOutput) int32 {
	if out.Usage == nil {
		return 0
	}
	return aws.ToInt32(out.Usage.InputTokens)
}

func outputTokens(out *bedrockruntime.ConverseOutput) int32 {
	if out.Usage == nil {
		return 0
	}
	return aws.ToInt32(out.Usage.OutputTokens)
}
