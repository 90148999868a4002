package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mealcompanion/tools"
)

func TestDecodeToolCall(t *testing.T) {
	tests := []struct {
		name string
		call string
		args map[string]any
		text string
		want Reply
	}{
		{
			name: "extraction",
			call: tools.ExtractIngredientsName,
			args: map[string]any{"ingredients": []any{"1 cup oats", "2 eggs"}},
			want: ExtractionCall{Ingredients: []string{"1 cup oats", "2 eggs"}},
		},
		{
			name: "extraction without list",
			call: tools.ExtractIngredientsName,
			args: map[string]any{},
			want: ExtractionCall{},
		},
		{
			name: "formatting with all arguments",
			call: tools.CompileGroceryListName,
			args: map[string]any{"items": []any{"tofu"}, "servings": 2.0},
			want: FormattingCall{Items: []string{"tofu"}, HasItems: true, Servings: 2, HasServings: true},
		},
		{
			name: "formatting with arguments omitted",
			call: tools.CompileGroceryListName,
			args: map[string]any{},
			text: "here you go",
			want: FormattingCall{Content: "here you go"},
		},
		{
			name: "formatting with stringly servings",
			call: tools.CompileGroceryListName,
			args: map[string]any{"servings": "3"},
			want: FormattingCall{Servings: 3, HasServings: true},
		},
		{
			name: "unknown tool",
			call: "pantry_get",
			args: map[string]any{"current_day": 0},
			want: UnknownCall{Name: "pantry_get", Args: map[string]any{"current_day": 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeToolCall(tt.call, tt.args, tt.text))
		})
	}
}

func TestDecodeCalls(t *testing.T) {
	t.Run("no calls is free text", func(t *testing.T) {
		r := DecodeCalls(nil, "I would rather chat")
		assert.Equal(t, FreeText{Content: "I would rather chat"}, r)
		assert.Equal(t, "", ToolName(r))
		assert.Equal(t, "I would rather chat", r.Text())
	})

	t.Run("first call wins", func(t *testing.T) {
		r := DecodeCalls([]tools.Call{
			{Name: tools.CompileGroceryListName, Input: map[string]any{"items": []any{"a"}}},
			{Name: tools.ExtractIngredientsName, Input: map[string]any{}},
		}, "")
		assert.Equal(t, tools.CompileGroceryListName, ToolName(r))
	})
}

func TestRequest_AllowedTools(t *testing.T) {
	registry := tools.NewRegistry()
	req := Request{Prompt: "p", Tools: registry.GetTools()}
	assert.Empty(t, req.AllowedTools())

	req.Constraint = MustCall(tools.ExtractIngredientsName)
	allowed := req.AllowedTools()
	if assert.Len(t, allowed, 1) {
		assert.Equal(t, tools.ExtractIngredientsName, allowed[0].Name())
	}
	assert.Equal(t, "must_call_one_of", req.Constraint.Mode.String())
}
