package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGroceryList(t *testing.T) {
	tests := []struct {
		name     string
		items    []string
		servings int
		expected string
	}{
		{
			name:     "two items two servings",
			items:    []string{"1 cup oats", "2 eggs"},
			servings: 2,
			expected: "--- WEEKLY GROCERY LIST (Servings: 2) ---\n" +
				"[ ] 1 cup oats\n" +
				"[ ] 2 eggs\n" +
				"----------------------------------------------",
		},
		{
			name:     "empty list renders header and footer only",
			items:    []string{},
			servings: 1,
			expected: "--- WEEKLY GROCERY LIST (Servings: 1) ---\n" +
				"----------------------------------------------",
		},
		{
			name:     "duplicates and casing preserved in order",
			items:    []string{"Milk", "milk", "Milk"},
			servings: 1,
			expected: "--- WEEKLY GROCERY LIST (Servings: 1) ---\n" +
				"[ ] Milk\n" +
				"[ ] milk\n" +
				"[ ] Milk\n" +
				"----------------------------------------------",
		},
		{
			name:     "non-positive servings fall back to one",
			items:    []string{"tofu"},
			servings: 0,
			expected: "--- WEEKLY GROCERY LIST (Servings: 1) ---\n" +
				"[ ] tofu\n" +
				"----------------------------------------------",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RenderGroceryList(tt.items, tt.servings))
		})
	}
}

func TestRenderGroceryList_Idempotent(t *testing.T) {
	items := []string{"1 cup oats", "2 eggs", "spinach"}
	first := RenderGroceryList(items, 3)
	second := RenderGroceryList(items, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"1 cup oats", "2 eggs", "spinach"}, items, "input must not be mutated")
}

func TestCompileGroceryList_Run(t *testing.T) {
	tool := NewCompileGroceryList()

	t.Run("servings omitted defaults to one", func(t *testing.T) {
		out, err := tool.Run(context.Background(), map[string]any{
			"items": []any{"1 cup oats", "2 eggs"},
		})
		require.NoError(t, err)
		list := out["grocery_list"].(string)
		assert.True(t, strings.HasPrefix(list, "--- WEEKLY GROCERY LIST (Servings: 1) ---\n"))
	})

	t.Run("servings three keeps item lines", func(t *testing.T) {
		withDefault, err := tool.Run(context.Background(), map[string]any{
			"items": []any{"1 cup oats", "2 eggs"},
		})
		require.NoError(t, err)
		withThree, err := tool.Run(context.Background(), map[string]any{
			"items":    []any{"1 cup oats", "2 eggs"},
			"servings": 3.0,
		})
		require.NoError(t, err)

		defaultLines := strings.Split(withDefault["grocery_list"].(string), "\n")
		threeLines := strings.Split(withThree["grocery_list"].(string), "\n")
		require.Len(t, threeLines, len(defaultLines))
		assert.Equal(t, "--- WEEKLY GROCERY LIST (Servings: 3) ---", threeLines[0])
		assert.Equal(t, defaultLines[1:], threeLines[1:])
	})

	t.Run("missing items renders empty body", func(t *testing.T) {
		out, err := tool.Run(context.Background(), map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "--- WEEKLY GROCERY LIST (Servings: 1) ---\n"+groceryListFooter, out["grocery_list"])
	})
}

func TestCompileGroceryList_ToolMethods(t *testing.T) {
	tool := NewCompileGroceryList()

	assert.Equal(t, "compile_weekly_grocery_list", tool.Name())
	assert.Equal(t, "Compile Weekly Grocery List", tool.Title())
	assert.Contains(t, tool.Description(), "grocery")

	inputSchema := tool.InputSchema()
	assert.Equal(t, "object", inputSchema.Type)
	assert.Contains(t, inputSchema.Properties, "items")
	assert.Equal(t, "array", inputSchema.Properties["items"].Type)
	assert.Equal(t, "string", inputSchema.Properties["items"].Items.Type)
	assert.Equal(t, "integer", inputSchema.Properties["servings"].Type)
	assert.Equal(t, []string{"items"}, inputSchema.Required)

	outputSchema := tool.OutputSchema()
	assert.Contains(t, outputSchema.Properties, "grocery_list")
}
