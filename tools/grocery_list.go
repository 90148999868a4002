package tools

import (
	"context"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

const (
	CompileGroceryListName = "compile_weekly_grocery_list"

	DefaultServings = 1

	groceryListFooter = "----------------------------------------------"
)

// CompileGroceryList renders ingredients as a checkbox shopping list. Items are
// kept exactly as given: no sorting, deduplication or case folding.
type CompileGroceryList struct{}

func NewCompileGroceryList() *CompileGroceryList { return &CompileGroceryList{} }

func (t *CompileGroceryList) Name() string  { return CompileGroceryListName }
func (t *CompileGroceryList) Title() string { return "Compile Weekly Grocery List" }
func (t *CompileGroceryList) Description() string {
	return "Generates and formats a final weekly grocery shopping list based on a list of ingredients."
}

func (t *CompileGroceryList) InputSchema() *jsonschema.Schema {
	minServings := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"items": {
				Type:        "array",
				Items:       &jsonschema.Schema{Type: "string"},
				Description: "List of ingredients to buy.",
			},
			"servings": {
				Type:        "integer",
				Description: "Number of people to buy for.",
				Minimum:     &minServings,
			},
		},
		Required: []string{"items"},
	}
}

func (t *CompileGroceryList) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"grocery_list": {Type: "string"},
		},
		Required: []string{"grocery_list"},
	}
}

func (t *CompileGroceryList) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	items, _ := StringList(input["items"])
	servings, ok := Int(input["servings"])
	if !ok {
		servings = DefaultServings
	}
	return map[string]any{"grocery_list": RenderGroceryList(items, servings)}, nil
}

// RenderGroceryList produces the fixed grocery list layout. Non-positive
// servings are rendered as DefaultServings.
func RenderGroceryList(items []string, servings int) string {
	if servings < 1 {
		servings = DefaultServings
	}

	var b strings.Builder
	b.WriteString("--- WEEKLY GROCERY LIST (Servings: ")
	b.WriteString(strconv.Itoa(servings))
	b.WriteString(") ---\n")
	for _, item := range items {
		b.WriteString("[ ] ")
		b.WriteString(item)
		b.WriteByte('\n')
	}
	b.WriteString(groceryListFooter)
	return b.String()
}
