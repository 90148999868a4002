package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

const ExtractIngredientsName = "extract_ingredients_to_list"

// ExtractIngredients hands the model's ingredient list back unchanged. It exists
// so the model is forced to emit a typed list instead of free text.
type ExtractIngredients struct{}

func NewExtractIngredients() *ExtractIngredients { return &ExtractIngredients{} }

func (t *ExtractIngredients) Name() string  { return ExtractIngredientsName }
func (t *ExtractIngredients) Title() string { return "Extract Ingredients" }
func (t *ExtractIngredients) Description() string {
	return "Analyzes the full meal plan text, identifies all necessary raw food ingredients across all meals, and returns them as a structured list."
}

func (t *ExtractIngredients) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"ingredients": {
				Type:        "array",
				Items:       &jsonschema.Schema{Type: "string"},
				Description: `A comprehensive list of all distinct ingredients needed for the entire 7-day meal plan, including quantities where known (e.g., "1 head of broccoli", "1 lb tofu").`,
			},
		},
		Required: []string{"ingredients"},
	}
}

func (t *ExtractIngredients) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"ingredients": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"ingredients"},
	}
}

func (t *ExtractIngredients) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	ingredients, _ := StringList(input["ingredients"])
	if ingredients == nil {
		ingredients = make([]string, 0)
	}
	return map[string]any{"ingredients": ingredients}, nil
}
