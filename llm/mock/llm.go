// Package mock is a deterministic, offline model gateway. It is a learning
// aid for walking through the pipeline without credentials; real models are
// rarely this cooperative.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"mealcompanion/llm"
	"mealcompanion/tools"
)

type LLMClient struct {
	plan string
}

var _ llm.Client = (*LLMClient)(nil)

// NewLLMClient returns a mock that answers plan requests with plan, or with a
// built-in week when plan is empty.
func NewLLMClient(plan string) *LLMClient {
	if plan == "" {
		plan = samplePlan
	}
	return &LLMClient{plan: plan}
}

var (
	ingredientsPattern = regexp.MustCompile(`\(Ingredients:\s*([^)]*)\)`)
	ingredientListTail = "INGREDIENT LIST:\n"
)

func (m *LLMClient) Call(ctx context.Context, req llm.Request) (llm.Reply, error) {
	slog.Info("LLM_CLIENT: Invoked", "provider", "mock", "prompt_len", len(req.Prompt), "constraint", req.Constraint.Mode.String())

	if req.Constraint.Mode != llm.MustCallOneOf {
		return llm.FreeText{Content: m.plan}, nil
	}

	allowed := req.AllowedTools()
	if len(allowed) == 0 {
		return llm.FreeText{Content: "I have no tool to call for this request."}, nil
	}

	switch name := allowed[0].Name(); name {
	case tools.ExtractIngredientsName:
		ingredients := extractIngredients(req.Prompt)
		slog.Info("LLM_CLIENT: Returning extraction call", "ingredients", len(ingredients))
		return llm.DecodeToolCall(name, map[string]any{"ingredients": toAny(ingredients)}, ""), nil

	case tools.CompileGroceryListName:
		items := listAfter(req.Prompt, ingredientListTail)
		slog.Info("LLM_CLIENT: Returning formatting call", "items", len(items))
		return llm.DecodeToolCall(name, map[string]any{"items": toAny(items)}, ""), nil

	default:
		return llm.FreeText{Content: fmt.Sprintf("mock does not know how to call %q", name)}, nil
	}
}

// extractIngredients collects every "(Ingredients: a, b)" group in order,
// dropping exact repeats.
func extractIngredients(prompt string) []string {
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, m := range ingredientsPattern.FindAllStringSubmatch(prompt, -1) {
		for _, item := range strings.Split(m[1], ",") {
			item = strings.TrimSpace(item)
			if item == "" || seen[item] {
				continue
			}
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

func listAfter(prompt, marker string) []string {
	idx := strings.LastIndex(prompt, marker)
	if idx < 0 {
		return nil
	}
	out := make([]string, 0)
	for _, item := range strings.Split(prompt[idx+len(marker):], ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func toAny(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

const samplePlan = `**MONDAY**
BREAKFAST: Warm Oatmeal (Ingredients: 1 cup rolled oats, 1 cup low-fat milk, 1/2 cup blueberries) - Simmer oats in milk for 5 minutes. Top with blueberries. - [320 kcal]
LUNCH: Lentil Soup (Ingredients: 1/2 cup red lentils, 1 carrot, 1 celery stalk) - Simmer lentils and diced vegetables in water for 20 minutes. Season lightly. - [380 kcal]
DINNER: Baked Salmon (Ingredients: 4 oz salmon fillet, 1 cup broccoli, 1 tsp olive oil) - Bake salmon at 400F for 12 minutes. Steam broccoli alongside. - [450 kcal]
**TUESDAY**
BREAKFAST: Scrambled Eggs (Ingredients: 2 eggs, 1 slice whole-wheat bread, 1 cup spinach) - Scramble eggs with wilted spinach. Serve with toast. - [310 kcal]
LUNCH: Chicken Salad (Ingredients: 3 oz chicken breast, 2 cups mixed greens, 1 tbsp olive oil) - Grill chicken and slice. Toss with greens and oil. - [390 kcal]
DINNER: Tofu Stir-Fry (Ingredients: 4 oz tofu, 1 cup broccoli, 1/2 cup brown rice) - Stir-fry tofu and broccoli. Serve over rice. - [470 kcal]
**WEDNESDAY**
BREAKFAST: Warm Oatmeal (Ingredients: 1 cup rolled oats, 1 cup low-fat milk, 1/2 cup blueberries) - Simmer oats in milk. Top with berries. - [320 kcal]
LUNCH: Lentil Soup (Ingredients: 1/2 cup red lentils, 1 carrot, 1 celery stalk) - Reheat and serve. Add fresh herbs. - [380 kcal]
DINNER: Baked Salmon (Ingredients: 4 oz salmon fillet, 1 cup broccoli, 1 tsp olive oil) - Bake and steam as Monday. Squeeze lemon over. - [450 kcal]
**THURSDAY**
BREAKFAST: Scrambled Eggs (Ingredients: 2 eggs, 1 slice whole-wheat bread, 1 cup spinach) - Scramble eggs with spinach. Serve with toast. - [310 kcal]
LUNCH: Chicken Salad (Ingredients: 3 oz chicken breast, 2 cups mixed greens, 1 tbsp olive oil) - Slice chicken over greens. Dress lightly. - [390 kcal]
DINNER: Tofu Stir-Fry (Ingredients: 4 oz tofu, 1 cup broccoli, 1/2 cup brown rice) - Stir-fry and serve over rice. Keep sauce low-sodium. - [470 kcal]
**FRIDAY**
BREAKFAST: Warm Oatmeal (Ingredients: 1 cup rolled oats, 1 cup low-fat milk, 1/2 cup blueberries) - Simmer oats in milk. Top with berries. - [320 kcal]
LUNCH: Lentil Soup (Ingredients: 1/2 cup red lentils, 1 carrot, 1 celery stalk) - Simmer and serve warm. Season lightly. - [380 kcal]
DINNER: Baked Salmon (Ingredients: 4 oz salmon fillet, 1 cup broccoli, 1 tsp olive oil) - Bake salmon. Steam broccoli. - [450 kcal]
**SATURDAY**
BREAKFAST: Scrambled Eggs (Ingredients: 2 eggs, 1 slice whole-wheat bread, 1 cup spinach) - Scramble eggs with spinach. Serve with toast. - [310 kcal]
LUNCH: Chicken Salad (Ingredients: 3 oz chicken breast, 2 cups mixed greens, 1 tbsp olive oil) - Slice chicken over greens. Dress lightly. - [390 kcal]
DINNER: Tofu Stir-Fry (Ingredients: 4 oz tofu, 1 cup broccoli, 1/2 cup brown rice) - Stir-fry and serve over rice. - [470 kcal]
**SUNDAY**
BREAKFAST: Warm Oatmeal (Ingredients: 1 cup rolled oats, 1 cup low-fat milk, 1/2 cup blueberries) - Simmer oats in milk. Top with berries. - [320 kcal]
LUNCH: Lentil Soup (Ingredients: 1/2 cup red lentils, 1 carrot, 1 celery stalk) - Simmer and serve warm. - [380 kcal]
DINNER: Baked Salmon (Ingredients: 4 oz salmon fillet, 1 cup broccoli, 1 tsp olive oil) - Bake salmon. Steam broccoli. - [450 kcal]`
