package coordinator

import (
	"fmt"
	"strconv"
	"strings"

	"mealcompanion"
)

const planOutputFormat = "**Output Format (Strictly adhere to this format):**\n" +
	"For each day (Monday-Sunday), provide:\n" +
	"**[DAY NAME]**\n" +
	"BREAKFAST: [Recipe Name] (Ingredients: list of ingredients **with quantities**)-Full Recipe- [Approx. Calories]\n" +
	"LUNCH: [Recipe Name] (Ingredients: list of ingredients **with quantities**) -Full Recipe - [Approx. Calories]\n" +
	"DINNER: [Recipe Name] (Ingredients: list of ingredients **with quantities**) -Full Recipe- [Approx. Calories]\n" +
	"Ensure the output includes detailed ingredients with full receipe in 2 lines (e.g., Add '1 cup rolled oats' and '2 tbsp honey') for accurate grocery list generation in the next step."

// NewPlanPrompt builds the meal plan request for a profile. Missing fields are
// replaced by the documented defaults; it never fails.
func NewPlanPrompt(p mealcompanion.Profile) string {
	age := mealcompanion.DefaultProfileAge
	if p.Age != nil {
		age = strconv.Itoa(*p.Age)
	}
	calories := mealcompanion.DefaultCalorieTarget
	if p.CalorieTarget != nil {
		calories = *p.CalorieTarget
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Act as a geriatric nutritionist. Create a **7-DAY WEEKLY MEAL PLAN** for %s (Age: %s).\n", p.DisplayName(), age)
	fmt.Fprintf(&b, "Health Conditions: %s\n", strings.Join(p.HealthConditions, ", "))
	fmt.Fprintf(&b, "Dietary Restrictions: %s\n", strings.Join(p.DietaryRestrictions, ", "))
	fmt.Fprintf(&b, "Preferences: %s\n", strings.Join(p.Preferences, ", "))
	fmt.Fprintf(&b, "Target Calories: %d per day.\n\n", calories)
	b.WriteString(planOutputFormat)
	return b.String()
}

// NewExtractionPrompt asks the model to list every raw ingredient of a plan
// through the extraction tool.
func NewExtractionPrompt(mealPlan string) string {
	return "Analyze the following 7-day meal plan text carefully. Your goal is to identify " +
		"every single distinct raw food item and ingredient required to prepare ALL the " +
		"meals listed. Ignore calories, day names, and instructions. " +
		"Call the 'extract_ingredients_to_list' tool with the final comprehensive list.\n\n" +
		"MEAL PLAN TEXT:\n" + mealPlan
}

// NewFormattingPrompt asks the model to hand the ingredients, unchanged, to
// the grocery list tool.
func NewFormattingPrompt(ingredients []string) string {
	return "You are a shopping list formatter. Take the following list of raw ingredients " +
		"and call the 'compile_weekly_grocery_list' tool to format it nicely for the user. " +
		"Do not add or remove any items. You must call the tool." +
		"\n\nINGREDIENT LIST:\n" + strings.Join(ingredients, ", ")
}
