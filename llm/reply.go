package llm

import (
	"mealcompanion/tools"
)

// Reply is the decoded model response. Exactly one of FreeText,
// ExtractionCall, FormattingCall or UnknownCall.
type Reply interface {
	// Text is whatever free text accompanied the response, possibly empty.
	Text() string
	isReply()
}

// FreeText is a response that invoked no tool.
type FreeText struct {
	Content string `json:"content"`
}

// ExtractionCall is an invocation of extract_ingredients_to_list.
type ExtractionCall struct {
	Ingredients []string `json:"ingredients"`
	Content     string   `json:"content,omitempty"`
}

// FormattingCall is an invocation of compile_weekly_grocery_list. HasItems and
// HasServings report whether the model supplied the argument at all.
type FormattingCall struct {
	Items       []string `json:"items,omitempty"`
	HasItems    bool     `json:"has_items"`
	Servings    int      `json:"servings,omitempty"`
	HasServings bool     `json:"has_servings"`
	Content     string   `json:"content,omitempty"`
}

// UnknownCall is an invocation of a tool that is not registered.
type UnknownCall struct {
	Name    string         `json:"name"`
	Args    map[string]any `json:"args,omitempty"`
	Content string         `json:"content,omitempty"`
}

func (r FreeText) Text() string       { return r.Content }
func (r ExtractionCall) Text() string { return r.Content }
func (r FormattingCall) Text() string { return r.Content }
func (r UnknownCall) Text() string    { return r.Content }

func (FreeText) isReply()       {}
func (ExtractionCall) isReply() {}
func (FormattingCall) isReply() {}
func (UnknownCall) isReply()    {}

// DecodeToolCall maps a raw invocation onto the matching Reply variant.
func DecodeToolCall(name string, args map[string]any, text string) Reply {
	switch name {
	case tools.ExtractIngredientsName:
		ingredients, _ := tools.StringList(args["ingredients"])
		return ExtractionCall{Ingredients: ingredients, Content: text}

	case tools.CompileGroceryListName:
		call := FormattingCall{Content: text}
		if items, ok := tools.StringList(args["items"]); ok {
			call.Items, call.HasItems = items, true
		}
		if servings, ok := tools.Int(args["servings"]); ok {
			call.Servings, call.HasServings = servings, true
		}
		return call

	default:
		return UnknownCall{Name: name, Args: args, Content: text}
	}
}

// DecodeCalls decodes the first of calls, or returns FreeText when there are none.
// Only one invocation per response is honoured.
func DecodeCalls(calls []tools.Call, text string) Reply {
	if len(calls) == 0 {
		return FreeText{Content: text}
	}
	return DecodeToolCall(calls[0].Name, calls[0].Input, text)
}

// ToolName reports the invoked tool name, or "" for free text.
func ToolName(r Reply) string {
	switch v := r.(type) {
	case ExtractionCall:
		return tools.ExtractIngredientsName
	case FormattingCall:
		return tools.CompileGroceryListName
	case UnknownCall:
		return v.Name
	default:
		return ""
	}
}
