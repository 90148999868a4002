package tools

import (
	"fmt"
	"sort"
)

// Registry maps tool names to implementations
type Registry map[string]Tool

// NewRegistry creates a registry holding the ingredient extraction and grocery list tools.
func NewRegistry() *Registry {
	registry := Registry{
		ExtractIngredientsName: NewExtractIngredients(),
		CompileGroceryListName: NewCompileGroceryList(),
	}
	return &registry
}

// GetTools returns all tools in the registry, ordered by name.
func (r Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(r))
	for _, tool := range r {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r Registry) GetTool(name string) (Tool, error) {
	tool, exists := r[name]
	if !exists {
		return nil, fmt.Errorf("tool %q not found in registry", name)
	}
	return tool, nil
}

// Subset returns the named tools in the given order, failing on the first unknown name.
func (r Registry) Subset(names ...string) ([]Tool, error) {
	out := make([]Tool, 0, len(names))
	for _, name := range names {
		tool, err := r.GetTool(name)
		if err != nil {
			return nil, err
		}
		out = append(out, tool)
	}
	return out, nil
}
