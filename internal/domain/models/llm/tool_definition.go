package llm

// ToolDefinition declares a tool to the language model: its name, what
// it does, and a JSON-schema object describing its arguments. The same
// definition is used to validate required arguments at dispatch time,
// so the schema shown to the model and the schema enforced by the
// dispatcher can never drift apart.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// RequiredArgs returns the schema's required argument names, if any.
func (td *ToolDefinition) RequiredArgs() []string {
	raw, ok := td.InputSchema["required"]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Properties returns the schema's properties object, or nil.
func (td *ToolDefinition) Properties() map[string]any {
	props, _ := td.InputSchema["properties"].(map[string]any)
	return props
}
