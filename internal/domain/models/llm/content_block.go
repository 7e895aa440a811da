package llm

// Content block types exchanged with the language model. A model
// response carries text and/or tool_use blocks; tool results go back as
// tool_result blocks on a user-role message.
const (
	BlockTypeText       = "text"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

// ContentBlock is one element of a message's content. Only the fields
// for its BlockType are set.
type ContentBlock struct {
	BlockType string `json:"block_type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use (emitted by the model)
	ToolID   string         `json:"tool_id,omitempty"`
	ToolName string         `json:"tool_name,omitempty"`
	Input    map[string]any `json:"input,omitempty"`

	// tool_result (sent back to the model; Result must be JSON-serializable)
	Result  any  `json:"result,omitempty"`
	IsError bool `json:"is_error,omitempty"`
}

// NewTextBlock creates a text content block.
func NewTextBlock(text string) *ContentBlock {
	return &ContentBlock{BlockType: BlockTypeText, Text: text}
}

// NewToolUseBlock creates a tool_use block as received from the model.
func NewToolUseBlock(id, name string, input map[string]any) *ContentBlock {
	return &ContentBlock{BlockType: BlockTypeToolUse, ToolID: id, ToolName: name, Input: input}
}

// NewToolResultBlock creates a tool_result block answering the tool_use
// block with the given ID. Results are always delivered back to the
// model, even on failure.
func NewToolResultBlock(toolID string, result any, isError bool) *ContentBlock {
	return &ContentBlock{BlockType: BlockTypeToolResult, ToolID: toolID, Result: result, IsError: isError}
}
