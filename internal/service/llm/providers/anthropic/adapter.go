package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"healthchain/internal/domain/models/llm"
	domainllm "healthchain/internal/domain/services/llm"
)

// convertToAnthropicMessages converts domain messages to Anthropic SDK format.
func convertToAnthropicMessages(messages []domainllm.Message) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(messages))

	for i, msg := range messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))

		for _, block := range msg.Content {
			switch block.BlockType {
			case llm.BlockTypeText:
				blocks = append(blocks, anthropic.NewTextBlock(block.Text))

			case llm.BlockTypeToolUse:
				// The assistant's tool_use block is echoed back verbatim
				// so the following tool_result has something to answer.
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    block.ToolID,
						Name:  block.ToolName,
						Input: block.Input,
					},
				})

			case llm.BlockTypeToolResult:
				payload, err := json.Marshal(block.Result)
				if err != nil {
					return nil, fmt.Errorf("message %d: failed to marshal tool result: %w", i, err)
				}
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: block.ToolID,
						IsError:   anthropic.Bool(block.IsError),
						Content: []anthropic.ToolResultBlockParamContentUnion{
							{
								OfText: &anthropic.TextBlockParam{
									Type: "text",
									Text: string(payload),
								},
							},
						},
					},
				})

			default:
				return nil, fmt.Errorf("message %d: unsupported block type '%s'", i, block.BlockType)
			}
		}

		var message anthropic.MessageParam
		switch msg.Role {
		case "user":
			message = anthropic.NewUserMessage(blocks...)
		case "assistant":
			message = anthropic.NewAssistantMessage(blocks...)
		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}

		result = append(result, message)
	}

	return result, nil
}

// convertToAnthropicTools converts tool definitions to the SDK's union
// params.
func convertToAnthropicTools(defs []llm.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for i := range defs {
		def := &defs[i]
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: def.Properties(),
					Required:   def.RequiredArgs(),
				},
			},
		})
	}
	return out
}

// convertFromAnthropicResponse converts an Anthropic response to domain format.
func convertFromAnthropicResponse(msg *anthropic.Message) (*domainllm.GenerateResponse, error) {
	blocks := make([]*llm.ContentBlock, 0, len(msg.Content))

	for i, content := range msg.Content {
		switch content.Type {
		case "text":
			blocks = append(blocks, llm.NewTextBlock(content.Text))

		case "tool_use":
			var input map[string]any
			if len(content.Input) > 0 {
				if err := json.Unmarshal(content.Input, &input); err != nil {
					return nil, fmt.Errorf("block %d: failed to parse tool input: %w", i, err)
				}
			}
			blocks = append(blocks, llm.NewToolUseBlock(content.ID, content.Name, input))

		// Other content types (thinking, etc.) carry nothing the agent
		// loop consumes.
		default:
			continue
		}
	}

	return &domainllm.GenerateResponse{
		Content:      blocks,
		Model:        string(msg.Model),
		StopReason:   string(msg.StopReason),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}, nil
}
