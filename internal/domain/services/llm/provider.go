package llm

import (
	"context"

	llmModels "healthchain/internal/domain/models/llm"
)

// Provider defines the interface that all LLM providers must implement.
// This abstraction keeps the agent loop independent of the concrete
// provider SDK and lets tests substitute a scripted fake.
type Provider interface {
	// GenerateResponse submits the conversation (including any prior
	// tool-call/response pairs) and returns content blocks. When Tools
	// are attached, the response may contain tool_use blocks.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name (e.g., "anthropic")
	Name() string
}

// GenerateRequest contains the parameters for an LLM generation request.
type GenerateRequest struct {
	// Model is the model identifier (e.g., "claude-haiku-4-5-20251001")
	Model string

	// System is the system instruction for this request.
	System string

	// Messages contains the conversation, oldest first.
	Messages []Message

	// Tools is the tool schema attached to the request, if any.
	Tools []llmModels.ToolDefinition

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int

	// Temperature, when set, overrides the provider default.
	Temperature *float64
}

// Message represents a single message in the conversation.
type Message struct {
	// Role is either "user" or "assistant"
	Role string

	// Content is the list of content blocks for this message
	Content []*llmModels.ContentBlock
}

// GenerateResponse contains the LLM provider's response.
type GenerateResponse struct {
	// Content is the list of content blocks returned by the provider
	Content []*llmModels.ContentBlock

	// Model is the model that was used (may differ from request if aliased)
	Model string

	// StopReason indicates why generation stopped (e.g., "end_turn", "tool_use")
	StopReason string

	// InputTokens and OutputTokens are usage figures for the call.
	InputTokens  int
	OutputTokens int
}

// FirstToolUse returns the first tool_use block of the response, or nil
// if the response is plain text.
func (r *GenerateResponse) FirstToolUse() *llmModels.ContentBlock {
	for _, block := range r.Content {
		if block.BlockType == llmModels.BlockTypeToolUse {
			return block
		}
	}
	return nil
}

// ToolUses returns every tool_use block of the response, in order. The
// model may request several tools in a single turn; each one must be
// answered.
func (r *GenerateResponse) ToolUses() []*llmModels.ContentBlock {
	var out []*llmModels.ContentBlock
	for _, block := range r.Content {
		if block.BlockType == llmModels.BlockTypeToolUse {
			out = append(out, block)
		}
	}
	return out
}

// Text concatenates the response's text blocks.
func (r *GenerateResponse) Text() string {
	var out string
	for _, block := range r.Content {
		if block.BlockType == llmModels.BlockTypeText {
			out += block.Text
		}
	}
	return out
}
