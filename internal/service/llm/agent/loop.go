package agent

import (
	"context"
	"log/slog"

	"healthchain/internal/config"
	llmModels "healthchain/internal/domain/models/llm"
	llmServices "healthchain/internal/domain/services/llm"
	"healthchain/internal/service/llm/tools"
)

// Outcome is why an agent run ended.
const (
	// OutcomeFinal means the model produced a reply without requesting
	// another tool.
	OutcomeFinal = "final"
	// OutcomeForcedStop means the iteration bound was reached while the
	// model still wanted a tool; the last available text is surfaced.
	OutcomeForcedStop = "forced_stop"
)

// Result is the outcome of one agent run.
type Result struct {
	Text         string
	Outcome      string
	Iterations   int
	InputTokens  int
	OutputTokens int
}

// Controller runs the tool-calling conversation loop: call the model,
// dispatch the requested tool, feed the result back, repeat. The loop is
// bounded by config.MaxToolIterations tool dispatches; at the bound a
// pending tool request is abandoned and the best available text is
// returned instead of looping forever.
type Controller struct {
	provider llmServices.Provider
	registry *tools.ToolRegistry
	model    string
	logger   *slog.Logger
}

func NewController(
	provider llmServices.Provider,
	registry *tools.ToolRegistry,
	model string,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		provider: provider,
		registry: registry,
		model:    model,
		logger:   logger,
	}
}

// Run executes the loop for the given system prompt and seed messages.
// Tool failures never abort the run; they go back to the model as error
// results so it can adjust. Only provider transport errors propagate.
func (c *Controller) Run(ctx context.Context, system string, messages []llmServices.Message) (*Result, error) {
	result := &Result{Outcome: OutcomeFinal}
	lastText := ""

	resp, err := c.generate(ctx, system, messages, result)
	if err != nil {
		return nil, err
	}

	for {
		if text := resp.Text(); text != "" {
			lastText = text
		}

		toolUses := resp.ToolUses()
		if len(toolUses) == 0 {
			result.Text = lastText
			return result, nil
		}

		if result.Iterations >= config.MaxToolIterations {
			// The model still wants a tool but the budget is spent.
			// Surface whatever text we have; the caller substitutes a
			// fallback if it is empty.
			c.logger.Warn("agent hit tool iteration bound",
				"tool", toolUses[0].ToolName, "iterations", result.Iterations)
			result.Text = lastText
			result.Outcome = OutcomeForcedStop
			return result, nil
		}

		// Every tool_use in the turn gets exactly one tool_result; a
		// request left unanswered would poison the next model call.
		results := make([]*llmModels.ContentBlock, 0, len(toolUses))
		for _, toolUse := range toolUses {
			result.Iterations++

			toolResult := c.registry.Execute(ctx, tools.ToolCall{
				ID:    toolUse.ToolID,
				Name:  toolUse.ToolName,
				Input: toolUse.Input,
			})

			c.logger.Info("agent tool dispatched",
				"tool", toolUse.ToolName,
				"iteration", result.Iterations,
				"is_error", toolResult.IsError)

			results = append(results, resultBlock(toolResult))
		}

		// The assistant's turn (including its tool_use blocks) and the
		// matching tool_results must both enter the transcript, in that
		// order, before the next model call.
		messages = append(messages, llmServices.Message{
			Role:    "assistant",
			Content: resp.Content,
		})
		messages = append(messages, llmServices.Message{
			Role:    "user",
			Content: results,
		})

		resp, err = c.generate(ctx, system, messages, result)
		if err != nil {
			return nil, err
		}
	}
}

func (c *Controller) generate(ctx context.Context, system string, messages []llmServices.Message, result *Result) (*llmServices.GenerateResponse, error) {
	resp, err := c.provider.GenerateResponse(ctx, &llmServices.GenerateRequest{
		Model:    c.model,
		System:   system,
		Messages: messages,
		Tools:    c.registry.Definitions(),
	})
	if err != nil {
		return nil, err
	}

	result.InputTokens += resp.InputTokens
	result.OutputTokens += resp.OutputTokens
	return resp, nil
}

func resultBlock(toolResult tools.ToolResult) *llmModels.ContentBlock {
	if toolResult.IsError {
		return llmModels.NewToolResultBlock(toolResult.ID, map[string]any{
			"error": toolResult.Error.Error(),
		}, true)
	}
	return llmModels.NewToolResultBlock(toolResult.ID, toolResult.Result, false)
}
