package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	llmModels "healthchain/internal/domain/models/llm"
)

// ToolCall represents a single tool invocation request.
type ToolCall struct {
	ID    string                 `json:"id"`    // tool_use_id from LLM
	Name  string                 `json:"name"`  // tool name
	Input map[string]interface{} `json:"input"` // tool parameters
}

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	ID      string      `json:"id"`       // tool_use_id (matches ToolCall.ID)
	Name    string      `json:"name"`     // tool name (matches ToolCall.Name)
	Result  interface{} `json:"result"`   // execution result (nil if error)
	Error   error       `json:"error"`    // execution error (nil if success)
	IsError bool        `json:"is_error"` // whether execution failed
}

// ToolRegistry manages tool executors and their definitions, and handles
// tool execution. It is thread-safe and can be used concurrently.
//
// Execution never propagates an error to the caller: unknown tools,
// missing required arguments, and executor failures all become error
// results, so the agent loop can hand the failure back to the model
// instead of aborting the conversation.
type ToolRegistry struct {
	mu          sync.RWMutex
	executors   map[string]ToolExecutor
	definitions map[string]llmModels.ToolDefinition
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		executors:   make(map[string]ToolExecutor),
		definitions: make(map[string]llmModels.ToolDefinition),
	}
}

// Register adds a tool executor with its definition to the registry.
// If a tool with the same name already exists, it will be replaced.
func (r *ToolRegistry) Register(definition llmModels.ToolDefinition, executor ToolExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[definition.Name] = executor
	r.definitions[definition.Name] = definition
}

// Get retrieves a tool executor by name.
// Returns nil if the tool is not registered.
func (r *ToolRegistry) Get(name string) ToolExecutor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.executors[name]
}

// Definitions returns all registered tool definitions, sorted by name,
// in the shape the provider adapter sends to the model.
func (r *ToolRegistry) Definitions() []llmModels.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]llmModels.ToolDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Execute runs a single tool and returns the result. Failures come back
// as error results, never as panics or propagated errors.
func (r *ToolRegistry) Execute(ctx context.Context, call ToolCall) ToolResult {
	r.mu.RLock()
	executor := r.executors[call.Name]
	definition, known := r.definitions[call.Name]
	r.mu.RUnlock()

	if executor == nil {
		return errorResult(call, fmt.Errorf("tool not found: %s", call.Name))
	}

	if known {
		for _, arg := range definition.RequiredArgs() {
			if _, ok := call.Input[arg]; !ok {
				return errorResult(call, fmt.Errorf("missing required argument: %s", arg))
			}
		}
	}

	result, err := executor.Execute(ctx, call.Input)
	if err != nil {
		return errorResult(call, err)
	}

	return ToolResult{
		ID:     call.ID,
		Name:   call.Name,
		Result: result,
	}
}

func errorResult(call ToolCall, err error) ToolResult {
	return ToolResult{
		ID:      call.ID,
		Name:    call.Name,
		Error:   err,
		IsError: true,
	}
}
