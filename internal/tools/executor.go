package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dexmetrics/pool-agent/internal/llm"
	"github.com/dexmetrics/pool-agent/pkg/log"
)

// Executor resolves and runs tool calls requested by the model.
// Every failure mode (unknown tool, malformed or invalid arguments, a
// tool returning an error, a tool panicking) becomes an error ToolResult;
// Execute never reports a Go error to the agent loop, so a single bad
// tool call can never terminate a run.
//
// The executor is stateless per call and safe to share across runs.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an executor backed by the given registry
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute runs one tool invocation request and returns its result
func (e *Executor) Execute(ctx context.Context, call llm.ToolCall) (result ToolResult) {
	name := call.Function.Name

	defer func() {
		if r := recover(); r != nil {
			log.Error("Tool %s panicked: %v", name, r)
			result = ErrorResult("tool %q failed unexpectedly: %v", name, r)
		}
	}()

	tool, err := e.registry.Resolve(name)
	if err != nil {
		if errors.Is(err, ErrUnknownTool) {
			return ErrorResult("unknown tool %q", name)
		}
		return ErrorResult("failed to resolve tool %q: %v", name, err)
	}

	rawArgs := json.RawMessage(call.Function.Arguments)
	if len(rawArgs) == 0 {
		rawArgs = json.RawMessage(`{}`)
	}

	var args map[string]interface{}
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		return ErrorResult("malformed arguments for %q: %v", name, err)
	}

	if err := ValidateArgs(args, tool.Schema()); err != nil {
		return ErrorResult("invalid arguments for %q: %v", name, err)
	}

	res, err := tool.Execute(ctx, rawArgs)
	if err != nil {
		return ErrorResult("tool %q execution error: %v", name, err)
	}
	return res
}
