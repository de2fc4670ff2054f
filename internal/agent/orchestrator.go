package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dexmetrics/pool-agent/internal/llm"
	"github.com/dexmetrics/pool-agent/internal/tools"
	"github.com/dexmetrics/pool-agent/pkg/log"
)

// Orchestrator drives the tool-calling loop for a single run.
// Each run owns a fresh Conversation; the registry and executor are the
// shared read-only collaborators.
type Orchestrator struct {
	gateway       ModelGateway
	registry      *tools.Registry
	executor      *tools.Executor
	maxIterations int
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(gateway ModelGateway, registry *tools.Registry, executor *tools.Executor, maxIterations int) *Orchestrator {
	return &Orchestrator{
		gateway:       gateway,
		registry:      registry,
		executor:      executor,
		maxIterations: maxIterations,
	}
}

// Run executes the agent loop.
//
// Per iteration: the full conversation plus the registry's tool
// definitions go to the gateway; the returned assistant message is
// appended verbatim, tool calls included, so later turns can still see
// what was requested even if execution fails. A response without tool
// calls ends the run; otherwise every requested call is executed strictly
// sequentially in request order, one tool message appended per call.
// Reaching the iteration bound aborts the run with a fixed failure
// message instead of partial output.
func (o *Orchestrator) Run(ctx context.Context, req AgentRequest) (*AgentResult, error) {
	result := &AgentResult{
		RunID:     uuid.NewString(),
		State:     StateAwaitingModel,
		ToolCalls: make([]ToolCallRecord, 0),
	}

	conversation := llm.NewConversation(req.SystemPrompt)
	conversation.AppendUser(req.UserMessage)

	toolDefs := o.registry.Definitions()
	opts := llm.NewChatCompletionOptions()

	for i := 0; i < o.maxIterations; i++ {
		result.Iterations++
		result.State = StateAwaitingModel

		resp, err := o.gateway.ChatCompletionWithTools(ctx, conversation.Messages(), toolDefs, opts)
		if err != nil {
			return nil, fmt.Errorf("model call failed at iteration %d: %w", i+1, err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no choices in response at iteration %d", i+1)
		}

		assistantMsg := resp.Choices[0].Message
		conversation.Append(assistantMsg)

		if len(assistantMsg.ToolCalls) == 0 {
			result.State = StateDone
			result.Content = assistantMsg.Content
			log.Debug("[run %s] completed after %d iteration(s)", result.RunID, result.Iterations)
			return result, nil
		}

		result.State = StateExecutingTools
		log.Debug("[run %s] executing %d tool call(s)", result.RunID, len(assistantMsg.ToolCalls))

		for _, toolCall := range assistantMsg.ToolCalls {
			toolResult := o.executor.Execute(ctx, toolCall)

			result.ToolCalls = append(result.ToolCalls, ToolCallRecord{
				ID:        toolCall.ID,
				ToolName:  toolCall.Function.Name,
				Arguments: toolCall.Function.Arguments,
				Result:    toolResult.Content,
				IsError:   toolResult.IsError,
			})
			conversation.AppendToolResult(toolCall.ID, toolResult.Content)

			log.Info("[run %s] tool %s executed: error=%v", result.RunID, toolCall.Function.Name, toolResult.IsError)
		}
	}

	result.State = StateAbortedMaxIterations
	result.Content = MaxIterationsMessage
	log.Warn("[run %s] aborted after max iterations (%d)", result.RunID, o.maxIterations)
	return result, nil
}
