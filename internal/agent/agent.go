package agent

import (
	"context"

	"github.com/dexmetrics/pool-agent/internal/llm"
	"github.com/dexmetrics/pool-agent/internal/tools"
)

// ModelGateway is the seam to the model provider: it accepts a rendered
// conversation plus the tool definitions and returns one assistant turn.
// *llm.Client satisfies it in production; tests substitute scripted fakes.
type ModelGateway interface {
	ChatCompletionWithTools(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition, opts *llm.ChatCompletionOptions) (*llm.ChatResponse, error)
}

var _ ModelGateway = (*llm.Client)(nil)

// Agent defines the interface for an agent that can execute tasks
type Agent interface {
	// Execute runs the agent with the given request
	Execute(ctx context.Context, req AgentRequest) (*AgentResult, error)

	// Close releases any resources held by the agent
	Close() error
}

// LLMAgent implements the Agent interface using an LLM with tool calling
type LLMAgent struct {
	gateway       ModelGateway
	registry      *tools.Registry
	executor      *tools.Executor
	maxIterations int
}

// NewLLMAgent creates a new LLM-based agent
func NewLLMAgent(gateway ModelGateway, registry *tools.Registry, maxIterations int) *LLMAgent {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &LLMAgent{
		gateway:       gateway,
		registry:      registry,
		executor:      tools.NewExecutor(registry),
		maxIterations: maxIterations,
	}
}

// Execute runs the agent with the given request
func (a *LLMAgent) Execute(ctx context.Context, req AgentRequest) (*AgentResult, error) {
	orchestrator := NewOrchestrator(a.gateway, a.registry, a.executor, a.getMaxIterations(req))
	return orchestrator.Run(ctx, req)
}

// Close releases any resources held by the agent
func (a *LLMAgent) Close() error {
	// No resources to release currently
	return nil
}

func (a *LLMAgent) getMaxIterations(req AgentRequest) int {
	if req.MaxIterations > 0 {
		return req.MaxIterations
	}
	return a.maxIterations
}
