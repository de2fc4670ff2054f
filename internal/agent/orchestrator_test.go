package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexmetrics/pool-agent/internal/llm"
	"github.com/dexmetrics/pool-agent/internal/tools"
)

func newTestOrchestrator(gateway ModelGateway, registry *tools.Registry, maxIterations int) *Orchestrator {
	return NewOrchestrator(gateway, registry, tools.NewExecutor(registry), maxIterations)
}

func TestOrchestrator_FinalAnswerWithoutTools(t *testing.T) {
	t.Parallel()

	gateway := newScriptedGateway(
		scriptedResponse{message: llm.Message{Content: "TVL is about $250M"}},
	)
	orchestrator := newTestOrchestrator(gateway, newEchoRegistry(), 5)

	result, err := orchestrator.Run(context.Background(), AgentRequest{
		SystemPrompt: "sys",
		UserMessage:  "what's the TVL?",
	})
	require.NoError(t, err)

	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, "TVL is about $250M", result.Content)
	assert.Equal(t, 1, result.Iterations)
	assert.Empty(t, result.ToolCalls)
	assert.NotEmpty(t, result.RunID)
}

func TestOrchestrator_ToolMessagesMatchRequestsInOrder(t *testing.T) {
	t.Parallel()

	gateway := newScriptedGateway(
		scriptedResponse{message: llm.Message{
			ToolCalls: []llm.ToolCall{
				toolCall("call_a", "echo", `{"text":"first"}`),
				toolCall("call_b", "echo", `{"text":"second"}`),
				toolCall("call_c", "echo", `{"text":"third"}`),
			},
		}},
		scriptedResponse{message: llm.Message{Content: "done"}},
	)
	orchestrator := newTestOrchestrator(gateway, newEchoRegistry(), 5)

	result, err := orchestrator.Run(context.Background(), AgentRequest{
		SystemPrompt: "sys",
		UserMessage:  "run the tools",
	})
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)

	// One record per requested invocation, in request order
	require.Len(t, result.ToolCalls, 3)
	assert.Equal(t, "call_a", result.ToolCalls[0].ID)
	assert.Equal(t, "call_b", result.ToolCalls[1].ID)
	assert.Equal(t, "call_c", result.ToolCalls[2].ID)

	// The second model call sees: system, user, assistant, then exactly one
	// tool message per request, in the same order
	require.Len(t, gateway.requests, 2)
	second := gateway.requests[1]
	require.Len(t, second, 6)
	assert.Equal(t, llm.RoleSystem, second[0].Role)
	assert.Equal(t, llm.RoleUser, second[1].Role)
	assert.Equal(t, llm.RoleAssistant, second[2].Role)
	require.Len(t, second[2].ToolCalls, 3)

	for i, wantID := range []string{"call_a", "call_b", "call_c"} {
		msg := second[3+i]
		assert.Equal(t, llm.RoleTool, msg.Role)
		assert.Equal(t, wantID, msg.ToolCallID)
	}
	assert.JSONEq(t, `{"text":"second"}`, second[4].Content)
}

func TestOrchestrator_ToolDefinitionsSentEveryIteration(t *testing.T) {
	t.Parallel()

	gateway := newScriptedGateway(
		scriptedResponse{message: llm.Message{
			ToolCalls: []llm.ToolCall{toolCall("call_1", "echo", `{"text":"x"}`)},
		}},
		scriptedResponse{message: llm.Message{Content: "done"}},
	)
	orchestrator := newTestOrchestrator(gateway, newEchoRegistry(), 5)

	_, err := orchestrator.Run(context.Background(), AgentRequest{UserMessage: "go"})
	require.NoError(t, err)

	require.Len(t, gateway.toolDefs, 2)
	for _, defs := range gateway.toolDefs {
		require.Len(t, defs, 1)
		assert.Equal(t, "echo", defs[0].Function.Name)
	}
}

func TestOrchestrator_UnknownToolSurvives(t *testing.T) {
	t.Parallel()

	// The model hallucinates a tool; the loop must feed the error back and
	// keep going rather than crash
	gateway := newScriptedGateway(
		scriptedResponse{message: llm.Message{
			ToolCalls: []llm.ToolCall{toolCall("call_1", "get_price", `{"pool_address":"0xa"}`)},
		}},
		scriptedResponse{message: llm.Message{Content: "I don't have a price tool."}},
	)
	orchestrator := newTestOrchestrator(gateway, newEchoRegistry(), 5)

	result, err := orchestrator.Run(context.Background(), AgentRequest{UserMessage: "price?"})
	require.NoError(t, err)

	assert.Equal(t, StateDone, result.State)
	require.Len(t, result.ToolCalls, 1)
	assert.True(t, result.ToolCalls[0].IsError)
	assert.Contains(t, result.ToolCalls[0].Result, `unknown tool \"get_price\"`)

	// The error result reached the model as a tool message
	second := gateway.requests[1]
	last := second[len(second)-1]
	assert.Equal(t, llm.RoleTool, last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)
	assert.Contains(t, last.Content, "unknown tool")
}

func TestOrchestrator_MaxIterationsBound(t *testing.T) {
	t.Parallel()

	gateway := &loopingGateway{}
	orchestrator := newTestOrchestrator(gateway, newEchoRegistry(), 4)

	result, err := orchestrator.Run(context.Background(), AgentRequest{UserMessage: "loop forever"})
	require.NoError(t, err)

	assert.Equal(t, StateAbortedMaxIterations, result.State)
	assert.Equal(t, MaxIterationsMessage, result.Content)
	assert.Equal(t, 4, result.Iterations)
	assert.Equal(t, 4, gateway.calls)
	assert.Len(t, result.ToolCalls, 4)
}

func TestOrchestrator_GatewayErrorPropagates(t *testing.T) {
	t.Parallel()

	gateway := newScriptedGateway(
		scriptedResponse{err: fmt.Errorf("connection refused")},
	)
	orchestrator := newTestOrchestrator(gateway, newEchoRegistry(), 5)

	_, err := orchestrator.Run(context.Background(), AgentRequest{UserMessage: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iteration 1")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestOrchestrator_EmptyChoices(t *testing.T) {
	t.Parallel()

	gateway := &emptyChoicesGateway{}
	orchestrator := newTestOrchestrator(gateway, newEchoRegistry(), 5)

	_, err := orchestrator.Run(context.Background(), AgentRequest{UserMessage: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

type emptyChoicesGateway struct{}

func (emptyChoicesGateway) ChatCompletionWithTools(context.Context, []llm.Message, []llm.ToolDefinition, *llm.ChatCompletionOptions) (*llm.ChatResponse, error) {
	return &llm.ChatResponse{}, nil
}

func TestOrchestrator_EndToEndTVLScenario(t *testing.T) {
	t.Parallel()

	// Scenario: the model asks for get_tvl, reads the result, then answers.
	// The run must finish in exactly two iterations.
	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(fakeTVLTool{}))

	gateway := newScriptedGateway(
		scriptedResponse{message: llm.Message{
			ToolCalls: []llm.ToolCall{
				toolCall("call_1", "get_tvl", `{"pool_address":"0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640"}`),
			},
		}},
		scriptedResponse{message: llm.Message{
			Content: "The USDC/WETH pool holds $250,000,000.50 in TVL.",
		}},
	)
	orchestrator := newTestOrchestrator(gateway, registry, 10)
	result, err := orchestrator.Run(context.Background(), AgentRequest{
		SystemPrompt: "You are a DeFi analyst",
		UserMessage:  "What's the TVL for pool 0x88e6...?",
	})
	require.NoError(t, err)

	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, 2, result.Iterations)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "get_tvl", result.ToolCalls[0].ToolName)
	assert.False(t, result.ToolCalls[0].IsError)
	assert.Contains(t, result.Content, "250,000,000.50")

	// The model saw the TVL payload before answering
	second := gateway.requests[1]
	last := second[len(second)-1]
	assert.Equal(t, llm.RoleTool, last.Role)
	assert.Contains(t, last.Content, "250000000.5")
}
