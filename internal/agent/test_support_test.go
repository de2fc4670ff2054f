package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dexmetrics/pool-agent/internal/llm"
	"github.com/dexmetrics/pool-agent/internal/tools"
)

// scriptedResponse configures one model turn in a scripted sequence
type scriptedResponse struct {
	message llm.Message
	err     error
}

// scriptedGateway is a deterministic ModelGateway for loop tests.
// It replays the configured responses in order and records every request
// it receives so tests can assert on the conversation the loop sent.
type scriptedGateway struct {
	mu        sync.Mutex
	index     int
	responses []scriptedResponse

	// recorded per call
	requests [][]llm.Message
	toolDefs [][]llm.ToolDefinition
}

func newScriptedGateway(responses ...scriptedResponse) *scriptedGateway {
	cloned := make([]scriptedResponse, len(responses))
	copy(cloned, responses)
	return &scriptedGateway{responses: cloned}
}

var _ ModelGateway = (*scriptedGateway)(nil)

func (g *scriptedGateway) ChatCompletionWithTools(_ context.Context, messages []llm.Message, toolDefs []llm.ToolDefinition, _ *llm.ChatCompletionOptions) (*llm.ChatResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	snapshot := make([]llm.Message, len(messages))
	copy(snapshot, messages)
	g.requests = append(g.requests, snapshot)
	g.toolDefs = append(g.toolDefs, toolDefs)

	if g.index >= len(g.responses) {
		return nil, fmt.Errorf("script exhausted at step %d", g.index+1)
	}
	current := g.responses[g.index]
	g.index++

	if current.err != nil {
		return nil, current.err
	}

	msg := current.message
	if msg.Role == "" {
		msg.Role = llm.RoleAssistant
	}
	finishReason := "stop"
	if len(msg.ToolCalls) > 0 {
		finishReason = "tool_calls"
	}

	return &llm.ChatResponse{
		ID:      fmt.Sprintf("chatcmpl-%d", g.index),
		Object:  "chat.completion",
		Model:   "scripted-model",
		Choices: []llm.Choice{{Index: 0, Message: msg, FinishReason: finishReason}},
	}, nil
}

// loopingGateway always requests the same tool call, for termination tests
type loopingGateway struct {
	calls int
}

var _ ModelGateway = (*loopingGateway)(nil)

func (g *loopingGateway) ChatCompletionWithTools(_ context.Context, _ []llm.Message, _ []llm.ToolDefinition, _ *llm.ChatCompletionOptions) (*llm.ChatResponse, error) {
	g.calls++
	return &llm.ChatResponse{
		Choices: []llm.Choice{{
			Message: llm.Message{
				Role: llm.RoleAssistant,
				ToolCalls: []llm.ToolCall{{
					ID:   fmt.Sprintf("call_%d", g.calls),
					Type: "function",
					Function: llm.FunctionCall{
						Name:      "echo",
						Arguments: `{"text":"again"}`,
					},
				}},
			},
			FinishReason: "tool_calls",
		}},
	}, nil
}

// echoTool echoes its arguments back, the smallest useful test tool
type echoTool struct{}

func (echoTool) Name() string        { return "echo" }
func (echoTool) Description() string { return "Echo back input arguments." }

func (echoTool) Schema() *tools.Schema {
	return tools.ObjectSchema(map[string]tools.Property{
		"text": {Type: "string"},
	}, "text")
}

func (echoTool) Execute(_ context.Context, args json.RawMessage) (tools.ToolResult, error) {
	return tools.ToolResult{Content: string(args)}, nil
}

func newEchoRegistry() *tools.Registry {
	registry := tools.NewRegistry()
	if err := registry.Register(echoTool{}); err != nil {
		panic(err)
	}
	return registry
}

// fakeTVLTool returns a canned TVL payload without touching the network
type fakeTVLTool struct{}

func (fakeTVLTool) Name() string        { return "get_tvl" }
func (fakeTVLTool) Description() string { return "Get TVL for a pool." }

func (fakeTVLTool) Schema() *tools.Schema {
	return tools.ObjectSchema(map[string]tools.Property{
		"pool_address": {Type: "string"},
	}, "pool_address")
}

func (fakeTVLTool) Execute(_ context.Context, _ json.RawMessage) (tools.ToolResult, error) {
	return tools.ToolResult{
		Content: `{"pool_address":"0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640","pair":"USDC/WETH","tvl_usd":250000000.5}`,
	}, nil
}

func toolCall(id, name, arguments string) llm.ToolCall {
	return llm.ToolCall{
		ID:   id,
		Type: "function",
		Function: llm.FunctionCall{
			Name:      name,
			Arguments: arguments,
		},
	}
}
