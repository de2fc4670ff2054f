package agent

// RunState identifies where an agent run is in its lifecycle.
// StateDone and StateAbortedMaxIterations are terminal.
type RunState string

const (
	StateAwaitingModel        RunState = "awaiting_model"
	StateExecutingTools       RunState = "executing_tools"
	StateDone                 RunState = "done"
	StateAbortedMaxIterations RunState = "aborted_max_iterations"
)

// DefaultMaxIterations bounds the loop when the request does not set its
// own limit
const DefaultMaxIterations = 10

// MaxIterationsMessage is the fixed user-visible answer when the iteration
// budget runs out before the model produces a final response
const MaxIterationsMessage = "Maximum iterations reached. The agent couldn't complete the task."

// AgentRequest represents a request to the agent
type AgentRequest struct {
	// SystemPrompt is the system prompt to set context
	SystemPrompt string

	// UserMessage is the user's message/task
	UserMessage string

	// MaxIterations is the maximum number of tool-calling iterations
	// Default: 10
	MaxIterations int
}

// AgentResult represents the result from an agent execution
type AgentResult struct {
	// RunID uniquely identifies this run in logs
	RunID string

	// Content is the final text response from the agent, or
	// MaxIterationsMessage when the run was aborted
	Content string

	// State is the terminal state the run reached
	State RunState

	// ToolCalls contains a record of all tool calls made during execution,
	// in execution order
	ToolCalls []ToolCallRecord

	// Iterations is the number of model calls made
	Iterations int
}

// ToolCallRecord records a single tool call and its result
type ToolCallRecord struct {
	// ID is the model-assigned id of the tool call
	ID string

	// ToolName is the name of the tool that was called
	ToolName string

	// Arguments is the JSON arguments passed to the tool
	Arguments string

	// Result is the serialized output from the tool
	Result string

	// IsError indicates if the tool execution resulted in an error
	IsError bool
}
