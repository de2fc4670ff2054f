package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolResult represents the result of a tool execution.
// Content is always a JSON-encoded flat object: either the tool's domain
// fields, or a single "error" field carrying a human-readable message.
// Both shapes are appended to the conversation the same way so the model
// can reason about failures.
type ToolResult struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Tool defines the interface for tools that can be called by the agent
type Tool interface {
	// Name returns the unique name of the tool
	Name() string

	// Description returns a description of what the tool does
	Description() string

	// Schema returns the parameter schema for the tool
	Schema() *Schema

	// Execute runs the tool with the given arguments and returns the result
	Execute(ctx context.Context, args json.RawMessage) (ToolResult, error)
}

// SuccessResult serializes a domain payload into a success ToolResult
func SuccessResult(payload interface{}) ToolResult {
	data, err := json.Marshal(payload)
	if err != nil {
		return ErrorResult("failed to serialize result: %v", err)
	}
	return ToolResult{Content: string(data)}
}

// ErrorResult builds an error ToolResult with a {"error": "..."} payload
func ErrorResult(format string, args ...interface{}) ToolResult {
	msg := fmt.Sprintf(format, args...)
	data, _ := json.Marshal(map[string]string{"error": msg})
	return ToolResult{Content: string(data), IsError: true}
}
