package tools

import "encoding/json"

// Schema captures the subset of JSON Schema the tools need for parameter
// declarations: an object with typed properties, required names and
// optional enums. Schemas are built once at tool construction and never
// mutated afterwards.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes one tool parameter
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// JSON renders the schema in the wire format expected by the LLM API
func (s *Schema) JSON() json.RawMessage {
	data, err := json.Marshal(s)
	if err != nil {
		// A Schema is plain data; marshaling cannot fail for valid structs
		return json.RawMessage(`{"type":"object"}`)
	}
	return json.RawMessage(data)
}

// ObjectSchema builds an object schema with the given properties
func ObjectSchema(properties map[string]Property, required ...string) *Schema {
	return &Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
