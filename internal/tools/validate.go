package tools

import (
	"fmt"
	"math"
)

// ValidateArgs checks decoded tool arguments against a parameter schema:
// required fields must be present, values must match their declared
// primitive type, and enum-constrained strings must hold an allowed value.
// Unknown extra fields are tolerated; the model sometimes sends them and
// the tools ignore them.
func ValidateArgs(args map[string]interface{}, schema *Schema) error {
	if schema == nil {
		return nil
	}

	if args == nil {
		args = map[string]interface{}{}
	}

	for _, field := range schema.Required {
		if _, exists := args[field]; !exists {
			return fmt.Errorf("missing required field: %s", field)
		}
	}

	for key, value := range args {
		prop, ok := schema.Properties[key]
		if !ok {
			continue
		}

		if err := validateType(value, prop.Type); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}

		if len(prop.Enum) > 0 {
			if err := validateEnum(value, prop.Enum); err != nil {
				return fmt.Errorf("field %s: %w", key, err)
			}
		}
	}

	return nil
}

func validateType(value interface{}, expected string) error {
	switch expected {
	case "", "object":
		return nil
	case "string":
		if _, ok := value.(string); ok {
			return nil
		}
	case "number":
		if isNumber(value) {
			return nil
		}
	case "integer":
		if isInteger(value) {
			return nil
		}
	case "boolean":
		if _, ok := value.(bool); ok {
			return nil
		}
	case "array":
		if _, ok := value.([]interface{}); ok {
			return nil
		}
	default:
		return fmt.Errorf("unsupported schema type %q", expected)
	}
	return fmt.Errorf("expected %s but got %T", expected, value)
}

func validateEnum(value interface{}, allowed []string) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string for enum value but got %T", value)
	}
	for _, candidate := range allowed {
		if s == candidate {
			return nil
		}
	}
	return fmt.Errorf("value %q not in allowed set %v", s, allowed)
}

func isNumber(value interface{}) bool {
	switch value.(type) {
	case float32, float64:
		return true
	case int, int8, int16, int32, int64:
		return true
	case uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isInteger(value interface{}) bool {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return true
	case uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return math.Trunc(float64(v)) == float64(v)
	case float64:
		return math.Trunc(v) == v
	}
	return false
}
