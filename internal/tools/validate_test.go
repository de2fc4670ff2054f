package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolSchema() *Schema {
	return ObjectSchema(map[string]Property{
		"pool_address": {Type: "string"},
		"period": {
			Type: "string",
			Enum: []string{"24h", "7d", "30d"},
		},
		"limit": {Type: "integer"},
	}, "pool_address")
}

func TestValidateArgs_MissingRequiredField(t *testing.T) {
	t.Parallel()

	err := ValidateArgs(map[string]interface{}{"period": "24h"}, poolSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required field: pool_address")
}

func TestValidateArgs_WrongType(t *testing.T) {
	t.Parallel()

	err := ValidateArgs(map[string]interface{}{"pool_address": 42}, poolSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool_address")
	assert.Contains(t, err.Error(), "expected string")
}

func TestValidateArgs_EnumViolation(t *testing.T) {
	t.Parallel()

	err := ValidateArgs(map[string]interface{}{
		"pool_address": "0xabc",
		"period":       "1y",
	}, poolSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period")
	assert.Contains(t, err.Error(), `"1y"`)
}

func TestValidateArgs_IntegerAcceptsWholeFloat(t *testing.T) {
	t.Parallel()

	// JSON decoding yields float64 for every number
	err := ValidateArgs(map[string]interface{}{
		"pool_address": "0xabc",
		"limit":        float64(5),
	}, poolSchema())
	assert.NoError(t, err)

	err = ValidateArgs(map[string]interface{}{
		"pool_address": "0xabc",
		"limit":        5.5,
	}, poolSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestValidateArgs_ValidAndExtraFields(t *testing.T) {
	t.Parallel()

	// Extra fields the schema does not know are tolerated
	err := ValidateArgs(map[string]interface{}{
		"pool_address": "0xabc",
		"period":       "7d",
		"verbose":      true,
	}, poolSchema())
	assert.NoError(t, err)
}

func TestValidateArgs_NilSchemaAndNilArgs(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateArgs(nil, nil))
	assert.Error(t, ValidateArgs(nil, poolSchema()))
}
