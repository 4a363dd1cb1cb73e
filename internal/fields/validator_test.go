package fields

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_EmptyValue(t *testing.T) {
	v := NewValidator(newTestCaller("valid", nil))

	ok, reason := v.Validate(context.Background(), "zone_id", "   ", sampleDocs, Metadata{})
	assert.False(t, ok)
	assert.Equal(t, "empty", reason)
}

func TestValidate_ModelSaysValid(t *testing.T) {
	v := NewValidator(newTestCaller("valid", nil))

	ok, _ := v.Validate(context.Background(), "zone_id", "zone-1", sampleDocs, Metadata{})
	assert.True(t, ok)
}

func TestValidate_ModelSaysInvalid(t *testing.T) {
	// "invalid" contains "valid" as a substring; the counting must still
	// classify a bare "invalid" reply as a rejection.
	v := NewValidator(newTestCaller("invalid", nil))

	ok, reason := v.Validate(context.Background(), "zone_id", "???", sampleDocs, Metadata{})
	assert.False(t, ok)
	assert.Equal(t, "invalid", reason)
}

func TestValidate_AmbiguousReplyUsesOptions(t *testing.T) {
	v := NewValidator(newTestCaller("the value could be valid or invalid", nil))

	ok, _ := v.Validate(context.Background(), "protocol", "tcp", sampleDocs, Metadata{Options: []string{"tcp", "udp"}})
	assert.True(t, ok)

	ok, reason := v.Validate(context.Background(), "protocol", "sctp", sampleDocs, Metadata{Options: []string{"tcp", "udp"}})
	assert.False(t, ok)
	assert.Contains(t, reason, "allowed options")
}

func TestValidate_IntegerType(t *testing.T) {
	v := NewValidator(newTestCaller("", errors.New("model down")))

	ok, _ := v.Validate(context.Background(), "size", "20", "", Metadata{Type: "integer"})
	assert.True(t, ok)

	ok, reason := v.Validate(context.Background(), "size", "twenty", "", Metadata{Type: "integer"})
	assert.False(t, ok)
	assert.Equal(t, "not an integer", reason)
}

func TestValidate_BooleanType(t *testing.T) {
	v := NewValidator(newTestCaller("", errors.New("model down")))

	for _, val := range []string{"true", "False", "1", "no"} {
		ok, _ := v.Validate(context.Background(), "expunge", val, "", Metadata{Type: "bool"})
		assert.True(t, ok, "value %q", val)
	}

	ok, reason := v.Validate(context.Background(), "expunge", "maybe", "", Metadata{Type: "bool"})
	assert.False(t, ok)
	assert.Equal(t, "not a boolean", reason)
}

func TestValidate_FailOpenDefault(t *testing.T) {
	v := NewValidator(newTestCaller("", errors.New("model down")))

	ok, _ := v.Validate(context.Background(), "name", "web-1", "", Metadata{})
	assert.True(t, ok)
}

func TestValidate_FailClosed(t *testing.T) {
	v := NewValidator(newTestCaller("", errors.New("model down")))
	v.FailOpen = false

	ok, reason := v.Validate(context.Background(), "name", "web-1", "", Metadata{})
	assert.False(t, ok)
	assert.Equal(t, "could not verify value against documentation", reason)
}
