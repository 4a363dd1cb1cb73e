package fields

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvise_FromModel(t *testing.T) {
	caller := newTestCaller(`{"type": "string", "example": "tcp", "default": null, "options": ["tcp", "udp"]}`, nil)
	a := NewAdvisor(caller)

	meta := a.Advise(context.Background(), "protocol", sampleDocs)
	assert.Equal(t, "protocol", meta.Name)
	assert.Equal(t, "string", meta.Type)
	assert.Equal(t, "tcp", meta.Example)
	assert.Empty(t, meta.Default)
	assert.Equal(t, []string{"tcp", "udp"}, meta.Options)
}

func TestAdvise_NumericScalarsRendered(t *testing.T) {
	caller := newTestCaller(`{"type": "number", "example": 8080, "default": 1.5, "options": null}`, nil)
	a := NewAdvisor(caller)

	meta := a.Advise(context.Background(), "port", "")
	assert.Equal(t, "8080", meta.Example)
	assert.Equal(t, "1.5", meta.Default)
}

func TestAdvise_SchemaRejectionFallsBack(t *testing.T) {
	// Options must be an array of scalars; a reply that violates the schema
	// is discarded in favor of the documentation heuristics.
	caller := newTestCaller(`{"type": "string", "options": {"a": 1}}`, nil)
	a := NewAdvisor(caller)

	meta := a.Advise(context.Background(), "expunge", sampleDocs)
	assert.Empty(t, meta.Type)
	assert.Equal(t, "false", meta.Default)
}

func TestAdvise_TransportFailureFallsBack(t *testing.T) {
	caller := newTestCaller("", errors.New("model down"))
	a := NewAdvisor(caller)

	meta := a.Advise(context.Background(), "protocol", sampleDocs)
	assert.Equal(t, []string{"tcp", "udp", "icmp"}, meta.Options)
}

func TestMetadataSuggestion(t *testing.T) {
	meta := Metadata{Name: "protocol", Type: "string", Default: "tcp", Options: []string{"tcp", "udp"}}
	s := meta.Suggestion()
	assert.Contains(t, s, "default=tcp")
	assert.Contains(t, s, "type=string")

	assert.Equal(t, "no suggestion", Metadata{Name: "x"}.Suggestion())
}
