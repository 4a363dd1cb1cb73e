package collect

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"tfcraft/internal/fields"
)

// Asker yields exactly one response line (possibly empty) per prompt. The
// interactive CLI wires a stdin-backed Asker; tests and batch callers supply
// answers programmatically.
type Asker interface {
	Ask(prompt string) (string, error)
}

// AskerFunc adapts a plain function to the Asker interface.
type AskerFunc func(prompt string) (string, error)

func (f AskerFunc) Ask(prompt string) (string, error) { return f(prompt) }

// MetadataSource fetches per-field metadata once per field.
type MetadataSource interface {
	Advise(ctx context.Context, field, docsText string) fields.Metadata
}

// ValueChecker decides whether a candidate value is acceptable.
type ValueChecker interface {
	Validate(ctx context.Context, field, value, docsText string, meta fields.Metadata) (bool, string)
}

// Collector drives the per-field prompt/validate/retry loop. Fields are
// processed strictly in sequence. Required fields have no skip path: the
// only terminal state is a validated value. Optional fields may be skipped
// with an empty response, or after a failed attempt by declining the retry.
type Collector struct {
	advisor   MetadataSource
	validator ValueChecker
	asker     Asker
	out       io.Writer
}

func New(advisor MetadataSource, validator ValueChecker, asker Asker, out io.Writer) *Collector {
	if out == nil {
		out = os.Stdout
	}
	return &Collector{advisor: advisor, validator: validator, asker: asker, out: out}
}

// Collect prompts for each field and returns the accepted values. Only
// fields that reached an accept terminal state appear in the map.
func (c *Collector) Collect(ctx context.Context, names []string, docsText string, required bool) (map[string]string, error) {
	out := make(map[string]string)
	for _, field := range names {
		meta := c.advisor.Advise(ctx, field, docsText)
		suggestion := meta.Suggestion()

		for {
			val, err := c.asker.Ask(fmt.Sprintf("Enter value for '%s' [%s]: ", field, suggestion))
			if err != nil {
				return out, fmt.Errorf("input aborted while collecting '%s': %w", field, err)
			}
			val = strings.TrimSpace(val)

			if val == "" && meta.Default != "" {
				val = meta.Default
				fmt.Fprintf(c.out, "➡ Using default %s\n", val)
			}
			if val == "" && !required {
				break // optional field skipped
			}

			ok, reason := c.validator.Validate(ctx, field, val, docsText, meta)
			if ok {
				out[field] = val
				break
			}

			fmt.Fprintf(c.out, "❌ Invalid value for '%s': %s. Please try again.\n", field, reason)
			if !required {
				choice, err := c.asker.Ask("Type 'retry' to try again, or Enter to skip this optional field: ")
				if err != nil {
					return out, fmt.Errorf("input aborted while collecting '%s': %w", field, err)
				}
				if strings.ToLower(strings.TrimSpace(choice)) != "retry" {
					break
				}
			}
		}
	}
	return out, nil
}
