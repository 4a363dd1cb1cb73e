package fields

import "strings"

// Metadata is the per-field documentation summary used for prompting and
// validation. Every attribute is independently optional; empty means
// "unknown", which is a valid state and never guessed around.
type Metadata struct {
	Name    string
	Type    string
	Example string
	Default string
	Options []string
}

// Suggestion renders the known attributes as the hint shown in prompts,
// e.g. "default=8, example=small, type=string".
func (m Metadata) Suggestion() string {
	parts := make([]string, 0, 4)
	if m.Default != "" {
		parts = append(parts, "default="+m.Default)
	}
	if m.Example != "" {
		parts = append(parts, "example="+m.Example)
	}
	if len(m.Options) > 0 {
		parts = append(parts, "options=["+strings.Join(m.Options, ", ")+"]")
	}
	if m.Type != "" {
		parts = append(parts, "type="+m.Type)
	}
	if len(parts) == 0 {
		return "no suggestion"
	}
	return strings.Join(parts, ", ")
}
