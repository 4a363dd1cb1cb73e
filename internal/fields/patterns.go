package fields

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternRule is one anchored documentation-mining rule: starting at the
// field name, scan at most Window characters on the same line for one of the
// literal Markers, then capture with the Tail pattern. Declaring the rules as
// data keeps the matching policy testable on its own.
type PatternRule struct {
	Name    string
	Window  int
	Markers []string
	Tail    string // regex with exactly one capture group
}

var (
	defaultRule = PatternRule{
		Name:    "default",
		Window:  120,
		Markers: []string{"defaults:", "default:", "defaults to", "default is"},
		Tail:    "\\s*`?([^`\\n,]+)`?",
	}
	optionsRule = PatternRule{
		Name:    "options",
		Window:  160,
		Markers: []string{"valid options", "allowed values"},
		Tail:    "[^\\n]*?:?\\s*([^\\n]+)",
	}
	exampleRule = PatternRule{
		Name:    "example",
		Window:  160,
		Markers: []string{"e.g.", "for example", "example"},
		Tail:    "[^\\n:]*[:\\-]?\\s*`?([A-Za-z0-9_\\-.]+)`?",
	}
)

// optionalMarker flags a field as optional when it appears within
// optionalWindow characters after the field name.
const (
	optionalMarker = "(Optional)"
	optionalWindow = 40
)

var optionalFieldPattern = regexp.MustCompile(
	"(?i)`?([a-zA-Z0-9_]+)`?.{0," + fmt.Sprint(optionalWindow) + "}\\(Optional\\)")

// compile anchors the rule on a concrete field name.
func (r PatternRule) compile(field string) *regexp.Regexp {
	quoted := make([]string, len(r.Markers))
	for i, m := range r.Markers {
		quoted[i] = regexp.QuoteMeta(m)
	}
	expr := fmt.Sprintf("(?i)%s[^\\n]{0,%d}(?:%s)%s",
		regexp.QuoteMeta(field), r.Window, strings.Join(quoted, "|"), r.Tail)
	return regexp.MustCompile(expr)
}

// Find applies the rule to the docs and returns the trimmed capture.
func (r PatternRule) Find(field, docs string) (string, bool) {
	m := r.compile(field).FindStringSubmatch(docs)
	if m == nil {
		return "", false
	}
	val := strings.TrimSpace(m[1])
	if val == "" {
		return "", false
	}
	return val, true
}

var optionToken = regexp.MustCompile(`[A-Za-z0-9_\-]+`)

// findOptions tokenizes the options rule capture into discrete values.
func findOptions(field, docs string) []string {
	tail, ok := optionsRule.Find(field, docs)
	if !ok {
		return nil
	}
	return optionToken.FindAllString(tail, -1)
}
