package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParseKind tags the shape of a lenient JSON parse.
type ParseKind int

const (
	ParseFailure ParseKind = iota
	ParseArray
	ParseObject
)

// ParseResult is the tagged outcome of parsing a shape-optional model
// response. Exactly one of Array/Object is populated, matching Kind.
type ParseResult struct {
	Kind   ParseKind
	Array  []any
	Object map[string]any
}

// jsonIsland finds the outermost {...} or [...] span in prose-wrapped output.
var jsonIsland = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)

// ParseLoose parses raw model output as JSON. If the full text does not
// parse, it retries on the first JSON-looking substring. Anything that is
// not a top-level array or object is a ParseFailure.
func ParseLoose(raw string) ParseResult {
	raw = strings.TrimSpace(raw)
	if res, ok := tryParse(raw); ok {
		return res
	}
	if m := jsonIsland.FindString(raw); m != "" {
		if res, ok := tryParse(m); ok {
			return res
		}
	}
	return ParseResult{Kind: ParseFailure}
}

func tryParse(s string) (ParseResult, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return ParseResult{}, false
	}
	switch t := v.(type) {
	case []any:
		return ParseResult{Kind: ParseArray, Array: t}, true
	case map[string]any:
		return ParseResult{Kind: ParseObject, Object: t}, true
	default:
		return ParseResult{}, false
	}
}

// StringArray narrows an array result to its string members. The second
// return reports whether the result was an array of strings at all; partial
// arrays with non-string members fail the narrowing.
func (r ParseResult) StringArray() ([]string, bool) {
	if r.Kind != ParseArray {
		return nil, false
	}
	out := make([]string, 0, len(r.Array))
	for _, v := range r.Array {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
