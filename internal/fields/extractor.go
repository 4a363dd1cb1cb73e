package fields

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tfcraft/internal/llm"
)

// Extractor derives the optional-field name set for a resource from its
// documentation. The result never contains a required field.
type Extractor struct {
	caller *llm.Caller
}

func NewExtractor(caller *llm.Caller) *Extractor {
	return &Extractor{caller: caller}
}

func (e *Extractor) OptionalFields(ctx context.Context, docsText string, required []string) []string {
	requiredSet := make(map[string]struct{}, len(required))
	for _, f := range required {
		requiredSet[f] = struct{}{}
	}

	prompt := fmt.Sprintf(`Extract OPTIONAL argument/field names from the following Terraform CloudStack documentation.
Return ONLY a JSON array of strings, e.g. ["field1","field2"].
Exclude required fields: %v

Docs:
%s`, required, docsText)

	result := e.caller.JSONOr(ctx, []llm.Message{{Role: "user", Content: prompt}}, 0)
	if names, ok := result.StringArray(); ok {
		return filterFields(names, requiredSet)
	}

	// Fallback: scan for field tokens flagged with the optional marker.
	var names []string
	for _, m := range optionalFieldPattern.FindAllStringSubmatch(docsText, -1) {
		names = append(names, m[1])
	}
	return filterFields(names, requiredSet)
}

func filterFields(names []string, required map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		if _, req := required[n]; req {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
