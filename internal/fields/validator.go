package fields

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"tfcraft/internal/llm"
)

var integerPattern = regexp.MustCompile(`^-?\d+$`)

var booleanTokens = map[string]struct{}{
	"true": {}, "false": {}, "1": {}, "0": {}, "yes": {}, "no": {},
}

// Validator decides whether a candidate value is acceptable for a field.
// FailOpen controls the terminal policy: with no contrary evidence from the
// model or the metadata heuristics, the value is accepted. This matches the
// historical behavior; flip it for a strict build.
type Validator struct {
	caller   *llm.Caller
	FailOpen bool
}

func NewValidator(caller *llm.Caller) *Validator {
	return &Validator{caller: caller, FailOpen: true}
}

// Validate returns whether the value is acceptable and, when it is not, a
// short reason.
func (v *Validator) Validate(ctx context.Context, field, value, docsText string, meta Metadata) (bool, string) {
	if strings.TrimSpace(value) == "" {
		return false, "empty"
	}

	// 1. Strict binary classifier. Accepted only when exactly one of the
	// two keywords appears; anything else is ambiguous and falls through.
	prompt := fmt.Sprintf(`Docs:
%s

Decide whether the following value is VALID for the Terraform field '%s'. Return ONLY the word 'valid' or 'invalid'.

Field: %s
Value: %s`, docsText, field, field, value)

	text := strings.ToLower(v.caller.TextOr(ctx, []llm.Message{{Role: "user", Content: prompt}}, 0, ""))
	invalidHits := strings.Count(text, "invalid")
	validHits := strings.Count(text, "valid") - invalidHits
	switch {
	case validHits > 0 && invalidHits == 0:
		return true, ""
	case invalidHits > 0 && validHits == 0:
		return false, strings.TrimSpace(text)
	}

	// 2. Metadata heuristics.
	if len(meta.Options) > 0 {
		for _, opt := range meta.Options {
			if value == opt {
				return true, ""
			}
		}
		return false, fmt.Sprintf("value not in allowed options %v", meta.Options)
	}
	typ := strings.ToLower(meta.Type)
	if typ != "" {
		if strings.Contains(typ, "int") || strings.Contains(typ, "number") {
			if integerPattern.MatchString(value) {
				return true, ""
			}
			return false, "not an integer"
		}
		if strings.Contains(typ, "bool") {
			if _, ok := booleanTokens[strings.ToLower(value)]; ok {
				return true, ""
			}
			return false, "not a boolean"
		}
	}

	// 3. No contrary evidence.
	if v.FailOpen {
		return true, ""
	}
	return false, "could not verify value against documentation"
}
