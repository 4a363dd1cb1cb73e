package fields

import (
	"context"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"tfcraft/internal/llm"
)

// advisorSchema gates the model's metadata object before any key is trusted:
// scalar attributes, an optional string-array of options, unknowns as null.
const advisorSchema = `{
  "type": "object",
  "properties": {
    "type":    {"type": ["string", "null"]},
    "example": {"type": ["string", "number", "boolean", "null"]},
    "default": {"type": ["string", "number", "boolean", "null"]},
    "options": {
      "type": ["array", "null"],
      "items": {"type": ["string", "number", "boolean"]}
    }
  }
}`

var compiledAdvisorSchema = jsonschema.MustCompileString("field_metadata.json", advisorSchema)

// Advisor derives per-field metadata from documentation, best effort. An
// absent attribute is a valid outcome, not an error.
type Advisor struct {
	caller *llm.Caller
}

func NewAdvisor(caller *llm.Caller) *Advisor {
	return &Advisor{caller: caller}
}

func (a *Advisor) Advise(ctx context.Context, field, docsText string) Metadata {
	prompt := fmt.Sprintf(`You are given Terraform CloudStack documentation text. For the field name '%s', return a JSON object:
{"type": "...", "example": "...", "default": "...", "options": ["opt1","opt2"]}
Use null for unknowns. Return ONLY JSON.
Docs:
%s`, field, docsText)

	result := a.caller.JSONOr(ctx, []llm.Message{{Role: "user", Content: prompt}}, 0)
	if result.Kind == llm.ParseObject {
		if err := compiledAdvisorSchema.Validate(anyMap(result.Object)); err == nil {
			return metadataFromObject(field, result.Object)
		}
	}

	// Fallback heuristics, each rule independent and optional.
	meta := Metadata{Name: field}
	if v, ok := defaultRule.Find(field, docsText); ok {
		meta.Default = v
	}
	if opts := findOptions(field, docsText); len(opts) > 0 {
		meta.Options = opts
	}
	if v, ok := exampleRule.Find(field, docsText); ok {
		meta.Example = v
	}
	return meta
}

func metadataFromObject(field string, obj map[string]any) Metadata {
	meta := Metadata{Name: field}
	meta.Type = scalarString(obj["type"])
	meta.Example = scalarString(obj["example"])
	meta.Default = scalarString(obj["default"])
	if raw, ok := obj["options"].([]any); ok {
		for _, v := range raw {
			if s := scalarString(v); s != "" {
				meta.Options = append(meta.Options, s)
			}
		}
	}
	return meta
}

// scalarString renders a JSON scalar as its user-facing string; null and
// missing values stay unknown.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return fmt.Sprintf("%t", t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return ""
	}
}

func anyMap(m map[string]any) any {
	return map[string]any(m)
}
