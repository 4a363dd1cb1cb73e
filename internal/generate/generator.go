package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tfcraft/internal/llm"
)

const chunkSeparator = "\n\n---\n\n"

// Generator produces the final HCL artifact from documentation context and
// the collected field values, under a strict output contract.
type Generator struct {
	caller        *llm.Caller
	contextChunks int
}

func NewGenerator(caller *llm.Caller, contextChunks int) *Generator {
	if contextChunks <= 0 {
		contextChunks = 8
	}
	return &Generator{caller: caller, contextChunks: contextChunks}
}

// Generate returns sanitized HCL, the missing-required sentinel line, or a
// commented error artifact when the model call fails outright. The run
// always ends with some artifact; transport failure is never propagated.
func (g *Generator) Generate(ctx context.Context, resource string, chunks []string, values map[string]string, required []string) string {
	top := chunks
	if len(top) > g.contextChunks {
		top = top[:g.contextChunks]
	}
	docsContext := strings.Join(top, chunkSeparator)

	valuesJSON, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		valuesJSON = []byte("{}")
	}

	sysMsg := "You are an expert Terraform generator for the CloudStack provider.\n" +
		"Produce ONLY valid Terraform HCL for a single resource of the requested type.\n" +
		"Rules:\n" +
		"- Provider must be cloudstack/cloudstack.\n" +
		"- Use only the fields provided by the user for required fields.\n" +
		"- If any required field is missing, output exactly one line starting with 'MISSING_REQUIRED:' and the field name and nothing else.\n" +
		"- Optional fields may be included if provided by the user.\n" +
		"- Output ONLY raw HCL code - NO markdown formatting, NO code fences, NO backticks.\n" +
		"- Do NOT wrap the output in ```hcl or ``` or any other formatting.\n" +
		"- Start directly with 'resource' keyword.\n"

	userMsg := fmt.Sprintf(`RESOURCE: %s

USER VALUES:
%s

REQUIRED FIELDS:
%v

CONTEXT (docs excerpt):
%s

Output: ONLY raw Terraform HCL code (no prose, no markdown, no code fences). If MISSING_REQUIRED, output that single line.`,
		resource, valuesJSON, required, docsContext)

	raw, err := g.caller.Complete(ctx, []llm.Message{
		{Role: "system", Content: sysMsg},
		{Role: "user", Content: userMsg},
	}, 0.1)
	if err != nil {
		return fmt.Sprintf("# Error generating Terraform: %v", err)
	}
	return Sanitize(raw)
}
