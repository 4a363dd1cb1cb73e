package generate

import (
	"regexp"
	"strings"
)

// SentinelPrefix marks the generator's single-line refusal when a required
// field is still missing.
const SentinelPrefix = "MISSING_REQUIRED:"

var (
	fenceOpen  = regexp.MustCompile("```(?:hcl|terraform)?[ \t]*\n?")
	fenceClose = regexp.MustCompile("```[ \t]*$")
)

// IsSentinel reports whether the first non-blank line of the output is the
// missing-required sentinel, regardless of any trailing content.
func IsSentinel(output string) bool {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.HasPrefix(line, SentinelPrefix)
	}
	return false
}

// Sanitize strips markdown fencing and prose from raw model output, keeping
// only the resource block (or the sentinel line). It never fabricates a
// resource block: with no block present it degrades to collecting any
// HCL-looking lines, and as a last resort returns the defenced raw text.
// Sanitize is idempotent on already-clean output.
func Sanitize(raw string) string {
	cleaned := fenceOpen.ReplaceAllString(raw, "")
	cleaned = fenceClose.ReplaceAllString(cleaned, "")

	lines := strings.Split(cleaned, "\n")
	var hclLines []string
	depth := 0
	insideResource := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case !insideResource && strings.HasPrefix(trimmed, SentinelPrefix):
			return trimmed
		case !insideResource && strings.HasPrefix(trimmed, "resource "):
			insideResource = true
			hclLines = append(hclLines, line)
			depth += braceDelta(line)
		case insideResource:
			hclLines = append(hclLines, line)
			depth += braceDelta(line)
			if depth <= 0 {
				return strings.TrimSpace(strings.Join(hclLines, "\n"))
			}
		}
	}

	if insideResource {
		// Unterminated block; keep what was collected.
		return strings.TrimSpace(strings.Join(hclLines, "\n"))
	}

	// No resource block found: salvage assignment/brace lines.
	var salvage []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.ContainsAny(line, "={}") {
			salvage = append(salvage, line)
		}
	}
	if len(salvage) > 0 {
		return strings.TrimSpace(strings.Join(salvage, "\n"))
	}
	return strings.TrimSpace(cleaned)
}

func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}
