package ingest

import (
	"regexp"
	"sort"
)

// resourceFilePattern matches registry doc filenames such as
// registry.terraform.io_..._docs_resources_instance.md.
var resourceFilePattern = regexp.MustCompile(`resources_([^.]+)\.md$`)

// ResourceNameFromFile derives the canonical resource name from a scraped
// doc filename; non-resource docs report ok=false.
func ResourceNameFromFile(filename string) (string, bool) {
	m := resourceFilePattern.FindStringSubmatch(filename)
	if m == nil {
		return "", false
	}
	return "cloudstack_" + m[1], true
}

// argumentReferenceHeading matches both plain and linked H2 forms:
//   ## Argument Reference
//   ## [Argument Reference](#argument-reference)
var argumentReferenceHeading = regexp.MustCompile(
	`(?im)^##\s*(?:\[[^\]]*Argument Reference[^\]]*\]\([^)]+\)|Argument Reference)\s*$`)

var nextH2 = regexp.MustCompile(`(?m)^\s*##\s+`)

// ArgumentReferenceSection slices out the Argument Reference section to
// avoid false positives from attribute or import sections. Falls back to
// the whole text when the heading is absent.
func ArgumentReferenceSection(text string) string {
	loc := argumentReferenceHeading.FindStringIndex(text)
	if loc == nil {
		return text
	}
	section := text[loc[1]:]
	if end := nextH2.FindStringIndex(section); end != nil {
		section = section[:end[0]]
	}
	return section
}

// The scraper emits required-field bullets in three forms; the dash may be
// escaped.
//   - [`name`](...) - (Required)
//   - `name` - (Required)
//   - name - (Required)
var requiredBulletPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*-\s*\[\s*` + "`" + `?([a-zA-Z0-9_]+)` + "`" + `?\s*\]\([^)]+\)\s*(?:-|\\-)\s*\(Required\)`),
	regexp.MustCompile(`(?m)^\s*-\s*` + "`" + `([a-zA-Z0-9_]+)` + "`" + `\s*(?:-|\\-)\s*\(Required\)`),
	regexp.MustCompile(`(?m)^\s*-\s*([a-zA-Z0-9_]+)\s*(?:-|\\-)\s*\(Required\)`),
}

// RequiredFields mines the required-field names from a cleaned doc page.
func RequiredFields(text string) []string {
	section := ArgumentReferenceSection(text)
	set := make(map[string]struct{})
	for _, pat := range requiredBulletPatterns {
		for _, m := range pat.FindAllStringSubmatch(section, -1) {
			set[m[1]] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
