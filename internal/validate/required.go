package validate

import (
	"regexp"
)

// CheckRequiredFields scans the generated code for a `<field> =` assignment
// per required field and reports every absent name.
func CheckRequiredFields(code string, required []string) RequiredResult {
	var missing []string
	for _, field := range required {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(field) + `\s*=`)
		if !pattern.MatchString(code) {
			missing = append(missing, field)
		}
	}
	return RequiredResult{Valid: len(missing) == 0, Missing: missing}
}
