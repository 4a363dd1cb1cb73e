package generate

import (
	"os"
	"path/filepath"
	"regexp"
)

const slugMaxLen = 64

var slugUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_\-]+`)

// Slug derives the filename fragment from a name-like field value.
func Slug(values map[string]string) string {
	name := values["name"]
	if name == "" {
		name = values["display_name"]
	}
	if name == "" {
		name = "resource"
	}
	slug := slugUnsafe.ReplaceAllString(name, "_")
	if len(slug) > slugMaxLen {
		slug = slug[:slugMaxLen]
	}
	return slug
}

// Save writes the generated code under a deterministic path:
// <dir>/terraform_<resource>_<slug>.tf
func Save(dir, resource string, values map[string]string, code string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "terraform_"+resource+"_"+Slug(values)+".tf")
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return "", err
	}
	return path, nil
}
