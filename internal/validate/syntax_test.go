package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const validCode = `resource "cloudstack_instance" "web" {
  name             = "web-1"
  zone             = "zone-1"
  service_offering = "small"
  template         = "ubuntu-22.04"
}`

func TestCheckSyntax_Valid(t *testing.T) {
	res := CheckSyntax(validCode)
	assert.True(t, res.Valid)
	assert.Equal(t, "Syntax valid", res.Message)
}

func TestCheckSyntax_ParseError(t *testing.T) {
	res := CheckSyntax(`resource "cloudstack_instance" "web" {
  name = "unclosed
}`)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Message, "Syntax error")
}

func TestCheckSyntax_NoTerraformBlocks(t *testing.T) {
	res := CheckSyntax(`settings {
  name = "web"
}`)
	assert.False(t, res.Valid)
	assert.Equal(t, "No valid Terraform blocks found", res.Message)
}

func TestCheckSyntax_EmptyInput(t *testing.T) {
	res := CheckSyntax("")
	assert.False(t, res.Valid)
}

func TestCheckRequiredFields_AllPresent(t *testing.T) {
	res := CheckRequiredFields(validCode, []string{"name", "zone", "template"})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Missing)
}

func TestCheckRequiredFields_ReportsMissing(t *testing.T) {
	res := CheckRequiredFields(validCode, []string{"name", "zone_id"})
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"zone_id"}, res.Missing)
}

func TestCheckRequiredFields_WordBoundary(t *testing.T) {
	// "zone" must not satisfy a requirement for "one".
	res := CheckRequiredFields(`resource "x" "y" { zone = "a" }`, []string{"one"})
	assert.False(t, res.Valid)
}

func TestCheckRequiredFields_NoneRequired(t *testing.T) {
	res := CheckRequiredFields(validCode, nil)
	assert.True(t, res.Valid)
}
