package validate

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// terraformTopLevel are the block types that make a file a Terraform
// configuration at all.
var terraformTopLevel = map[string]struct{}{
	"resource": {}, "terraform": {}, "provider": {}, "data": {},
}

// CheckSyntax structurally parses the generated code. A parse error or a
// file with no Terraform blocks is invalid; an empty body is reported the
// same way the parser reports other structure problems.
func CheckSyntax(code string) CheckResult {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(code), "generated.tf")
	if diags.HasErrors() {
		return CheckResult{Valid: false, Message: syntaxMessage(diags)}
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok || body == nil {
		return CheckResult{Valid: false, Message: "Invalid HCL structure"}
	}

	for _, block := range body.Blocks {
		if _, known := terraformTopLevel[block.Type]; known {
			return CheckResult{Valid: true, Message: "Syntax valid"}
		}
	}
	return CheckResult{Valid: false, Message: "No valid Terraform blocks found"}
}

func syntaxMessage(diags hcl.Diagnostics) string {
	msg := diags.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "unexpected token") || strings.Contains(lower, "invalid character") {
		return "Syntax error: Check for missing quotes or brackets"
	}
	if strings.Contains(lower, "unterminated") || strings.Contains(lower, "unclosed") {
		return "Syntax error: Missing closing quotes or brackets"
	}
	return fmt.Sprintf("Syntax error: %s", msg)
}
