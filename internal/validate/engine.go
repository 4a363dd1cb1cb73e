package validate

import (
	"context"
	"fmt"
	"strings"
)

// terraformChecker is the external-compiler tier. Satisfied by
// *TerraformRunner; tests substitute fakes.
type terraformChecker interface {
	Check(ctx context.Context, code string) CheckResult
}

// Engine runs the three validation tiers and aggregates a verdict with
// remediation suggestions. Each tier is individually fault-tolerant: an
// internal panic degrades to a failed check entry, never an uncaught fault.
type Engine struct {
	Enabled   bool
	terraform terraformChecker
}

func NewEngine(enabled bool, terraform terraformChecker) *Engine {
	return &Engine{Enabled: enabled, terraform: terraform}
}

func (e *Engine) Validate(ctx context.Context, code string, required []string) Result {
	if !e.Enabled {
		return Result{
			OverallValid:   true,
			Syntax:         CheckResult{Valid: true, Message: "Validation disabled"},
			RequiredFields: RequiredResult{Valid: true},
			Terraform:      CheckResult{Valid: true, Message: "Validation disabled"},
		}
	}

	res := Result{OverallValid: true}

	// 1. HCL syntax.
	res.Syntax = guardCheck(func() CheckResult { return CheckSyntax(code) })
	if !res.Syntax.Valid {
		res.OverallValid = false
	}

	// 2. Required fields.
	res.RequiredFields = guardRequired(func() RequiredResult { return CheckRequiredFields(code, required) })
	if !res.RequiredFields.Valid {
		res.OverallValid = false
	}

	// 3. Terraform CLI, only when the syntax tier passed.
	switch {
	case !res.Syntax.Valid:
		res.Terraform = CheckResult{Valid: true, Message: "Skipped due to syntax errors"}
	case e.terraform == nil:
		res.Terraform = CheckResult{Valid: true, Message: "Terraform CLI check not configured"}
	default:
		res.Terraform = guardCheck(func() CheckResult { return e.terraform.Check(ctx, code) })
		if !res.Terraform.Valid {
			res.OverallValid = false
		}
	}

	res.Suggestions = suggestions(res)
	return res
}

func suggestions(res Result) []string {
	var out []string
	if !res.Syntax.Valid {
		out = append(out, "Fix HCL syntax errors")
	}
	if len(res.RequiredFields.Missing) > 0 {
		out = append(out, "Add missing required fields: "+strings.Join(res.RequiredFields.Missing, ", "))
	}
	if !res.Terraform.Valid {
		out = append(out, "Review Terraform validation errors")
	}
	return out
}

func guardCheck(fn func() CheckResult) (res CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			res = CheckResult{Valid: false, Message: fmt.Sprintf("check failed internally: %v", r)}
		}
	}()
	return fn()
}

func guardRequired(fn func() RequiredResult) (res RequiredResult) {
	defer func() {
		if r := recover(); r != nil {
			res = RequiredResult{Valid: false, Missing: []string{fmt.Sprintf("error checking fields: %v", r)}}
		}
	}()
	return fn()
}
