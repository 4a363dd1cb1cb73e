package validate

// CheckResult is the verdict of one validation tier.
type CheckResult struct {
	Valid   bool
	Message string
}

// RequiredResult is the required-fields tier verdict, carrying the names of
// any fields with no assignment in the generated code.
type RequiredResult struct {
	Valid   bool
	Missing []string
}

// Result aggregates the three tiers. OverallValid is the AND of syntax,
// required-fields, and the terraform tier (which reports valid when the
// tool is unavailable, so its absence never flips the verdict).
type Result struct {
	OverallValid   bool
	Syntax         CheckResult
	RequiredFields RequiredResult
	Terraform      CheckResult
	Suggestions    []string
}
