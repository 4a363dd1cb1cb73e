package validate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// TerraformRunner drives `terraform init` and `terraform validate` inside a
// fresh ephemeral workspace per attempt. Each step runs under its own
// timeout; the validate step's is the shorter one.
type TerraformRunner struct {
	Binary          string
	InitTimeout     time.Duration
	ValidateTimeout time.Duration
}

func NewTerraformRunner(initTimeout, validateTimeout time.Duration) *TerraformRunner {
	if initTimeout <= 0 {
		initTimeout = 60 * time.Second
	}
	if validateTimeout <= 0 {
		validateTimeout = 30 * time.Second
	}
	return &TerraformRunner{
		Binary:          "terraform",
		InitTimeout:     initTimeout,
		ValidateTimeout: validateTimeout,
	}
}

// Available reports whether the terraform binary is on PATH.
func (r *TerraformRunner) Available() bool {
	_, err := exec.LookPath(r.Binary)
	return err == nil
}

// providerStub renders the fixed provider configuration the generated code
// is validated against.
func providerStub() []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	tfBlock := root.AppendNewBlock("terraform", nil)
	providers := tfBlock.Body().AppendNewBlock("required_providers", nil)
	providers.Body().SetAttributeValue("cloudstack", cty.ObjectVal(map[string]cty.Value{
		"source":  cty.StringVal("cloudstack/cloudstack"),
		"version": cty.StringVal("~> 0.5"),
	}))
	root.AppendNewline()

	provider := root.AppendNewBlock("provider", []string{"cloudstack"})
	provider.Body().SetAttributeValue("api_url", cty.StringVal("http://localhost:8080/client/api"))
	provider.Body().SetAttributeValue("api_key", cty.StringVal("dummy"))
	provider.Body().SetAttributeValue("secret_key", cty.StringVal("dummy"))

	return f.Bytes()
}

// Check materializes the code plus the provider stub and runs the two
// terraform steps. A missing binary is a pass-with-caveat; a parse failure
// during init is classified distinctly from a validation failure.
func (r *TerraformRunner) Check(ctx context.Context, code string) CheckResult {
	if !r.Available() {
		return CheckResult{Valid: true, Message: "Terraform CLI not available"}
	}

	dir, err := os.MkdirTemp("", "tfcraft-validate-*")
	if err != nil {
		return CheckResult{Valid: false, Message: fmt.Sprintf("Validation error: %v", err)}
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "main.tf"), []byte(code), 0644); err != nil {
		return CheckResult{Valid: false, Message: fmt.Sprintf("Validation error: %v", err)}
	}
	if err := os.WriteFile(filepath.Join(dir, "provider.tf"), providerStub(), 0644); err != nil {
		return CheckResult{Valid: false, Message: fmt.Sprintf("Validation error: %v", err)}
	}

	initStderr, initErr := r.run(ctx, dir, r.InitTimeout, "init", "-no-color")
	if initErr != nil {
		if errors.Is(initErr, context.DeadlineExceeded) {
			return CheckResult{Valid: false, Message: "Validation timed out"}
		}
		if strings.Contains(initStderr, "Error parsing") {
			return CheckResult{Valid: false, Message: fmt.Sprintf("Parse error: %s", initStderr)}
		}
		// Other init failures (registry unreachable etc.) are tolerated;
		// validate still runs against whatever init managed to set up.
	}

	validateStderr, validateErr := r.run(ctx, dir, r.ValidateTimeout, "validate", "-no-color")
	if validateErr != nil {
		if errors.Is(validateErr, context.DeadlineExceeded) {
			return CheckResult{Valid: false, Message: "Validation timed out"}
		}
		return CheckResult{Valid: false, Message: fmt.Sprintf("Validation failed: %s", validateStderr)}
	}
	return CheckResult{Valid: true, Message: "Terraform validation passed"}
}

func (r *TerraformRunner) run(ctx context.Context, dir string, timeout time.Duration, args ...string) (string, error) {
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(stepCtx, r.Binary, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if stepCtx.Err() != nil {
		return stderr.String(), stepCtx.Err()
	}
	return stderr.String(), err
}
