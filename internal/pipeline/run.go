package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"tfcraft/internal/collect"
	"tfcraft/internal/docstore"
	"tfcraft/internal/generate"
	"tfcraft/internal/resolver"
	"tfcraft/internal/validate"
)

// resourceLister extends the read contract with the distinct-name listing
// used for resolution and for the help shown on a dead end.
type resourceLister interface {
	docstore.Store
}

// optionalFieldSource derives the optional-field set from documentation.
type optionalFieldSource interface {
	OptionalFields(ctx context.Context, docsText string, required []string) []string
}

// Pipeline sequences one end-to-end generation run: resolve, retrieve,
// collect, generate, validate, persist.
type Pipeline struct {
	Store         resourceLister
	Resolver      *resolver.Resolver
	Extractor     optionalFieldSource
	Collector     *collect.Collector
	Generator     *generate.Generator
	Engine        *validate.Engine
	Asker         collect.Asker
	Out           io.Writer
	OutputDir     string
	ContextChunks int
}

// Run executes a full generation run for one free-text request. Soft stops
// (unresolved resource, user abort) end the run without an error; hard
// stops (no resources, no documentation) are returned to the caller.
func (p *Pipeline) Run(ctx context.Context, request string) error {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}

	known, err := p.Store.ListResources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list resources: %w", err)
	}

	resource, ok, err := p.Resolver.Resolve(ctx, request, known)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "⚠ Could not automatically map your query to a resource.")
		fmt.Fprintln(out, "Available resources (sample):")
		sample := known
		if len(sample) > 40 {
			sample = sample[:40]
		}
		for _, r := range sample {
			fmt.Fprintln(out, "  -", r)
		}
		return nil
	}
	fmt.Fprintf(out, "[Resolved resource] %s\n", resource)

	chunks, required, err := p.Store.Query(ctx, resource)
	if err != nil {
		return fmt.Errorf("retrieval failed for %s: %w", resource, err)
	}

	topChunks := chunks
	if p.ContextChunks > 0 && len(topChunks) > p.ContextChunks {
		topChunks = topChunks[:p.ContextChunks]
	}
	docsContext := strings.Join(topChunks, "\n\n")

	fmt.Fprintf(out, "Required fields: %v\n", required)

	optional := p.Extractor.OptionalFields(ctx, docsContext, required)
	if len(optional) > 0 {
		fmt.Fprintf(out, "Detected optional fields: %v\n", optional)
	}

	// 1. Required fields: must fill and validate, no skip path.
	values, err := p.Collector.Collect(ctx, required, docsContext, true)
	if err != nil {
		return err
	}

	// 2. Optional fields, on request.
	if len(optional) > 0 {
		answer, err := p.Asker.Ask("Do you want to fill optional fields? (y/N): ")
		if err != nil {
			return err
		}
		if strings.EqualFold(strings.TrimSpace(answer), "y") {
			optVals, err := p.Collector.Collect(ctx, optional, docsContext, false)
			if err != nil {
				return err
			}
			for k, v := range optVals {
				values[k] = v
			}
		}
	}

	// Generation must not start while any required field is unfilled.
	var missing []string
	for _, f := range required {
		if values[f] == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(out, "❌ Required fields missing after prompting: %v\n", missing)
		fmt.Fprintln(out, "Aborting to let you re-run and fill them.")
		return nil
	}

	code := p.Generator.Generate(ctx, resource, chunks, values, required)

	if generate.IsSentinel(code) {
		fmt.Fprintf(out, "\nLLM reports missing required field: %s\n", strings.TrimSpace(code))
		fmt.Fprintln(out, "Please re-run and provide the missing value(s).")
		return nil
	}

	overallValid := true
	if p.Engine != nil && p.Engine.Enabled {
		fmt.Fprintln(out, "\n🔍 Validating generated Terraform configuration...")
		results := p.Engine.Validate(ctx, code, required)
		printValidation(out, results)
		overallValid = results.OverallValid

		if !results.OverallValid {
			proceed, err := p.failureDialogue(out, code)
			if err != nil {
				return err
			}
			if !proceed {
				fmt.Fprintln(out, "Aborting. Please fix the issues and try again.")
				return nil
			}
		} else {
			fmt.Fprintln(out, "✅ All validations passed!")
		}
	}

	path, err := generate.Save(p.OutputDir, resource, values, code)
	if err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}

	if overallValid {
		fmt.Fprintf(out, "\n✅ Validated Terraform configuration saved to: %s\n", path)
	} else {
		fmt.Fprintf(out, "\n💾 Terraform configuration saved to: %s\n", path)
		fmt.Fprintln(out, "⚠️  Note: Contains validation warnings - review before applying")
	}

	fmt.Fprintln(out, "\n===== GENERATED TERRAFORM =====")
	fmt.Fprintln(out, code)
	fmt.Fprintln(out, "\n===== NEXT STEPS =====")
	fmt.Fprintln(out, "1. Review the configuration file")
	fmt.Fprintln(out, "2. cd to the directory containing the .tf file")
	fmt.Fprintln(out, "3. Run: terraform init")
	fmt.Fprintln(out, "4. Run: terraform plan")
	fmt.Fprintln(out, "5. Run: terraform apply (if plan looks good)")
	if !overallValid {
		fmt.Fprintln(out, "\n⚠️  Fix validation issues before running terraform apply")
	}
	return nil
}

// failureDialogue is the abort-versus-override decision point after a
// failed validation. An overridden save always re-displays the content
// first so nothing is saved sight unseen.
func (p *Pipeline) failureDialogue(out io.Writer, code string) (bool, error) {
	fmt.Fprintln(out, "\n❌ Validation failed. What would you like to do?")
	fmt.Fprintln(out, "1. Save anyway (s)")
	fmt.Fprintln(out, "2. Abort and fix manually (a)")
	fmt.Fprintln(out, "3. Show the code and decide (v)")

	choice, err := p.Asker.Ask("Choose [s/a/v]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "a":
		return false, nil
	case "v":
		fmt.Fprintln(out, "\n===== GENERATED TERRAFORM (WITH ISSUES) =====")
		fmt.Fprintln(out, code)
		fmt.Fprintln(out, strings.Repeat("=", 50))
		save, err := p.Asker.Ask("\nSave this code anyway? [y/N]: ")
		if err != nil {
			return false, err
		}
		return strings.EqualFold(strings.TrimSpace(save), "y"), nil
	default:
		return true, nil
	}
}

func printValidation(out io.Writer, res validate.Result) {
	fmt.Fprintln(out, "\n📋 Validation Results:")
	fmt.Fprintln(out, strings.Repeat("=", 40))

	if res.OverallValid {
		fmt.Fprintln(out, "✅ Overall Status: VALID")
	} else {
		fmt.Fprintln(out, "❌ Overall Status: INVALID")
	}

	fmt.Fprintf(out, "%s HCL Syntax: %s\n", statusIcon(res.Syntax.Valid), res.Syntax.Message)

	if len(res.RequiredFields.Missing) > 0 {
		fmt.Fprintf(out, "❌ Required Fields: Missing %v\n", res.RequiredFields.Missing)
	} else {
		fmt.Fprintln(out, "✅ Required Fields: All present")
	}

	fmt.Fprintf(out, "%s Terraform CLI: %s\n", statusIcon(res.Terraform.Valid), res.Terraform.Message)

	if len(res.Suggestions) > 0 {
		fmt.Fprintln(out, "\n💡 Suggestions:")
		for i, s := range res.Suggestions {
			fmt.Fprintf(out, "   %d. %s\n", i+1, s)
		}
	}
	fmt.Fprintln(out, strings.Repeat("=", 40))
}

func statusIcon(valid bool) string {
	if valid {
		return "✅"
	}
	return "❌"
}
