package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/keyframe/internal/presentation/tui"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/schema"
	"github.com/spf13/cobra"
)

var errInvalid = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate [file|name...]",
	Short: "Check definitions for consistency",
	Long: `Validates the given definitions, or every definition of the backend when none is given.
Errors (unknown states, type mismatches...) fail the command; warnings (unreachable states,
events that never fire...) are only reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, _ := cmd.Flags().GetBool("report")
		return runValidate(cmd.Context(), backendFromFlags(cmd), args, report, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("report", false, "Render a Markdown report for each definition")
}

func runValidate(ctx context.Context, cfg backendConfig, args []string, report bool, w io.Writer) error {
	if len(args) == 0 {
		loader, closeFn, err := cfg.open()
		if err != nil {
			return err
		}
		names, err := loader.List(ctx)
		closeFn()
		if err != nil {
			return err
		}
		args = names
	}

	var render func(string) (string, error)
	if report {
		var err error
		render, err = tui.NewRenderer(tui.IsTerminal(w), 0)
		if err != nil {
			return err
		}
	}

	failed := 0
	for _, arg := range args {
		def, err := cfg.loadDefinition(ctx, arg)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", arg, err)
			failed++
			continue
		}
		errs := validationErrors(def)
		warnings := schema.Lint(def)
		if len(errs) > 0 {
			failed++
		}

		if render != nil {
			out, err := render(tui.Report(def, errs, warnings))
			if err != nil {
				return err
			}
			fmt.Fprint(w, out)
			continue
		}
		printFindings(w, def.Name, errs, warnings)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d definition(s)", errInvalid, failed, len(args))
	}
	return nil
}

func validationErrors(def *domain.AnimatorData) []error {
	err := schema.Validate(def)
	if err == nil {
		return nil
	}
	if errs := schema.ValidationErrors(err); errs != nil {
		return errs
	}
	return []error{err}
}

func printFindings(w io.Writer, name string, errs, warnings []error) {
	switch {
	case len(errs) > 0:
		fmt.Fprintf(w, "%s: invalid ❌\n", name)
	default:
		fmt.Fprintf(w, "%s: valid ✅\n", name)
	}
	for _, e := range errs {
		fmt.Fprintf(w, "  error: %v\n", e)
	}
	for _, e := range warnings {
		fmt.Fprintf(w, "  warning: %v\n", e)
	}
}
