package main

import (
	"github.com/aretw0/keyframe"
	"github.com/aretw0/keyframe/pkg/observability"
	"github.com/aretw0/keyframe/pkg/runner"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <file|name>",
	Short: "Run a deterministic script against an animator",
	Long: `Builds the animator, applies the parameter writes and time steps of a script
and prints every frame. The command fails if any expectation of the script does not hold.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scriptPath, _ := cmd.Flags().GetString("script")
		asJSON, _ := cmd.Flags().GetBool("json")
		changesOnly, _ := cmd.Flags().GetBool("changes")
		strict, _ := cmd.Flags().GetBool("strict")

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		def, err := backendFromFlags(cmd).loadDefinition(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		script, err := runner.LoadScript(scriptPath)
		if err != nil {
			return err
		}

		opts := []keyframe.Option{
			keyframe.WithLogger(logger),
			keyframe.WithHooks(observability.LogHooks(logger)),
		}
		if strict {
			opts = append(opts, keyframe.WithStrict())
		}
		anim, err := keyframe.New(*def, opts...)
		if err != nil {
			return err
		}

		var handler runner.TraceHandler
		if asJSON {
			handler = runner.NewJSONHandler(cmd.OutOrStdout())
		} else {
			var textOpts []runner.TextHandlerOption
			if changesOnly {
				textOpts = append(textOpts, runner.WithChangesOnly())
			}
			handler = runner.NewTextHandler(cmd.OutOrStdout(), textOpts...)
		}

		r := runner.NewRunner(runner.WithHandler(handler), runner.WithLogger(logger))
		_, err = r.Run(cmd.Context(), anim, script)
		return err
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringP("script", "s", "", "Path to the YAML/JSON script")
	simulateCmd.Flags().Bool("json", false, "Emit the trace as JSON lines")
	simulateCmd.Flags().Bool("changes", false, "Only print frames where a layer changed or an event fired")
	simulateCmd.Flags().Bool("strict", false, "Reject definitions that fail validation")
	_ = simulateCmd.MarkFlagRequired("script")
}
