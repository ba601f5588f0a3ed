package main

import (
	"fmt"

	"github.com/aretw0/keyframe/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file|name>",
	Short: "Export the animator as a Mermaid diagram",
	Long:  `Loads a definition and outputs a Mermaid diagram (graph TD) with one subgraph per layer.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := backendFromFlags(cmd).loadDefinition(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(def, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
