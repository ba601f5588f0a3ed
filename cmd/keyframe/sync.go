package main

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/keyframe/pkg/adapters/file"
	"github.com/aretw0/keyframe/pkg/ports"
	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Copy definitions from --dir into Redis",
	Long:  `Loads every definition of the directory (file backend) and saves it into the Redis store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := backendFromFlags(cmd)
		store := cfg.redisStore()
		defer store.Close()
		return copyDefinitions(cmd.Context(), file.New(cfg.Dir), store, cmd.OutOrStdout())
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Copy definitions from Redis into --dir",
	Long:  `Loads every definition of the Redis store and writes it to the directory as YAML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := backendFromFlags(cmd)
		store := cfg.redisStore()
		defer store.Close()
		return copyDefinitions(cmd.Context(), store, file.New(cfg.Dir), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
}

// copyDefinitions saves every definition of src into dst.
func copyDefinitions(ctx context.Context, src ports.DefinitionLoader, dst ports.DefinitionStore, w io.Writer) error {
	names, err := src.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		def, err := src.Load(ctx, name)
		if err != nil {
			return err
		}
		if def.Name == "" {
			def.Name = name
		}
		if err := dst.Save(ctx, def); err != nil {
			return fmt.Errorf("failed to save %s: %w", name, err)
		}
		fmt.Fprintf(w, "copied %s\n", name)
	}
	return nil
}
