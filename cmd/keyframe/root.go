package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/keyframe/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keyframe",
	Short: "Keyframe is an animation state machine runtime",
	Long: `Keyframe loads animator definitions (layers of states, guarded transitions and timed events)
and lets you validate, visualize, simulate and serve them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing animator definitions")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("backend", backendFile, "Definition backend: file, loam or redis")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address for the redis backend")
	rootCmd.PersistentFlags().String("redis-prefix", "", "Key prefix for the redis backend (default keyframe:animator:)")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}
