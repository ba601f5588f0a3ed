package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/keyframe"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of keyframe",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("keyframe version %s\n", strings.TrimSpace(keyframe.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
