package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "runnerbench",
		Short: "Runnerbench - synthetic manifest generator for task-runner benchmarks",
		Long: `Runnerbench generates large synthetic manifest files for stress-testing
task-runner parsers (axes-style TOML manifests, justfiles, Makefiles and
go-task Taskfiles), verifies generated files, and keeps a history of
generation runs so benchmark inputs stay reproducible.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
