package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"amini/internal/ilconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the discovered amini.toml",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the amini.toml found by walking up from the current directory",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, path, ok, err := ilconfig.Discover(wd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, "no amini.toml found above", wd)
		return nil
	}
	fmt.Fprintln(out, "config:", path)
	fmt.Fprintln(out, "pipeline.steps:", cfg.Pipeline.Steps)
	fmt.Fprintln(out, "debug.breakpoints:", cfg.Debug.Breakpoints)
	fmt.Fprintln(out, "trace.enabled:", cfg.Trace.Enabled)
	if cfg.Trace.Enabled {
		fmt.Fprintln(out, "trace.file:", cfg.Trace.File)
		fmt.Fprintln(out, "trace.format:", cfg.TraceFormat())
	}
	return nil
}
