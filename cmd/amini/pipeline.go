package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"amini/internal/ilasm"
	"amini/internal/ilconfig"
	"amini/internal/passmgr"
)

var (
	pipelineSample string
	pipelinePasses []string
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run a named sequence of passes over an IL program",
}

var pipelineRunCmd = &cobra.Command{
	Use:   "run [file.ami]",
	Short: "Run a pass pipeline, printing the transformed program",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPipelineRun,
}

func init() {
	pipelineRunCmd.Flags().StringVar(&pipelineSample, "sample", "", "run against a built-in sample program instead of a file")
	pipelineRunCmd.Flags().StringSliceVar(&pipelinePasses, "pass", nil, "a pass invocation (repeatable); defaults to amini.toml's [pipeline].steps")
	pipelineCmd.AddCommand(pipelineRunCmd)
}

func runPipelineRun(cmd *cobra.Command, args []string) error {
	var filePath string
	if len(args) == 1 {
		filePath = args[0]
	}
	src, err := loadSource(filePath, pipelineSample)
	if err != nil {
		return err
	}

	cfg, store, err := ilasm.Parse(src)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	steps := pipelinePasses
	if len(steps) == 0 {
		if wd, err := os.Getwd(); err == nil {
			if loaded, _, ok, _ := ilconfig.Discover(wd); ok {
				steps = loaded.Pipeline.Steps
			}
		}
	}
	if len(steps) == 0 {
		return fmt.Errorf("no passes given: specify --pass or an amini.toml [pipeline].steps list")
	}

	mgr := newManager(cfg, store)
	_, invs, err := passmgr.ParsePipeline(steps)
	if err != nil {
		return err
	}
	if _, err := mgr.RunPipeline(cmd.Context(), invs); err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), ilasm.Print(cfg, store))
	fmt.Fprintln(cmd.OutOrStdout(), "ran: "+strings.Join(steps, ", "))
	return nil
}
