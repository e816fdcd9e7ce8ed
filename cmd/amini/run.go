package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"amini/internal/bignum"
	"amini/internal/ilasm"
	"amini/internal/ilconfig"
	"amini/internal/interp"
)

// sampleInputs carries a representative input sequence for each
// built-in sample so `run --all` exercises its intended behavior
// rather than failing on the first Read.
var sampleInputs = map[string][]int64{
	"division":     {17, 5},
	"modexp":       {7, 13, 11},
	"sumofsquares": {25},
	"fizzbuzz":     {5},
	"binarysearch": {1, -1, 1, 1, 1, -1, -1, 1, 0},
	"phifromentry": {},
}

var (
	runSample     string
	runTraceFile  string
	runTraceForm  string
	runAllSamples bool
)

var runCmd = &cobra.Command{
	Use:   "run [file.ami]",
	Short: "Parse and interpret an IL program",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSample, "sample", "", "run a built-in sample program instead of a file")
	runCmd.Flags().StringVar(&runTraceFile, "trace-file", "", "write an execution trace to this path")
	runCmd.Flags().StringVar(&runTraceForm, "trace-format", "", "trace format (text|binary), default from amini.toml or text")
	runCmd.Flags().BoolVar(&runAllSamples, "all", false, "run every built-in sample concurrently and report each result")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runAllSamples {
		return runAllSamplesConcurrently(cmd)
	}

	var filePath string
	if len(args) == 1 {
		filePath = args[0]
	}
	src, err := loadSource(filePath, runSample)
	if err != nil {
		return err
	}
	return runOneProgram(cmd, src, os.Stdin, os.Stdout)
}

func runOneProgram(cmd *cobra.Command, src string, stdin *os.File, stdout *os.File) error {
	cfg, _, err := ilasm.Parse(src)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	traceFormat := runTraceForm
	if traceFormat == "" {
		if wd, err := os.Getwd(); err == nil {
			if loaded, _, ok, _ := ilconfig.Discover(wd); ok {
				traceFormat = loaded.TraceFormat()
			}
		}
	}

	m := interp.NewMachine(cfg, interp.NewStreamInput(stdin), interp.NewStreamOutput(stdout))

	var rec *interp.BinaryRecorder
	if runTraceFile != "" {
		switch traceFormat {
		case ilconfig.FormatBinary:
			rec = interp.NewBinaryRecorder()
			m.Trace = rec
		default:
			f, err := os.Create(runTraceFile)
			if err != nil {
				return fmt.Errorf("creating trace file: %w", err)
			}
			defer f.Close()
			m.Trace = interp.NewTracer(f)
		}
	}

	runErr := m.Run()
	if rec != nil {
		f, err := os.Create(runTraceFile)
		if err != nil {
			return fmt.Errorf("creating trace file: %w", err)
		}
		defer f.Close()
		if err := rec.WriteTo(f); err != nil {
			return fmt.Errorf("writing trace file: %w", err)
		}
	}
	return runErr
}

// runAllSamplesConcurrently runs every built-in sample program, each
// with its own single-threaded interp.Machine, bounded by an
// errgroup — concurrency lives at this embedder layer, never inside
// one interpreter instance.
func runAllSamplesConcurrently(cmd *cobra.Command) error {
	names := []string{"division", "modexp", "sumofsquares", "fizzbuzz", "binarysearch", "phifromentry"}
	results := make([]string, len(names))

	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			src := sampleCatalog[name]
			cfg, _, err := ilasm.Parse(src)
			if err != nil {
				results[i] = fmt.Sprintf("%s: parse error: %v", name, err)
				return nil
			}
			if err := cfg.Validate(); err != nil {
				results[i] = fmt.Sprintf("%s: invalid: %v", name, err)
				return nil
			}
			ins := sampleInputs[name]
			values := make([]bignum.Int, len(ins))
			for k, v := range ins {
				values[k] = bignum.FromInt64(v)
			}
			out := interp.NewRecordingOutput()
			m := interp.NewMachine(cfg, interp.NewQueueInput(values...), out)
			if err := m.Run(); err != nil {
				results[i] = fmt.Sprintf("%s: %v", name, err)
				return nil
			}
			results[i] = fmt.Sprintf("%s: ok (%d values written)", name, len(out.Values))
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		fmt.Fprintln(cmd.OutOrStdout(), r)
	}
	return nil
}
