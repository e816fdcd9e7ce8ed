package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"amini/internal/ilasm"
	"amini/internal/ilconfig"
	"amini/internal/interp"
)

var (
	debugSample      string
	debugBreakpoints []string
	debugInput       string
)

var debugCmd = &cobra.Command{
	Use:   "debug [file.ami]",
	Short: "Interactively step an IL program against its breakpoints",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDebug,
}

func init() {
	debugCmd.Flags().StringVar(&debugSample, "sample", "", "debug a built-in sample program instead of a file")
	debugCmd.Flags().StringSliceVar(&debugBreakpoints, "break", nil, "a breakpoint name to register (repeatable)")
	debugCmd.Flags().StringVar(&debugInput, "input", "", "whitespace-separated decimal integers fed to Read instructions")
}

func runDebug(cmd *cobra.Command, args []string) error {
	var filePath string
	if len(args) == 1 {
		filePath = args[0]
	}
	src, err := loadSource(filePath, debugSample)
	if err != nil {
		return err
	}
	cfg, _, err := ilasm.Parse(src)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	names := debugBreakpoints
	if len(names) == 0 {
		if wd, err := os.Getwd(); err == nil {
			if loaded, _, ok, _ := ilconfig.Discover(wd); ok {
				names = loaded.Debug.Breakpoints
			}
		}
	}
	bps := interp.NewBreakpoints()
	for _, n := range names {
		if _, err := bps.Add(n); err != nil {
			return err
		}
	}

	values, err := parseScriptedInput(debugInput)
	if err != nil {
		return err
	}
	input := interp.NewQueueInput(values...)

	model := newDebugModel(cfg, bps, input)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, err = program.Run()
	return err
}
