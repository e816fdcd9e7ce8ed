// Command amini is the CLI front end over the IL workbench: parsing,
// interpretation, the pass manager, and an interactive breakpoint
// console, grounded on the teacher's cobra-based surge CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"amini/internal/ildiag"
)

var rootCmd = &cobra.Command{
	Use:           "amini",
	Short:         "A workbench for a small CFG/SSA intermediate language",
	Long:          `amini parses, interprets, and transforms programs written in a small CFG/SSA intermediate language.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var colorMode string

func main() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(passesCmd)
	rootCmd.AddCommand(pipelineCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize diagnostics (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		reportFatal(err)
		os.Exit(1)
	}
}

// reportFatal prints a command failure through the same colorized
// diagnostics path errors from parsing and interpretation use, rather
// than cobra's plain default "Error: ..." line.
func reportFatal(err error) {
	bag := ildiag.NewBag(1)
	bag.Add(ildiag.Diagnostic{Severity: ildiag.SevError, Message: err.Error()})
	ildiag.NewPrinter(os.Stderr, useColor(os.Stderr)).Print(bag)
}

// useColor resolves --color against whether out is actually a terminal,
// the same gate the teacher's CLI applies around fatih/color.
func useColor(out *os.File) bool {
	switch colorMode {
	case "on":
		return true
	case "off":
		return false
	default:
		return term.IsTerminal(int(out.Fd()))
	}
}
