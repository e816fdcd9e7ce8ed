package main

import (
	"fmt"
	"sort"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const idColumnWidth = 22

var passesCmd = &cobra.Command{
	Use:   "passes",
	Short: "Inspect the registered pass catalogue",
}

var passesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered pass ID",
	Args:  cobra.NoArgs,
	RunE:  runPassesList,
}

var passesExplainCmd = &cobra.Command{
	Use:   "explain <id>",
	Short: "Show a pass's docstring and call signature",
	Args:  cobra.ExactArgs(1),
	RunE:  runPassesExplain,
}

func init() {
	passesCmd.AddCommand(passesListCmd)
	passesCmd.AddCommand(passesExplainCmd)
}

func runPassesList(cmd *cobra.Command, args []string) error {
	mgr := newManager(nil, nil)
	ids := mgr.List()
	sort.Strings(ids)

	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()
	p.Fprintf(out, "%d registered passes:\n", len(ids))
	for _, id := range ids {
		doc, err := mgr.Explain(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s %s\n", padID(id), firstLine(doc))
	}
	return nil
}

// padID right-pads a pass ID to idColumnWidth using display width rather
// than byte length, so the explanation column lines up even if a pass
// ID ever carries wide runes.
func padID(id string) string {
	if runewidth.StringWidth(id) >= idColumnWidth {
		return id
	}
	return runewidth.FillRight(id, idColumnWidth)
}

func runPassesExplain(cmd *cobra.Command, args []string) error {
	mgr := newManager(nil, nil)
	doc, err := mgr.Explain(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), doc)
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
