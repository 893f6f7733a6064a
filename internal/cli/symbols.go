package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/exprtex/exprtex/pkg/latex"
)

// symbolsCommand creates the symbols command listing recognized names.
func (c *CLI) symbolsCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "symbols [filter]",
		Short: "List recognized symbol names and their LaTeX commands",
		Long: `List recognized symbol names and their LaTeX commands.

Identifiers matching these names render as the corresponding LaTeX symbol
instead of plain text. An optional filter argument restricts the list to
names containing the filter string.`,
		Example: `  exprtex symbols
  exprtex symbols alpha
  exprtex symbols --plain | grep arrow`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			return runSymbols(filter, plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print tab-separated output without styling")

	return cmd
}

// symbolRows builds name/command pairs, optionally filtered by substring.
func symbolRows(filter string) [][]string {
	var rows [][]string
	for _, name := range latex.Symbols() {
		if filter != "" && !strings.Contains(name, filter) {
			continue
		}
		command, ok := latex.Symbol(name)
		if !ok {
			continue
		}
		rows = append(rows, []string{name, command})
	}
	return rows
}

// runSymbols prints the symbol table, optionally filtered by substring.
func runSymbols(filter string, plain bool) error {
	rows := symbolRows(filter)

	if len(rows) == 0 {
		printInfo("No symbols match %q", filter)
		return nil
	}

	if plain {
		for _, row := range rows {
			fmt.Printf("%s\t%s\n", row[0], row[1])
		}
		return nil
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "LaTeX").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Println(t)
	printDetail("%d symbols", len(rows))
	return nil
}
