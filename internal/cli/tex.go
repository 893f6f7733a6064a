package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/exprtex/exprtex/pkg/latex"
	"github.com/exprtex/exprtex/pkg/pipeline"
)

// texCommand creates the tex command for printing LaTeX without compiling.
func (c *CLI) texCommand() *cobra.Command {
	var (
		output   string
		full     bool
		border   string
		packages []string
	)

	cmd := &cobra.Command{
		Use:   "tex [expression...]",
		Short: "Print the generated LaTeX without compiling",
		Long: `Print the generated LaTeX without compiling.

By default one math fragment is printed per expression, ready to paste into
an existing document. With --full the complete standalone document is
printed instead, including the preamble.`,
		Example: `  exprtex tex "x**2 + 1"
  exprtex tex --full "sqrt(a)" "b/c" > doc.tex`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.expressionOptions(args, border, packages)
			if err != nil {
				return err
			}
			opts.Format = pipeline.FormatTeX

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			result, err := runner.Execute(cmd.Context(), opts)
			if err != nil {
				reportExpressionFailures(err)
				return fmt.Errorf("tex: %w", err)
			}

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()

			if full {
				fmt.Fprintln(out, result.Document)
				return nil
			}
			for _, f := range result.Fragments {
				fmt.Fprintln(out, latex.Wrap(f.Markup))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&full, "full", false, "print the complete standalone document")
	cmd.Flags().StringVar(&border, "border", "", "border around the content, e.g. 0.25cm")
	cmd.Flags().StringArrayVar(&packages, "package", nil, "extra LaTeX package to load (repeatable)")

	return cmd
}
