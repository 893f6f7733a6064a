package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/exprtex/exprtex/pkg/expr"
	"github.com/exprtex/exprtex/pkg/latex"
	"github.com/exprtex/exprtex/pkg/pipeline"
	"github.com/exprtex/exprtex/pkg/session"
)

// Editor styles
var (
	editorPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorInputStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	editorCursorStyle = lipgloss.NewStyle().Reverse(true)
	editorDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// EditorModel - Interactive expression editor
// =============================================================================

// editorEntry is one accepted expression with its generated LaTeX.
type editorEntry struct {
	Source string
	Markup string
}

// EditorModel is the bubbletea model for the live expression editor.
type EditorModel struct {
	Entries []editorEntry
	Input   []rune
	Cursor  int
	Height  int
	Done    bool
	Aborted bool
}

// NewEditorModel creates an editor model seeded with existing expressions.
// Expressions that no longer parse are dropped.
func NewEditorModel(expressions []string) EditorModel {
	m := EditorModel{Height: 10}
	for _, src := range expressions {
		markup, err := renderExpression(src)
		if err != nil {
			continue
		}
		m.Entries = append(m.Entries, editorEntry{Source: src, Markup: markup})
	}
	return m
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		case "ctrl+d":
			m.Done = true
			return m, tea.Quit
		case "enter":
			src := strings.TrimSpace(string(m.Input))
			if src == "" {
				m.Done = true
				return m, tea.Quit
			}
			markup, err := renderExpression(src)
			if err != nil {
				return m, nil
			}
			m.Entries = append(m.Entries, editorEntry{Source: src, Markup: markup})
			m.Input = nil
			m.Cursor = 0
		case "backspace":
			if m.Cursor > 0 {
				m.Input = append(m.Input[:m.Cursor-1], m.Input[m.Cursor:]...)
				m.Cursor--
			}
		case "left":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "right":
			if m.Cursor < len(m.Input) {
				m.Cursor++
			}
		case "ctrl+u":
			m.Input = nil
			m.Cursor = 0
		default:
			switch msg.Type {
			case tea.KeyRunes:
				m.Input = insertRunes(m.Input, m.Cursor, msg.Runes)
				m.Cursor += len(msg.Runes)
			case tea.KeySpace:
				m.Input = insertRunes(m.Input, m.Cursor, []rune{' '})
				m.Cursor++
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Exprtex Live"))
	b.WriteString("\n")
	b.WriteString(editorDimStyle.Render("⏎ add  ctrl+d finish  esc quit"))
	b.WriteString("\n\n")

	start := 0
	if len(m.Entries) > m.Height {
		start = len(m.Entries) - m.Height
	}
	for _, e := range m.Entries[start:] {
		b.WriteString("  " + StyleSuccess.Render(iconSuccess) + " " + editorInputStyle.Render(e.Source))
		b.WriteString(" " + editorDimStyle.Render(iconArrow) + " " + StyleHighlight.Render(e.Markup))
		b.WriteString("\n")
	}
	if len(m.Entries) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(editorPromptStyle.Render("> "))
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderPreview())
	b.WriteString("\n\n")
	b.WriteString(editorDimStyle.Render(fmt.Sprintf("  [%d expressions]", len(m.Entries))))

	return b.String()
}

// renderInput renders the input line with a block cursor.
func (m EditorModel) renderInput() string {
	before := editorInputStyle.Render(string(m.Input[:m.Cursor]))
	if m.Cursor >= len(m.Input) {
		return before + editorCursorStyle.Render(" ")
	}
	under := editorCursorStyle.Render(string(m.Input[m.Cursor]))
	after := editorInputStyle.Render(string(m.Input[m.Cursor+1:]))
	return before + under + after
}

// renderPreview renders the live LaTeX preview for the current input.
func (m EditorModel) renderPreview() string {
	src := strings.TrimSpace(string(m.Input))
	if src == "" {
		return "  " + editorDimStyle.Render("type an expression, e.g. x**2 + sqrt(y)")
	}
	markup, err := renderExpression(src)
	if err != nil {
		return "  " + StyleWarning.Render(err.Error())
	}
	return "  " + editorDimStyle.Render(iconArrow) + " " + StyleHighlight.Render(markup)
}

// Expressions returns the accepted expression sources in entry order.
func (m EditorModel) Expressions() []string {
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Source
	}
	return out
}

// renderExpression converts a single source expression to LaTeX markup.
func renderExpression(source string) (string, error) {
	tree, err := expr.Parse(source)
	if err != nil {
		return "", err
	}
	if err := latex.Check(tree); err != nil {
		return "", err
	}
	return latex.Render(tree), nil
}

// insertRunes inserts rs into input at position pos.
func insertRunes(input []rune, pos int, rs []rune) []rune {
	out := make([]rune, 0, len(input)+len(rs))
	out = append(out, input[:pos]...)
	out = append(out, rs...)
	out = append(out, input[pos:]...)
	return out
}

// =============================================================================
// live command
// =============================================================================

// liveOpts holds the command-line flags for the live command.
type liveOpts struct {
	sessionName string        // session to load and save; empty disables persistence
	output      string        // output file path; empty means a timestamped name
	format      string        // output format for the final render
	border      string        // standalone border override
	packages    []string      // extra \usepackage entries
	timeout     time.Duration // compile timeout override
	noCache     bool          // disable caching
}

// liveCommand creates the live command for interactive editing.
func (c *CLI) liveCommand() *cobra.Command {
	var opts liveOpts

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Edit and preview expressions interactively",
		Long: `Edit and preview expressions interactively.

Each line is converted to LaTeX as you type. Enter accepts the current
expression; ctrl+d (or enter on an empty line) finishes the session and
compiles everything accepted so far into a single image. Esc quits without
rendering.

With --session the accepted expressions persist across runs.`,
		Example: `  exprtex live
  exprtex live --session thesis
  exprtex live -f pdf -o notes.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLive(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.sessionName, "session", "s", "", "named session to load and save")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default "+appName+"-<timestamp>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatPNG, "output format: png (default), pdf, tex")
	cmd.Flags().StringVar(&opts.border, "border", "", "border around the content, e.g. 0.25cm")
	cmd.Flags().StringArrayVar(&opts.packages, "package", nil, "extra LaTeX package to load (repeatable)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "compile timeout (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLive starts the editor, persists the session, and renders the result.
func (c *CLI) runLive(cmd *cobra.Command, opts liveOpts) error {
	ctx := cmd.Context()

	if err := pipeline.ValidateFormat(opts.format); err != nil {
		return err
	}

	var store session.Store
	var seed []string
	if opts.sessionName != "" {
		if err := session.ValidateName(opts.sessionName); err != nil {
			return err
		}
		s, err := newSessionStore()
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		store = s
		if existing, err := store.Get(ctx, opts.sessionName); err != nil {
			return fmt.Errorf("load session %q: %w", opts.sessionName, err)
		} else if existing != nil {
			seed = existing.Expressions
		}
	}

	p := tea.NewProgram(NewEditorModel(seed))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(EditorModel)
	if !ok || fm.Aborted {
		printDetail("Nothing rendered")
		return nil
	}

	expressions := fm.Expressions()
	if store != nil {
		if err := store.Set(ctx, session.New(opts.sessionName, expressions)); err != nil {
			printWarning("Could not save session: %v", err)
		} else {
			printInfo("Saved session %q (%d expressions)", opts.sessionName, len(expressions))
			printNextStep("Resume with", "exprtex live --session "+opts.sessionName)
		}
	}

	if len(expressions) == 0 {
		printDetail("Nothing rendered")
		return nil
	}

	popts, err := c.expressionOptions(expressions, opts.border, opts.packages)
	if err != nil {
		return err
	}
	popts.Format = opts.format
	if opts.timeout > 0 {
		popts.Timeout = opts.timeout
	}
	return c.runRender(ctx, popts, opts.output, opts.noCache)
}
