// Package host adapts a terminal session to the action host interface.
package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"openai_helper/pkg/actions"
	"openai_helper/pkg/editor"
	"openai_helper/pkg/prompt"
	"openai_helper/pkg/ui/panel"
	"openai_helper/pkg/ui/progress"
	"openai_helper/pkg/ui/question"
	"openai_helper/pkg/ui/styles"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// AskFunc collects one line of text from the user.
type AskFunc func(ctx context.Context, prompt string, in io.Reader, out io.Writer) (string, bool, error)

// Options configures a CLI host.
type Options struct {
	// Document is nil when no file was given.
	Document *editor.Document
	// Question, when set, answers AskQuestion without prompting.
	Question *string
	// Interactive enables the input box for AskQuestion.
	Interactive bool
	// ShowProgress animates a spinner on Stderr during requests.
	ShowProgress bool
	// Copy also sends the result to the clipboard via OSC 52.
	Copy bool
	// Width of the result panel. Zero picks the terminal width.
	Width int

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Ask defaults to question.Run.
	Ask AskFunc
}

var (
	_ actions.Host         = (*CLI)(nil)
	_ actions.ProgressHost = (*CLI)(nil)
)

// CLI is a terminal-backed action host.
type CLI struct {
	opts     Options
	branch   string
	progress *progress.Indicator
}

// New creates a CLI host. Nil streams default to the process streams.
func New(opts Options) *CLI {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Ask == nil {
		opts.Ask = question.Run
	}
	if opts.Width <= 0 {
		opts.Width = TerminalWidth(opts.Stdout)
	}

	h := &CLI{opts: opts}
	if opts.Document != nil {
		h.branch = opts.Document.Branch()
	}
	if opts.ShowProgress {
		h.progress = progress.New(opts.Stderr)
	}
	return h
}

// TerminalWidth reports the width of w when it is a terminal, or
// panel.DefaultWidth otherwise.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return panel.DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return panel.DefaultWidth
	}
	return width
}

// IsTerminal reports whether stream is attached to a terminal.
func IsTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *CLI) ActiveDocument() (prompt.SourceContext, bool) {
	if h.opts.Document == nil {
		return prompt.SourceContext{}, false
	}
	return h.opts.Document.Source, true
}

func (h *CLI) AskQuestion(ctx context.Context, p string) (string, bool, error) {
	if h.opts.Question != nil {
		return *h.opts.Question, true, nil
	}
	if !h.opts.Interactive {
		slog.Debug("question_skipped", "reason", "stdin is not a terminal")
		return "", false, nil
	}
	return h.opts.Ask(ctx, p, h.opts.Stdin, h.opts.Stderr)
}

// Display prints the full result in a titled panel on stdout.
func (h *CLI) Display(ctx context.Context, title, text string) error {
	out := panel.Render(h.panelTitle(title), text, h.opts.Width)
	if _, err := fmt.Fprintln(h.opts.Stdout, out); err != nil {
		return err
	}

	if h.opts.Copy {
		_, _ = fmt.Fprint(h.opts.Stderr, osc52.New(text))
		fmt.Fprintln(h.opts.Stderr, styles.SuccessStyle.Render("Copied to clipboard."))
	}
	return nil
}

func (h *CLI) panelTitle(title string) string {
	if h.opts.Document == nil {
		return title
	}
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString(": ")
	sb.WriteString(h.opts.Document.Name())
	if h.branch != "" {
		sb.WriteString(" [")
		sb.WriteString(h.branch)
		sb.WriteString("]")
	}
	return sb.String()
}

func (h *CLI) ShowInfo(msg string) {
	fmt.Fprintln(h.opts.Stderr, styles.InfoStyle.Render(msg))
}

func (h *CLI) ShowError(msg string) {
	fmt.Fprintln(h.opts.Stderr, styles.ErrorStyle.Render(msg))
}

// WithProgress runs fn under a spinner when progress output is enabled.
func (h *CLI) WithProgress(ctx context.Context, title string, fn func(context.Context) error) error {
	if h.progress == nil {
		return fn(ctx)
	}
	return h.progress.Run(ctx, title, fn)
}
