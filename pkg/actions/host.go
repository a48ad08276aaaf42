package actions

import (
	"context"

	"openai_helper/pkg/prompt"
)

// Host is the editor environment an action runs against.
type Host interface {
	// ActiveDocument returns the current document and selection.
	// ok is false when no document is open.
	ActiveDocument() (src prompt.SourceContext, ok bool)
	// AskQuestion collects free text from the user. ok is false when the
	// user dismissed the input.
	AskQuestion(ctx context.Context, prompt string) (answer string, ok bool, err error)
	// Display shows text in a new read-only panel. The full text is shown.
	Display(ctx context.Context, title, text string) error
	ShowInfo(msg string)
	ShowError(msg string)
}

// ProgressHost is implemented by hosts that can show an in-progress
// indicator around a long-running task.
type ProgressHost interface {
	WithProgress(ctx context.Context, title string, fn func(context.Context) error) error
}
