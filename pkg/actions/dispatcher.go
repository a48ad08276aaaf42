package actions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"openai_helper/pkg/ai"
	"openai_helper/pkg/logging"
	"openai_helper/pkg/prompt"

	"github.com/google/uuid"
)

// NoDocumentMessage is shown when an action runs without an open document.
const NoDocumentMessage = "No active editor found."

// Outcome is how an invocation ended.
type Outcome int

const (
	OutcomeDisplayed Outcome = iota
	OutcomeAborted
	OutcomeNoDocument
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDisplayed:
		return "displayed"
	case OutcomeAborted:
		return "aborted"
	case OutcomeNoDocument:
		return "no_document"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result represents the result of an action invocation
type Result struct {
	Action  Name
	Title   string
	Content string
	Outcome Outcome
	Err     error
}

// Dispatcher routes action names to their table entries. It holds no
// per-invocation state, so concurrent Dispatch calls are independent.
type Dispatcher struct {
	provider ai.Provider
	table    Table
	host     Host
	logger   *slog.Logger
}

// NewDispatcher creates a new action dispatcher
func NewDispatcher(provider ai.Provider, table Table, host Host) *Dispatcher {
	if table == nil {
		table = DefaultTable()
	}
	return &Dispatcher{
		provider: provider,
		table:    table,
		host:     host,
		logger:   slog.Default(),
	}
}

// Dispatch runs one action end to end. Fatal errors are reported to the host
// once and returned in the Result; they are never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, name Name) *Result {
	logger := d.logger.With("invocation_id", uuid.NewString(), "action", string(name))
	started := time.Now()

	spec, ok := d.table[name]
	if !ok {
		return d.fail(logger, &Result{Action: name}, fmt.Errorf("unknown action: %s", name))
	}
	result := &Result{Action: name, Title: spec.Title}

	src, ok := d.host.ActiveDocument()
	if !ok {
		logger.Info("action_no_document")
		d.host.ShowInfo(NoDocumentMessage)
		result.Outcome = OutcomeNoDocument
		return result
	}

	question := ""
	if spec.NeedsQuestion() {
		answer, ok, err := d.host.AskQuestion(ctx, spec.QuestionPrompt)
		if err != nil {
			return d.fail(logger, result, fmt.Errorf("read question: %w", err))
		}
		if !ok || answer == "" {
			logger.Info("action_aborted")
			result.Outcome = OutcomeAborted
			return result
		}
		question = answer
	}

	text, truncated := prompt.Bounded(spec.Template, src, question, spec.MaxChars)
	logger.Info("action_dispatch_start",
		"model", spec.Params.Model,
		"prompt_chars", len(text),
		"max_chars", spec.MaxChars,
		"truncated", truncated,
		"has_selection", src.HasSelection(),
	)
	if logger.Enabled(ctx, logging.LevelTrace) {
		logger.Log(ctx, logging.LevelTrace, "action_prompt", "prompt", text)
	}

	var answer string
	err := d.withProgress(ctx, spec.Progress, func(ctx context.Context) error {
		var err error
		answer, err = d.provider.Complete(ctx, text, spec.Params)
		return err
	})
	if err != nil {
		return d.fail(logger, result, err)
	}

	if err := d.host.Display(ctx, spec.Title, answer); err != nil {
		return d.fail(logger, result, fmt.Errorf("display result: %w", err))
	}

	logger.Info("action_dispatch_done",
		"response_chars", len(answer),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	result.Content = answer
	result.Outcome = OutcomeDisplayed
	return result
}

func (d *Dispatcher) withProgress(ctx context.Context, title string, fn func(context.Context) error) error {
	if ph, ok := d.host.(ProgressHost); ok {
		return ph.WithProgress(ctx, title, fn)
	}
	return fn(ctx)
}

func (d *Dispatcher) fail(logger *slog.Logger, result *Result, err error) *Result {
	logger.Error("action_failed", "error", err)
	d.host.ShowError("Error: " + err.Error())
	result.Outcome = OutcomeFailed
	result.Err = err
	return result
}
