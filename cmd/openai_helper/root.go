package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"openai_helper/pkg/actions"
	"openai_helper/pkg/ai"
	_ "openai_helper/pkg/ai/providers"
	"openai_helper/pkg/config"
	"openai_helper/pkg/editor"
	"openai_helper/pkg/host"
	"openai_helper/pkg/logging"

	"github.com/spf13/cobra"
)

// errReported marks a failure the host already showed to the user.
var errReported = errors.New("action failed")

type globalFlags struct {
	configPath string
	copy       bool
	width      int
}

type actionFlags struct {
	file      string
	selection string
	question  string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "openai_helper",
		Short:         "Ask questions about code, sketch flowcharts, and suggest improvements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default ~/.openai_helper/config.json)")
	root.PersistentFlags().BoolVar(&g.copy, "copy", false, "copy the result to the clipboard via OSC 52")
	root.PersistentFlags().IntVar(&g.width, "width", 0, "result panel width (default: terminal width)")

	table := actions.DefaultTable()
	for _, name := range table.Names() {
		root.AddCommand(newActionCmd(table[name], g))
	}
	root.AddCommand(newVersionCmd())

	return root
}

func newActionCmd(spec actions.Spec, g *globalFlags) *cobra.Command {
	f := &actionFlags{}

	cmd := &cobra.Command{
		Use:   string(spec.Name),
		Short: actionSummary(spec.Name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, spec.Name, g, f)
		},
	}

	cmd.Flags().StringVarP(&f.file, "file", "f", "", `document to analyze ("-" reads stdin)`)
	cmd.Flags().StringVarP(&f.selection, "selection", "s", "", "selected lines START:END, or @PATH to read the selection from a file")
	if spec.NeedsQuestion() {
		cmd.Flags().StringVarP(&f.question, "question", "q", "", "question to ask (prompts interactively when omitted)")
	}
	return cmd
}

func actionSummary(name actions.Name) string {
	switch name {
	case actions.Ask:
		return "Ask a question about the code"
	case actions.Flowchart:
		return "Describe the code structure as a high-level flowchart"
	case actions.Improve:
		return "List inefficiencies, mistakes, and possible improvements"
	default:
		return string(name)
	}
}

func runAction(cmd *cobra.Command, name actions.Name, g *globalFlags, f *actionFlags) error {
	configPath := g.configPath
	if configPath == "" {
		configPath = config.GetConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if _, err := logging.Init(cfg); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging disabled: %v\n", err)
	}
	slog.Info("startup",
		"action", string(name),
		"provider", cfg.Provider,
		"config_path", configPath,
	)

	table, err := actions.DefaultTable().WithOverrides(cfg.Actions)
	if err != nil {
		return err
	}

	provider, err := ai.GetProviderFromConfig(cfg)
	if err != nil {
		return err
	}

	opts := host.Options{
		Interactive:  host.IsTerminal(cmd.InOrStdin()) && f.file != editor.StdinPath,
		ShowProgress: host.IsTerminal(cmd.ErrOrStderr()),
		Copy:         g.copy,
		Width:        g.width,
		Stdin:        cmd.InOrStdin(),
		Stdout:       cmd.OutOrStdout(),
		Stderr:       cmd.ErrOrStderr(),
	}
	if cmd.Flags().Changed("question") {
		q := f.question
		opts.Question = &q
	}

	if strings.TrimSpace(f.file) != "" {
		doc, err := editor.Load(f.file, f.selection, cmd.InOrStdin())
		if err != nil {
			return err
		}
		slog.Debug("document_loaded",
			"name", doc.Name(),
			"chars", len(doc.Source.FullText),
			"has_selection", doc.Source.HasSelection(),
		)
		opts.Document = &doc
	}

	result := actions.NewDispatcher(provider, table, host.New(opts)).Dispatch(cmd.Context(), name)
	if result.Outcome == actions.OutcomeFailed {
		return errReported
	}
	return nil
}
