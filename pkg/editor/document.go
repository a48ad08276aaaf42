// Package editor loads the document and selection an action runs against.
package editor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"openai_helper/pkg/prompt"
)

// StdinPath names standard input as the document source.
const StdinPath = "-"

// Document is an open file plus the selection captured with it.
type Document struct {
	// Path is the source path, or StdinPath.
	Path   string
	Source prompt.SourceContext
}

// Name returns a short label for panel titles.
func (d Document) Name() string {
	if d.Path == "" || d.Path == StdinPath {
		return "stdin"
	}
	return filepath.Base(d.Path)
}

// Dir returns the directory containing the document, or "" for stdin.
func (d Document) Dir() string {
	if d.Path == "" || d.Path == StdinPath {
		return ""
	}
	abs, err := filepath.Abs(d.Path)
	if err != nil {
		return filepath.Dir(d.Path)
	}
	return filepath.Dir(abs)
}

// Load reads the document at path (StdinPath reads stdin) and resolves
// selection against it. An empty selection captures none.
func Load(path, selection string, stdin io.Reader) (Document, error) {
	text, err := readSource(path, stdin)
	if err != nil {
		return Document{}, err
	}

	selected, err := resolveSelection(text, selection)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Path: path,
		Source: prompt.SourceContext{
			FullText:     text,
			SelectedText: selected,
		},
	}, nil
}

func readSource(path string, stdin io.Reader) (string, error) {
	if path == StdinPath {
		if stdin == nil {
			return "", fmt.Errorf("read stdin: no input")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

// resolveSelection understands "START:END" (1-based inclusive line range)
// and "@PATH" (selection text read from a file).
func resolveSelection(text, selection string) (string, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return "", nil
	}

	if strings.HasPrefix(selection, "@") {
		data, err := os.ReadFile(strings.TrimPrefix(selection, "@"))
		if err != nil {
			return "", fmt.Errorf("read selection: %w", err)
		}
		return string(data), nil
	}

	start, end, err := parseLineRange(selection)
	if err != nil {
		return "", err
	}
	return SliceLines(text, start, end), nil
}

func parseLineRange(s string) (int, int, error) {
	startRaw, endRaw, ok := strings.Cut(s, ":")
	if !ok {
		endRaw = startRaw
	}

	start, err := strconv.Atoi(strings.TrimSpace(startRaw))
	if err != nil || start < 1 {
		return 0, 0, fmt.Errorf("invalid selection %q: expected START:END or @PATH", s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endRaw))
	if err != nil || end < start {
		return 0, 0, fmt.Errorf("invalid selection %q: expected START:END or @PATH", s)
	}
	return start, end, nil
}

// SliceLines returns lines start..end (1-based, inclusive) of text. A range
// past the last line is clamped.
func SliceLines(text string, start, end int) string {
	if start < 1 || end < start {
		return ""
	}
	lines := strings.SplitAfter(text, "\n")
	if start > len(lines) {
		return ""
	}
	if end > len(lines) {
		end = len(lines)
	}
	return strings.TrimSuffix(strings.Join(lines[start-1:end], ""), "\n")
}
