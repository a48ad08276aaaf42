package prompt

import (
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended when a prompt is cut for length.
const TruncationMarker = "\n\n...[truncated]"

// SourceContext is the editor state captured for a single action invocation.
type SourceContext struct {
	FullText     string
	SelectedText string
}

// HasSelection reports whether a non-empty selection was captured.
func (s SourceContext) HasSelection() bool {
	return s.SelectedText != ""
}

// Template holds the fixed text surrounding the source in a prompt.
type Template struct {
	// Lead introduces the full document text.
	Lead string
	// SelectionLead introduces the selected snippet. Empty leaves the selection out.
	SelectionLead string
	// Instruction closes the prompt. A user question, if any, is appended to it.
	Instruction string
}

// Build assembles the prompt text. The document comes first and the
// instruction (or question) last.
func Build(t Template, src SourceContext, question string) string {
	var sb strings.Builder
	sb.Grow(len(t.Lead) + len(src.FullText) + len(src.SelectedText) + len(t.Instruction) + len(question) + 16)

	sb.WriteString(t.Lead)
	sb.WriteString("\n\n")
	sb.WriteString(src.FullText)
	sb.WriteString("\n\n")

	if t.SelectionLead != "" && src.HasSelection() {
		sb.WriteString(t.SelectionLead)
		sb.WriteString("\n\n")
		sb.WriteString(src.SelectedText)
		sb.WriteString("\n\n")
	}

	sb.WriteString(t.Instruction)
	sb.WriteString(question)

	return sb.String()
}

// Limit keeps the first maxChars characters of text and appends
// TruncationMarker when text is longer. It does not respect line or token
// boundaries. A non-positive maxChars disables the limit.
func Limit(text string, maxChars int) (string, bool) {
	// Byte length bounds the rune count from above.
	if maxChars <= 0 || len(text) <= maxChars {
		return text, false
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return text, false
	}

	count := 0
	for i := range text {
		if count == maxChars {
			return text[:i] + TruncationMarker, true
		}
		count++
	}

	return text, false
}

// Bounded builds the prompt and applies Limit in one step.
func Bounded(t Template, src SourceContext, question string, maxChars int) (string, bool) {
	return Limit(Build(t, src, question), maxChars)
}
