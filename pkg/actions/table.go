package actions

import (
	"fmt"
	"sort"

	"openai_helper/pkg/ai"
	"openai_helper/pkg/config"
	"openai_helper/pkg/prompt"
)

// Name identifies an action.
type Name string

const (
	Ask       Name = "ask"
	Flowchart Name = "flowchart"
	Improve   Name = "improve"
)

const codeLead = "I have the following code:"

// Spec is one row of the action table.
type Spec struct {
	Name Name
	// Title labels the result panel.
	Title string
	// Progress is shown while the request is in flight.
	Progress string
	// QuestionPrompt is non-empty for actions that need user input.
	QuestionPrompt string
	Template       prompt.Template
	MaxChars       int
	Params         ai.CompletionParameters
}

// NeedsQuestion reports whether the action collects free text first.
func (s Spec) NeedsQuestion() bool {
	return s.QuestionPrompt != ""
}

// Table maps action names to their specs.
type Table map[Name]Spec

// DefaultTable returns the built-in actions.
func DefaultTable() Table {
	return Table{
		Ask: {
			Name:           Ask,
			Title:          "Answer",
			Progress:       "Querying OpenAI...",
			QuestionPrompt: "Enter your question about the code",
			Template: prompt.Template{
				Lead:          codeLead,
				SelectionLead: "I have selected this snippet:",
				Instruction:   "My question: ",
			},
			MaxChars: 20000,
			Params: ai.CompletionParameters{
				Model:           "o3-mini",
				ReasoningEffort: ai.ReasoningEffortMedium,
				MaxOutputTokens: 5000,
				TokenField:      ai.TokenFieldMaxCompletionTokens,
			},
		},
		Flowchart: {
			Name:     Flowchart,
			Title:    "Flowchart",
			Progress: "Generating flowchart...",
			Template: prompt.Template{
				Lead: codeLead,
				Instruction: "Please provide a high-level flowchart that outlines the code structure. " +
					"For each function, describe what it does, how it is called, the order of function calls, " +
					"and how data flows between them. Provide a clear, concise overview without excessive details.",
			},
			MaxChars: 100000,
			Params: ai.CompletionParameters{
				Model:           "o3-mini",
				ReasoningEffort: ai.ReasoningEffortMedium,
				MaxOutputTokens: 5000,
				TokenField:      ai.TokenFieldMaxCompletionTokens,
			},
		},
		Improve: {
			Name:     Improve,
			Title:    "Improvements",
			Progress: "Analyzing code...",
			Template: prompt.Template{
				Lead:          codeLead,
				SelectionLead: "Pay particular attention to this selected snippet:",
				Instruction: "Please identify inefficiencies, mistakes, and possible improvements in this code. " +
					"Order the list from the easiest and safest change to the hardest and riskiest. " +
					"For each item, explain the problem, the suggested change, and why it helps.",
			},
			MaxChars: 250000,
			Params: ai.CompletionParameters{
				Model:           "o3-mini",
				ReasoningEffort: ai.ReasoningEffortHigh,
				MaxOutputTokens: 10000,
				TokenField:      ai.TokenFieldMaxCompletionTokens,
			},
		},
	}
}

// Names returns the action names in sorted order.
func (t Table) Names() []Name {
	names := make([]Name, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// WithOverrides returns a copy of t with config overrides applied.
// Overrides naming unknown actions are an error.
func (t Table) WithOverrides(overrides map[string]config.ActionOverride) (Table, error) {
	out := make(Table, len(t))
	for name, spec := range t {
		out[name] = spec
	}

	for rawName, o := range overrides {
		name := Name(rawName)
		spec, ok := out[name]
		if !ok {
			return nil, &ai.ConfigurationError{Msg: fmt.Sprintf("unknown action in config: %s", rawName)}
		}

		if o.Model != "" {
			spec.Params.Model = o.Model
		}
		if o.ReasoningEffort != "" {
			effort, err := ai.ParseReasoningEffort(o.ReasoningEffort)
			if err != nil {
				return nil, &ai.ConfigurationError{Msg: fmt.Sprintf("actions.%s: %v", rawName, err)}
			}
			spec.Params.ReasoningEffort = effort
		}
		if o.MaxOutputTokens > 0 {
			spec.Params.MaxOutputTokens = o.MaxOutputTokens
		}
		if o.TokenField != "" {
			field, err := ai.ParseTokenField(o.TokenField)
			if err != nil {
				return nil, &ai.ConfigurationError{Msg: fmt.Sprintf("actions.%s: %v", rawName, err)}
			}
			spec.Params.TokenField = field
		}
		if o.MaxChars > 0 {
			spec.MaxChars = o.MaxChars
		}

		out[name] = spec
	}

	return out, nil
}
