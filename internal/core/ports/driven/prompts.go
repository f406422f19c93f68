package driven

import "strings"

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswerSystem constrains answers to the retrieved context.
	// This prompt has no format placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptSummarise is the system prompt for report summaries.
	// This prompt has no format placeholders.
	PromptSummarise = "summarise"

	// PromptSectionTool asks the model to normalise a report section title.
	// The section name replaces SectionPlaceholder.
	PromptSectionTool = "section_tool"
)

// SectionPlaceholder marks where the section name goes in PromptSectionTool.
const SectionPlaceholder = "{section}"

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	SetPromptStore(store PromptStore)
}

// DefaultPrompts holds the built-in text for every well-known prompt.
// Stores fall back to these when no override exists.
var DefaultPrompts = map[string]string{
	PromptAnswerSystem: "Answer only using the provided context. " +
		"If the answer is not in the context, say the information is not available. " +
		"Use the conversation to understand the question, but do not add facts not in the context.",

	PromptSummarise: "Summarize the following medical content briefly.",

	PromptSectionTool: "Collect the report section title for: " + SectionPlaceholder,
}

// LoadPrompt returns the named prompt from store, or the built-in default
// when store is nil or cannot supply it.
func LoadPrompt(store PromptStore, name string) string {
	if store != nil {
		if prompt, err := store.Load(name); err == nil && prompt != "" {
			return prompt
		}
	}
	return DefaultPrompts[name]
}

// SectionPrompt fills template with section. Templates written with a %s
// verb are still accepted. A template with neither placeholder gets the
// section appended on its own line.
func SectionPrompt(template, section string) string {
	switch {
	case strings.Contains(template, SectionPlaceholder):
		return strings.ReplaceAll(template, SectionPlaceholder, section)
	case strings.Contains(template, "%s"):
		return strings.Replace(template, "%s", section, 1)
	default:
		return strings.TrimRight(template, " \n") + "\n\n" + section
	}
}
