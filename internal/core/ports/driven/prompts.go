package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptClassify asks for a JSON description of a document.
	// The template carries a single {} placeholder for the document text.
	PromptClassify = "classify"
)

// PromptPlaceholder marks where the document text is substituted.
const PromptPlaceholder = "{}"
