package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. Useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the pipeline.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptStructurePlan asks for the global classification tree.
	// Expects %d (bookmark count), %s (summary JSON) and %d (count
	// again) placeholders.
	PromptStructurePlan = "structure_plan"

	// PromptBatchClassify assigns one batch to tree leaves.
	// Expects %s (tree JSON), %d (batch index), %s (theme),
	// %d (bookmark count) and %s (bookmark JSON) placeholders.
	PromptBatchClassify = "batch_classify"

	// PromptOptimize reviews the merged tree for structural issues.
	// Expects %s (tree JSON) and %s (folder summary JSON) placeholders.
	PromptOptimize = "optimize"

	// PromptSinglePass is the one-shot classify-and-organize prompt.
	// Expects %d (count), %d (85% floor), %d (15% cap) and
	// %s (bookmark JSON) placeholders.
	PromptSinglePass = "single_pass"

	// PromptSystem is the system prompt sent with every call.
	// No placeholders.
	PromptSystem = "system"
)
