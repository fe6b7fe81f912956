package services

import "github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"

// Default prompt templates, used when no PromptStore is configured or a
// named prompt is missing. The file-based prompt store materializes the
// same defaults for user editing.

const defaultSystemPrompt = `You are a bookmark organization expert, skilled at classifying and structuring information. Return only JSON, with no surrounding explanation.`

const defaultStructurePrompt = `You are a professional information architect. There are %d browser bookmarks to organize.

Here is a summary of every bookmark (title + domain):
%s

Complete the following tasks:

1. Analyze the topic distribution
   - Identify the main categories (aim for 5-8 top-level categories)
   - Each category should have a clear theme

2. Build a two-level hierarchy
   - Top level: main categories (e.g. Work, Learning, Lifestyle, Entertainment)
   - Second level: concrete subcategories (3-6 per category)
   - IMPORTANT: every subcategory must list at least 5 keywords for exact matching

3. Estimate the distribution
   - Estimate the bookmark count under each category

4. Return JSON in this shape:
{
  "categories": [
    {
      "name": "Work & Study",
      "description": "Programming, technology and career development",
      "subcategories": [
        {
          "name": "Frontend",
          "keywords": ["React", "Vue", "JavaScript", "CSS", "HTML", "TypeScript", "frontend", "UI"],
          "estimated_count": 45
        }
      ],
      "total_estimated": 158
    }
  ],
  "total_bookmarks": %d,
  "recommended_batch_size": 35,
  "notes": "additional suggestions"
}

Requirements:
- Category names must be short and clear
- Avoid vague catch-all categories such as "Other" or "Misc"
- Every subcategory needs at least 5 keywords covering likely titles and domains
- Subcategory estimates should sum close to total_estimated`

const defaultBatchClassifyPrompt = `Global classification tree:
%s

Current batch: number %d
Expected theme: %s
Bookmark count: %d

Bookmarks:
%s

Tasks:
1. Assign every bookmark to a leaf of the global tree (category > subcategory)
2. If a title is not descriptive, provide an improved title
3. Flag duplicate bookmark pairs
4. Every bookmark MUST receive an assignment; never leave one unclassified
5. When confidence is below 0.5, pick the most plausible leaf and lower the confidence value instead of omitting the bookmark

Return JSON in this shape:
{
  "classifications": [
    {
      "bookmark_id": "123",
      "original_title": "GitHub",
      "suggested_title": "GitHub - code hosting",
      "category": "Work & Study",
      "subcategory": "Tools",
      "confidence": 0.95
    }
  ],
  "duplicates": [
    {"id1": "123", "id2": "456", "reason": "same URL"}
  ]
}

Requirements:
- Follow the global tree strictly
- Return only JSON, with no uncertain_classifications field`

const defaultOptimizePrompt = `After batched organization the results are:

Global classification tree:
%s

Per-folder summary:
%s

Review and optimize:

1. Structure
   - Are any categories too fine-grained (fewer than 5 bookmarks) and worth merging?
   - Are any categories too coarse (more than 50 bookmarks) and worth splitting?

2. Consistency
   - Are the categories consistent across batches?

Return only the changes needed:
{
  "optimizations": [
    {
      "type": "merge",
      "action": "explanation",
      "target": ["Category A", "Category B"]
    }
  ]
}

If the result is already good, return an empty optimizations array.

Return only JSON.`

const defaultSinglePassPrompt = `You are a professional bookmark organizer. There are %d bookmarks to classify.

Classification rules:
- Prefer the existing categories below; do not invent many new folders
- Bookmarks from the same site belong together
- The site field (domain) is an important signal

Categories, highest priority first: Development, Learning, Work, Entertainment, Lifestyle, News, Social, Design, Finance, Other.

Title rules:
- Keep the core meaning of the original title
- Simplify or clarify where helpful

Return JSON in this shape:
{
  "folders": [
    {
      "name": "category name",
      "bookmarks": [
        {"id": "original id", "title": "original title", "newTitle": "improved title (optional)"}
      ]
    }
  ],
  "unclassified": [
    {"id": "original id", "title": "original title", "reason": "why it cannot be classified"}
  ],
  "duplicates": ["duplicate id"]
}

Hard requirements:
- At least %d bookmarks must be classified
- The "Other" folder may hold at most %d bookmarks
- Return only JSON, no explanation
- Before returning, verify: folder bookmark count + unclassified count equals the input count, and every bookmark has an id and title

%s`

// DefaultPrompts returns the embedded default templates keyed by the
// well-known prompt names.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptSystem:        defaultSystemPrompt,
		driven.PromptStructurePlan: defaultStructurePrompt,
		driven.PromptBatchClassify: defaultBatchClassifyPrompt,
		driven.PromptOptimize:      defaultOptimizePrompt,
		driven.PromptSinglePass:    defaultSinglePassPrompt,
	}
}

// loadPrompt loads a prompt from the store, falling back to the default
// if the store is nil or the prompt is missing.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}
