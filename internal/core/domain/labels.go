package domain

// Label defaults used by the merge and single-pass logic. All of these
// are data, not behaviour: the config store can override each one so
// deployments with different taxonomies stay supported.

const (
	// FallbackCategory is assigned when the classification tree is
	// empty and a bookmark has nowhere better to go.
	FallbackCategory = "To sort"

	// GeneralSubcategory is the catch-all leaf label. Entries
	// classified under it attach directly to their category folder
	// instead of creating a child.
	GeneralSubcategory = "General"

	// OtherFolderName receives bookmarks left unplaced after a plan
	// has been applied.
	OtherFolderName = "Other"
)

// DefaultSentinelFolders are placeholder names dropped from the final
// plan: they exist only as classification fallbacks.
func DefaultSentinelFolders() []string {
	return []string{"To sort", "Uncategorized", "Unclassified", "Other", "Misc", "General"}
}

// DefaultCategoryPriority is the fixed top-level sort order. Folders
// named here sort first, in this order; the rest sort alphabetically
// after them.
func DefaultCategoryPriority() []string {
	return []string{
		"Work & Study",
		"Development",
		"Learning",
		"Design",
		"Entertainment",
		"Lifestyle",
		"News",
		"Social",
		"Finance",
		"Other",
	}
}

// DefaultSubcategoryKeywords is the keyword table the single-pass
// organizer uses to subdivide oversized folders. Keys are subfolder
// names; values match case-insensitively against bookmark titles.
func DefaultSubcategoryKeywords() map[string][]string {
	return map[string][]string{
		"Frontend":  {"html", "css", "javascript", "react", "vue", "angular", "frontend", "ui"},
		"Backend":   {"node", "python", "java", "go", "rust", "backend", "api", "server"},
		"AI/ML":     {"ai", "ml", "machine learning", "deep learning", "pytorch", "tensorflow", "llm"},
		"Mobile":    {"ios", "android", "mobile", "flutter", "swift"},
		"Tools":     {"tool", "git", "vscode", "ide", "debug", "docker"},
		"Resources": {"resource", "icon", "font", "image", "asset", "template"},
		"Learning":  {"tutorial", "course", "guide", "learn", "doc", "handbook"},
		"Blogs":     {"blog", "news", "article", "post", "weekly"},
	}
}

// DefaultPreservedFolders are host-store system folders the plan
// applier must never remove when cleaning up a previous organization.
func DefaultPreservedFolders() []string {
	return []string{"Bookmarks Bar", "Other Bookmarks", "Mobile Bookmarks", "Favorites Bar"}
}
