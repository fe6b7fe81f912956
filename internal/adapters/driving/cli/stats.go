package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bookmark library statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open bookmark store: %w", err)
	}
	defer store.Close()

	bookmarks, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list bookmarks: %w", err)
	}
	folders, err := store.Folders(ctx)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}
	loose, err := store.RootBookmarks(ctx)
	if err != nil {
		return fmt.Errorf("list root bookmarks: %w", err)
	}

	fmt.Printf("Bookmarks: %d\n", len(bookmarks))
	fmt.Printf("Folders:   %d\n", len(folders))
	fmt.Printf("At root:   %d\n", len(loose))

	// Count by top-level folder.
	counts := make(map[string]int)
	for _, b := range bookmarks {
		if len(b.Path) == 0 {
			continue
		}
		counts[b.Path[0]]++
	}
	if len(counts) == 0 {
		return nil
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Println("\nTop-level folders:")
	for _, name := range names {
		fmt.Printf("  %-30s %d\n", name, counts[name])
	}
	return nil
}
