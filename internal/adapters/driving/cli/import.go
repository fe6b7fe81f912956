package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidymark-labs/tidymark-cli/internal/adapters/driven/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <bookmarks-file>",
	Short: "Import a Chrome bookmarks export into the library",
	Long: `Import reads a Chrome/Chromium "Bookmarks" JSON export and loads its
folders and bookmarks into the local library. Root containers (bookmark
bar, other, synced) are flattened to the library root.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open bookmark store: %w", err)
	}
	defer store.Close()

	stats, err := importer.ImportChromeFile(cmd.Context(), args[0], store)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Printf("Imported %d bookmarks in %d folders", stats.Bookmarks, stats.Folders)
	if stats.Skipped > 0 {
		fmt.Printf(" (%d entries skipped)", stats.Skipped)
	}
	fmt.Println()
	return nil
}
