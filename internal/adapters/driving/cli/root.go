// Package cli provides the cobra command tree for the Tidymark CLI.
// Commands are thin: they wire adapters to core services and render
// results; all organization logic lives in internal/core.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tidymark-labs/tidymark-cli/internal/adapters/driven/config/file"
	"github.com/tidymark-labs/tidymark-cli/internal/adapters/driven/llm"
	"github.com/tidymark-labs/tidymark-cli/internal/adapters/driven/storage/sqlite"
	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
	"github.com/tidymark-labs/tidymark-cli/internal/logger"
)

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "tidymark",
	Short: "Organize bookmarks with LLM-driven classification",
	Long: `Tidymark organizes a bookmark library into a clean folder tree.

It plans a category structure with an LLM, classifies bookmarks in
batches, and applies the resulting plan to the local bookmark store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.tidymark)")
}

// openConfig opens the TOML config store.
func openConfig() (*file.ConfigStore, error) {
	return file.NewConfigStore(configDir)
}

// openPrompts opens the file-based prompt store.
func openPrompts() (*file.PromptStore, error) {
	dir := ""
	if configDir != "" {
		dir = configDir + "/prompts"
	}
	return file.NewPromptStore(dir)
}

// openStore opens the sqlite bookmark library.
func openStore() (*sqlite.Store, error) {
	dir := ""
	if configDir != "" {
		dir = configDir + "/data"
	}
	return sqlite.NewStore(dir)
}

// buildLLM constructs the retrying provider client from config.
func buildLLM(cfg *file.ConfigStore) (driven.LLMService, error) {
	settings := cfg.LLMSettings()
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: run 'tidymark settings set llm.provider <name>' and 'tidymark settings set llm.api_key <key>' first",
			domain.ErrInvalidInput)
	}
	return llm.New(settings)
}
