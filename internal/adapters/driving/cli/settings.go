package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change configuration",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openConfig()
		if err != nil {
			return err
		}

		keys := []string{
			"llm.provider", "llm.api_key", "llm.endpoint", "llm.model",
			"pipeline.batch_size", "pipeline.three_stage", "pipeline.optimize",
		}
		for _, key := range keys {
			val, ok := cfg.Get(key)
			if !ok {
				continue
			}
			if key == "llm.api_key" {
				val = redact(fmt.Sprint(val))
			}
			fmt.Printf("%s = %v\n", key, val)
		}
		fmt.Println("\nconfig file:", cfg.Path())
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openConfig()
		if err != nil {
			return err
		}
		val, ok := cfg.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: key %q is not set", domain.ErrNotFound, args[0])
		}
		fmt.Println(val)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set stores one configuration value. Keys use dot notation, e.g.:

  tidymark settings set llm.provider claude
  tidymark settings set llm.api_key sk-...
  tidymark settings set pipeline.batch_size 35

Booleans and integers are detected from the value text.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openConfig()
		if err != nil {
			return err
		}

		key, raw := args[0], args[1]
		if key == "llm.provider" && !domain.Provider(raw).IsValid() {
			return fmt.Errorf("%w: %q (known: %s)", domain.ErrUnknownProvider, raw, strings.Join(providerNames(), ", "))
		}

		if err := cfg.Set(key, parseValue(raw)); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("%s = %s\n", key, raw)
		return nil
	},
}

var settingsProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported LLM providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range providerNames() {
			p := domain.Provider(name)
			fmt.Printf("%-11s %-22s default model: %s\n", name, p.Description(), p.DefaultModel())
		}
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsListCmd, settingsGetCmd, settingsSetCmd, settingsProvidersCmd)
	rootCmd.AddCommand(settingsCmd)
}

// parseValue detects bools and ints so TOML keeps native types.
func parseValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}

// redact hides all but the tail of a secret.
func redact(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func providerNames() []string {
	names := []string{
		domain.ProviderOpenAI.String(),
		domain.ProviderClaude.String(),
		domain.ProviderQwen.String(),
		domain.ProviderKimi.String(),
		domain.ProviderChatGLM.String(),
		domain.ProviderDeepSeek.String(),
		domain.ProviderOpenRouter.String(),
	}
	sort.Strings(names)
	return names
}
