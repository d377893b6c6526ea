package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change configuration stored in the quizgen config file.

Common keys:
  llm.provider                ollama, openai or anthropic
  llm.model                   model name for the provider
  llm.api_key                 API key for hosted providers
  llm.requests_per_minute     throttle for hosted providers
  embedding.provider          hash (default), ollama or openai
  embedding.model             embedding model name
  index.dir                   question index directory`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", configStore.Path())
	cmd.Println()

	keys := []string{
		"llm.provider", "llm.model", "llm.base_url", "llm.api_key", "llm.requests_per_minute",
		"embedding.provider", "embedding.model", "embedding.base_url", "embedding.api_key", "embedding.dimensions",
		"index.dir",
	}
	sort.Strings(keys)

	for _, key := range keys {
		val, ok := configStore.Get(key)
		if !ok {
			continue
		}
		if strings.HasSuffix(key, "api_key") {
			val = maskAPIKey(fmt.Sprintf("%v", val))
		}
		cmd.Printf("  %s = %v\n", key, val)
	}

	if configStore.GetString("llm.provider") == "" {
		cmd.Println()
		cmd.Println("No LLM provider configured. Run 'quizgen settings set llm.provider ollama' to begin.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, value := args[0], args[1]
	if err := configStore.Set(key, coerceValue(value)); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	display := value
	if strings.HasSuffix(key, "api_key") {
		display = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, display)
	return nil
}

// coerceValue parses numeric and boolean strings so typed getters like
// GetInt see the type they expect.
func coerceValue(value string) any {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
