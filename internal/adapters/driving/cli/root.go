// Package cli implements the quizgen command-line interface using cobra.
// Commands are registered on the shared rootCmd in their init functions;
// services are wired from configuration before any command runs.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quizgen-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quizgen-cli/internal/adapters/driven/embedding/hash"
	ollamaembed "github.com/custodia-labs/quizgen-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/quizgen-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/quizgen-cli/internal/adapters/driven/index/sqlite"
	"github.com/custodia-labs/quizgen-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/quizgen-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/quizgen-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/quizgen-cli/internal/adapters/driven/llm/ratelimit"
	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quizgen-cli/internal/core/services"
	"github.com/custodia-labs/quizgen-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by commands. Wired in initServices; tests swap in mocks.
var (
	generateService driving.GenerateService
	indexService    driving.IndexService
	configStore     driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "quizgen",
	Short: "Generate JLPT N5 listening questions",
	Long: `Quizgen generates JLPT N5 listening comprehension questions with a
local question index for retrieval-augmented prompting. Generated
questions are validated, shuffled and fed back into the index.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// Tests and the version command run without wired services.
		if cmd.Name() == "version" || generateService != nil {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires adapters into core services from configuration.
func initServices() error {
	store, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	configStore = store

	embedder, err := buildEmbedder(store)
	if err != nil {
		return err
	}

	index, err := sqlite.NewQuestionIndex(store.GetString("index.dir"), embedder)
	if err != nil {
		return fmt.Errorf("open question index: %w", err)
	}

	llm, err := buildLLM(store)
	if err != nil {
		return err
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	generator := services.NewGenerateService(index, llm)
	generator.SetPromptStore(prompts)

	generateService = generator
	indexService = services.NewIndexService(index)
	return nil
}

// buildEmbedder constructs the configured embedding service. The hash
// embedder is the default: it needs no model server and keeps the index
// usable out of the box.
func buildEmbedder(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString("embedding.provider")
	switch provider {
	case "", "hash":
		return hash.NewEmbeddingService(cfg.GetInt("embedding.dimensions")), nil
	case "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil
	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.GetString("embedding.api_key"),
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildLLM constructs the configured LLM service, wrapped in a request
// throttle when llm.requests_per_minute is set. With no provider
// configured, generation commands report the model as unavailable.
func buildLLM(cfg driven.ConfigStore) (driven.LLMService, error) {
	var llm driven.LLMService
	var err error

	switch provider := cfg.GetString("llm.provider"); provider {
	case "":
		return nil, nil
	case "ollama":
		llm = ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
	case "openai":
		llm, err = openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  cfg.GetString("llm.api_key"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
	case "anthropic":
		llm, err = anthropic.NewLLMService(anthropic.Config{
			APIKey:  cfg.GetString("llm.api_key"),
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
	if err != nil {
		return nil, err
	}

	if rpm := cfg.GetInt("llm.requests_per_minute"); rpm > 0 {
		llm = ratelimit.NewLLMService(llm, rpm)
	}
	return llm, nil
}
