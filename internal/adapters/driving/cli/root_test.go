package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "quizgen", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag, "verbose flag should exist")
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["generate"], "generate command should be registered")
	assert.True(t, names["index"], "index command should be registered")
	assert.True(t, names["settings"], "settings command should be registered")
	assert.True(t, names["version"], "version command should be registered")
}

func TestBuildEmbedder_DefaultsToHash(t *testing.T) {
	cfg := newMockConfigStore()

	embedder, err := buildEmbedder(cfg)
	require.NoError(t, err)
	assert.Equal(t, "hash-ngram", embedder.ModelName())
}

func TestBuildEmbedder_UnknownProvider(t *testing.T) {
	cfg := newMockConfigStore()
	require.NoError(t, cfg.Set("embedding.provider", "chroma"))

	_, err := buildEmbedder(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chroma")
}

func TestBuildLLM_NoneConfigured(t *testing.T) {
	cfg := newMockConfigStore()

	llm, err := buildLLM(cfg)
	require.NoError(t, err)
	assert.Nil(t, llm)
}

func TestBuildLLM_Ollama(t *testing.T) {
	cfg := newMockConfigStore()
	require.NoError(t, cfg.Set("llm.provider", "ollama"))
	require.NoError(t, cfg.Set("llm.model", "llama3.2"))

	llm, err := buildLLM(cfg)
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", llm.ModelName())
}

func TestBuildLLM_ThrottledWhenConfigured(t *testing.T) {
	cfg := newMockConfigStore()
	require.NoError(t, cfg.Set("llm.provider", "ollama"))
	require.NoError(t, cfg.Set("llm.requests_per_minute", 30))

	llm, err := buildLLM(cfg)
	require.NoError(t, err)
	// The throttle wrapper forwards the inner model name.
	assert.NotEmpty(t, llm.ModelName())
}

func TestBuildLLM_HostedProviderNeedsKey(t *testing.T) {
	cfg := newMockConfigStore()
	require.NoError(t, cfg.Set("llm.provider", "openai"))

	_, err := buildLLM(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"frobnicate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	assert.Error(t, rootCmd.Execute())
}
