package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsShowCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, configStore.Set("llm.provider", "ollama"))
	require.NoError(t, configStore.Set("llm.api_key", "sk-1234567890abcdef"))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "llm.provider = ollama")
	// API keys are masked, never echoed in full.
	assert.NotContains(t, out, "sk-1234567890abcdef")
	assert.Contains(t, out, "sk-1...cdef")
}

func TestSettingsShowCmd_HintsWhenUnconfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "No LLM provider configured")
}

func TestSettingsSetCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set", "llm.provider", "anthropic"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Set llm.provider = anthropic")
	assert.Equal(t, "anthropic", configStore.GetString("llm.provider"))
}

func TestSettingsSetCmd_CoercesNumbers(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"settings", "set", "llm.requests_per_minute", "30"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, 30, configStore.GetInt("llm.requests_per_minute"))
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, int64(42), coerceValue("42"))
	assert.Equal(t, 0.5, coerceValue("0.5"))
	assert.Equal(t, true, coerceValue("true"))
	assert.Equal(t, "ollama", coerceValue("ollama"))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-1...cdef", maskAPIKey("sk-1234567890abcdef"))
}
