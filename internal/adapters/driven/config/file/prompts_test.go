package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driven"
)

func TestPromptStore_LoadsDefaults(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	system, err := store.Load(driven.PromptQuestionSystem)
	require.NoError(t, err)
	assert.Contains(t, system, "JLPT N5")

	question, err := store.Load(driven.PromptQuestion)
	require.NoError(t, err)
	assert.Contains(t, question, "<question>")
}

func TestPromptStore_CreatesFilesLazily(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Constructor must not touch the filesystem.
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	_, err = store.Load(driven.PromptQuestion)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "question.txt"))
	assert.FileExists(t, filepath.Join(dir, "question_system.txt"))
	assert.FileExists(t, filepath.Join(dir, "README.md"))
}

func TestPromptStore_UserEditsWin(t *testing.T) {
	dir := t.TempDir()
	custom := "Custom question prompt %s %s %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "question.txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptQuestion)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	assert.Error(t, err)
}

func TestPromptStore_Reload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	first, err := store.Load(driven.PromptQuestionSystem)
	require.NoError(t, err)

	// Change the file on disk; the cached value survives until Reload.
	edited := "Edited system prompt"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "question_system.txt"), []byte(edited), 0600))

	cached, err := store.Load(driven.PromptQuestionSystem)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()

	fresh, err := store.Load(driven.PromptQuestionSystem)
	require.NoError(t, err)
	assert.Equal(t, edited, fresh)
}
