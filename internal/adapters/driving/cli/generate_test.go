package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
)

func TestGenerateCmd_Use(t *testing.T) {
	assert.Equal(t, "generate", generateCmd.Use)
}

func TestGenerateCmd_Short(t *testing.T) {
	assert.Equal(t, "Generate a listening question", generateCmd.Short)
}

func TestGenerateCmd_HasTypeFlag(t *testing.T) {
	flag := generateCmd.Flags().Lookup("type")
	require.NotNil(t, flag, "type flag should exist")
	assert.Equal(t, "t", flag.Shorthand)
	assert.Equal(t, "Dialogue", flag.DefValue)
}

func TestGenerateCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"generate", "--topic", "directions"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "銀行はどこにありますか。")
	assert.Contains(t, out, "A. 角の右")
	assert.Contains(t, out, "Answer: A")
}

func TestGenerateCmd_AnswerFollowsShuffledIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	gen := generateService.(*mockGenerateService)
	// The correct option moved to the last slot; letter B is stale.
	gen.record.Options = []string{"駅の中", "学校の前", "店の隣", "角の右"}
	gen.record.CorrectAnswerLetter = "B"
	gen.record.CorrectAnswerIndex = 3

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"generate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "D. 角の右")
	assert.Contains(t, out, "Answer: D")
	assert.NotContains(t, out, "Answer: B")
}

func TestGenerateCmd_UsesCommandContext(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	gen := generateService.(*mockGenerateService)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "wired")

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"generate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.ExecuteContext(ctx))
	require.NotNil(t, gen.lastCtx)
	assert.Equal(t, "wired", gen.lastCtx.Value(ctxKey{}))
}

func TestGenerateCmd_PassesTypeAndTopic(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	gen := generateService.(*mockGenerateService)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"generate", "--type", "Announcement", "--topic", "train stations"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "Announcement", gen.lastType)
	assert.Equal(t, "train stations", gen.lastTopic)
}

func TestGenerateCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"generate", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		generateJSON = false
	}()

	require.NoError(t, rootCmd.Execute())

	var record domain.QuestionRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "銀行はどこにありますか。", record.Question)
	assert.Len(t, record.Options, 4)
	// The serialisation boundary carries both fields untranslated.
	assert.Equal(t, "C", record.CorrectAnswerLetter)
	assert.Equal(t, 0, record.CorrectAnswerIndex)
}

func TestGenerateCmd_ReportsGenerationFailure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	generateService = failingGenerateService(domain.GenerationReasonSchemaViolation)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"generate"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema_violation")

	var genErr *domain.GenerationError
	assert.ErrorAs(t, err, &genErr)
}
