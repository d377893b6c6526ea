package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driving"
)

// mockGenerateService returns a canned question record.
type mockGenerateService struct {
	record       *domain.QuestionRecord
	err          error
	lastCtx      context.Context
	lastType     string
	lastTopic    string
	generateCall int
}

var _ driving.GenerateService = (*mockGenerateService)(nil)

func (m *mockGenerateService) Generate(ctx context.Context, questionType, topic string) (*domain.QuestionRecord, error) {
	m.generateCall++
	m.lastCtx = ctx
	m.lastType = questionType
	m.lastTopic = topic
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

// mockIndexService records calls and serves canned data.
type mockIndexService struct {
	items     []domain.IndexedItem
	results   []domain.RetrievalResult
	addedText string
	resetCall int
}

var _ driving.IndexService = (*mockIndexService)(nil)

func (m *mockIndexService) Add(_ context.Context, text string, _ map[string]any) (string, error) {
	m.addedText = text
	return "q-mock", nil
}

func (m *mockIndexService) AddFile(_ context.Context, path string, _ map[string]any) ([]string, error) {
	return []string{"q-1", "q-2"}, nil
}

func (m *mockIndexService) Search(_ context.Context, _ string, _ int) ([]domain.RetrievalResult, error) {
	return m.results, nil
}

func (m *mockIndexService) List(_ context.Context) ([]domain.IndexedItem, error) {
	return m.items, nil
}

func (m *mockIndexService) Reset(_ context.Context) error {
	m.resetCall++
	return nil
}

// mockConfigStore is an in-memory ConfigStore.
type mockConfigStore struct {
	data map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if val, ok := m.data[key].(string); ok {
		return val
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	val, _ := m.data[key].(bool)
	return val
}

func (m *mockConfigStore) GetFloat64(key string) float64 {
	switch v := m.data[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return "/tmp/quizgen-test/config.toml"
}

// sampleRecord is a well-formed question for command output tests. The
// letter and index deliberately disagree: the letter names the
// pre-shuffle slot, the index points into the shuffled options.
func sampleRecord() *domain.QuestionRecord {
	return &domain.QuestionRecord{
		ID:                  "test-id",
		Introduction:        "駅で男の人と女の人が話しています。",
		Conversation:        "男：すみません、銀行はどこですか。\n女：あそこの角を右に曲がってください。",
		Question:            "銀行はどこにありますか。",
		Options:             []string{"角の右", "駅の中", "学校の前", "店の隣"},
		CorrectAnswerLetter: "C",
		CorrectAnswerIndex:  0,
		RawResponse:         "<question>{}</question>",
	}
}

// resetCommandContexts clears contexts cached on the shared command
// tree by earlier Execute calls, so ExecuteContext propagates again.
func resetCommandContexts(cmd *cobra.Command) {
	cmd.SetContext(nil)
	for _, sub := range cmd.Commands() {
		resetCommandContexts(sub)
	}
}

// setupTestServices installs mock services and returns a cleanup func.
func setupTestServices() func() {
	gen := &mockGenerateService{record: sampleRecord()}
	idx := &mockIndexService{}
	cfg := newMockConfigStore()

	resetCommandContexts(rootCmd)

	generateService = gen
	indexService = idx
	configStore = cfg

	return func() {
		generateService = nil
		indexService = nil
		configStore = nil
	}
}

// failingGenerateService builds a service returning a GenerationError.
func failingGenerateService(reason domain.GenerationReason) *mockGenerateService {
	return &mockGenerateService{
		err: domain.NewGenerationError(reason, "raw", fmt.Errorf("boom")),
	}
}
