package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driven"
)

type stubLLM struct {
	chatCalls     int
	generateCalls int
}

func (s *stubLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	s.generateCalls++
	return "generated", nil
}

func (s *stubLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	s.chatCalls++
	return "chatted", nil
}

func (s *stubLLM) ModelName() string            { return "stub" }
func (s *stubLLM) Ping(_ context.Context) error { return nil }
func (s *stubLLM) Close() error                 { return nil }

func TestChat_Delegates(t *testing.T) {
	inner := &stubLLM{}
	service := NewLLMService(inner, 6000)

	result, err := service.Chat(context.Background(), nil, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "chatted", result)
	assert.Equal(t, 1, inner.chatCalls)
}

func TestGenerate_Delegates(t *testing.T) {
	inner := &stubLLM{}
	service := NewLLMService(inner, 6000)

	result, err := service.Generate(context.Background(), "p", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "generated", result)
	assert.Equal(t, 1, inner.generateCalls)
}

func TestChat_ThrottlesSecondRequest(t *testing.T) {
	inner := &stubLLM{}
	// 60/min = one token per second, burst of one.
	service := NewLLMService(inner, 60)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := service.Chat(ctx, nil, driven.ChatOptions{})
	require.NoError(t, err)

	// No token left; the second call must block past the deadline.
	_, err = service.Chat(ctx, nil, driven.ChatOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, inner.chatCalls)
}

func TestDefaults(t *testing.T) {
	inner := &stubLLM{}
	service := NewLLMService(inner, 0)

	assert.Equal(t, "stub", service.ModelName())
	assert.NoError(t, service.Ping(context.Background()))
	assert.NoError(t, service.Close())
}
