package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driven"
)

// DefaultTopic is used when the caller supplies no topic.
const DefaultTopic = "everyday situations"

// Ensure PromptBuilder can take customised prompts.
var _ driven.PromptStoreAware = (*PromptBuilder)(nil)

// defaultQuestionSystemPrompt is the fallback system prompt when no
// PromptStore is configured.
const defaultQuestionSystemPrompt = `You are a helpful Japanese language teaching assistant for JLPT N5 level.
You create listening comprehension questions as structured data and never add commentary.`

// defaultQuestionPrompt is the fallback user prompt template when no
// PromptStore is configured. Placeholders: question type, topic,
// retrieved context.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultQuestionPrompt = `Create one JLPT N5 %s question in Japanese about: %s

Here are similar questions for style and difficulty reference:
%s

Respond with EXACTLY ONE <question> block and nothing else. The block must
contain a single JSON object with these keys:
  "introduction": 1-2 lines of situational context in Japanese
  "conversation": 2-4 lines of natural Japanese dialogue, one turn per line
  "question": one question in Japanese
  "options": exactly 4 distinct answer strings in Japanese
  "correct_answer_letter": "A", "B", "C" or "D"

Format:
<question>
{"introduction": "...", "conversation": "...", "question": "...", "options": ["...", "...", "...", "..."], "correct_answer_letter": "A"}
</question>

Your response must start with <question> and end with </question>.
Do not explain your answer. Do not write anything outside the block.`

// PromptBuilder composes generation requests from a topic, a question
// type and retrieved context strings. The template forbids prose outside
// the structured payload; the parser still has to cope with responses
// that ignore it.
type PromptBuilder struct {
	promptStore driven.PromptStore
}

// NewPromptBuilder creates a prompt builder using embedded default
// templates.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the builder uses hardcoded default prompts.
func (b *PromptBuilder) SetPromptStore(store driven.PromptStore) {
	b.promptStore = store
}

// System returns the system prompt for question generation.
func (b *PromptBuilder) System() string {
	return b.loadPrompt(driven.PromptQuestionSystem, defaultQuestionSystemPrompt)
}

// Build returns the user prompt for the given question type, topic and
// context strings. An empty topic falls back to DefaultTopic.
func (b *PromptBuilder) Build(questionType, topic string, contextTexts []string) string {
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}

	contextBlock := "No similar questions found."
	if len(contextTexts) > 0 {
		contextBlock = strings.Join(contextTexts, "\n")
	}

	template := b.loadPrompt(driven.PromptQuestion, defaultQuestionPrompt)
	return fmt.Sprintf(template, questionType, topic, contextBlock)
}

// loadPrompt loads a prompt from the store, falling back to the default
// if unavailable.
func (b *PromptBuilder) loadPrompt(name, fallback string) string {
	if b.promptStore == nil {
		return fallback
	}
	prompt, err := b.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
