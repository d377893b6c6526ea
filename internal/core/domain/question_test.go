package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterIndex(t *testing.T) {
	tests := []struct {
		letter string
		want   int
	}{
		{"A", 0},
		{"B", 1},
		{"C", 2},
		{"D", 3},
		{"E", -1},
		{"a", -1}, // callers normalise case before lookup
		{"", -1},
	}

	for _, tt := range tests {
		t.Run(tt.letter, func(t *testing.T) {
			assert.Equal(t, tt.want, LetterIndex(tt.letter))
		})
	}
}

func TestQuestionRecord_CorrectOption(t *testing.T) {
	rec := QuestionRecord{
		Options:            []string{"赤", "青", "緑", "黄"},
		CorrectAnswerIndex: 2,
	}
	assert.Equal(t, "緑", rec.CorrectOption())

	rec.CorrectAnswerIndex = 7
	assert.Empty(t, rec.CorrectOption())

	rec.CorrectAnswerIndex = -1
	assert.Empty(t, rec.CorrectOption())
}

func TestQuestionRecord_JSONShape(t *testing.T) {
	rec := QuestionRecord{
		Introduction:        "男の人と女の人が話しています。",
		Conversation:        "女：今朝のニュース見た？\n男：ううん、まだ見てないよ。",
		Question:            "二人は何について話していますか？",
		Options:             []string{"天気", "ニュース", "食事", "仕事"},
		CorrectAnswerLetter: "B",
		CorrectAnswerIndex:  1,
		RawResponse:         "{}",
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	// Downstream consumers depend on these exact field names.
	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{
		"introduction", "conversation", "question",
		"options", "correct_answer_letter", "correct_answer_index", "raw_response",
	} {
		assert.Contains(t, fields, key)
	}
}
