// Package ingest parses question files for bulk indexing and watches
// directories for newly dropped files.
//
// Two file formats are supported: the standard format, where each
// question is wrapped in <question>...</question> tags, and the simple
// format, one question per line with # comment lines ignored.
package ingest

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Question is a single parsed question ready for indexing.
type Question struct {
	// Text is the question content.
	Text string

	// Metadata describes where the question came from.
	Metadata map[string]any
}

// questionTagRe matches one tagged question including embedded newlines.
var questionTagRe = regexp.MustCompile(`(?s)<question>(.*?)</question>`)

// ParseFile reads a question file and returns its questions. The format
// is detected by the presence of <question> tags.
func ParseFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}

	content := string(data)
	if strings.Contains(content, "<question>") {
		return parseStandard(content, path), nil
	}
	return parseSimple(content, path), nil
}

// parseStandard extracts questions wrapped in <question> tags.
func parseStandard(content, source string) []Question {
	matches := questionTagRe.FindAllStringSubmatch(content, -1)

	questions := make([]Question, 0, len(matches))
	number := 0
	for _, match := range matches {
		text := strings.TrimSpace(match[1])
		if text == "" {
			continue
		}
		number++
		questions = append(questions, Question{
			Text: text,
			Metadata: map[string]any{
				"source":          source,
				"format":          "standard",
				"question_number": number,
			},
		})
	}
	return questions
}

// parseSimple treats each non-empty, non-comment line as one question.
func parseSimple(content, source string) []Question {
	var questions []Question
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, Question{
			Text: line,
			Metadata: map[string]any{
				"source":      source,
				"format":      "simple",
				"line_number": i + 1,
			},
		})
	}
	return questions
}
