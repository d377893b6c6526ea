package services

import (
	"regexp"
	"strings"
)

// Generative models leak markup into their answers: reasoning spans,
// stray HTML-ish tags and "Label: value" colon artifacts. The cleaning
// pipeline removes them in a fixed order so that Clean is idempotent.
var (
	// thinkSpanRe matches a reasoning side-channel span including its
	// content. (?s) lets it cross newlines.
	thinkSpanRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

	// tagRe matches any remaining markup-style tag, keeping inner text.
	tagRe = regexp.MustCompile(`<[^>]+>`)

	// leadingColonRe matches leading colon/space artifacts, including
	// the fullwidth colon models emit after Japanese labels.
	leadingColonRe = regexp.MustCompile(`^[：:\s]+`)
)

// Clean normalises a text fragment from a model response.
// The pipeline, in order: remove reasoning spans entirely, strip
// remaining tags retaining inner text, strip leading colon artifacts,
// collapse all whitespace runs (including newlines) to single spaces,
// trim. Clean(Clean(x)) == Clean(x) for any x.
func Clean(text string) string {
	text = thinkSpanRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, "")
	text = leadingColonRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// CleanConversation cleans dialogue text line by line. Each line is a
// turn, so turn boundaries must survive the whitespace collapse that
// Clean applies; lines that clean to empty are dropped. Reasoning spans
// are removed over the whole block first, since they may cross turns.
func CleanConversation(text string) string {
	text = thinkSpanRe.ReplaceAllString(text, "")
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if c := Clean(line); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return strings.Join(cleaned, "\n")
}
