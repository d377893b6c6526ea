package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
)

var (
	generateType  string
	generateTopic string
	generateJSON  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a listening question",
	Long: `Generates one JLPT N5 listening question. Similar indexed questions
are retrieved as style references, the model response is parsed and
validated, and answer options are shuffled before output.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateType, "type", "t", "Dialogue", "question type")
	generateCmd.Flags().StringVar(&generateTopic, "topic", "", "topic (default: everyday situations)")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output the question as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if generateService == nil {
		return errors.New("generate service not configured")
	}

	record, err := generateService.Generate(cmd.Context(), generateType, generateTopic)
	if err != nil {
		// GenerationError messages already carry the failure taxonomy.
		return err
	}

	if generateJSON {
		return outputQuestionJSON(cmd, record)
	}
	return outputQuestionText(cmd, record)
}

func outputQuestionJSON(cmd *cobra.Command, record *domain.QuestionRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal question: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQuestionText(cmd *cobra.Command, record *domain.QuestionRecord) error {
	cmd.Println(record.Introduction)
	cmd.Println()
	for _, line := range strings.Split(record.Conversation, "\n") {
		cmd.Printf("  %s\n", line)
	}
	cmd.Println()
	cmd.Println(record.Question)
	cmd.Println()
	for i, option := range record.Options {
		cmd.Printf("  %s. %s\n", domain.AnswerLetters[i], option)
	}
	cmd.Println()
	// CorrectAnswerLetter names the pre-shuffle slot; the index is the
	// authoritative pointer into the options as printed above.
	cmd.Printf("Answer: %s\n", domain.AnswerLetters[record.CorrectAnswerIndex])
	return nil
}
