package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quizgen-cli/internal/ingest"
)

var (
	indexSearchN    int
	indexSearchJSON bool
	indexResetForce bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the question index",
	Long: `Manage the local question index used for retrieval-augmented
generation. Indexed questions are retrieved as style references when
generating new ones.`,
}

var indexAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Index a single question",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexAdd,
}

var indexAddFileCmd = &cobra.Command{
	Use:   "add-file [path]",
	Short: "Index every question in a file",
	Long: `Indexes all questions found in a file. Files may wrap each question
in <question>...</question> tags or hold one question per line.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexAddFile,
}

var indexSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find similar indexed questions",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexSearch,
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexed questions",
	Args:  cobra.NoArgs,
	RunE:  runIndexList,
}

var indexResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all indexed questions",
	Args:  cobra.NoArgs,
	RunE:  runIndexReset,
}

var indexWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and index question files as they appear",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexWatch,
}

func init() {
	indexSearchCmd.Flags().IntVarP(&indexSearchN, "limit", "n", 3, "maximum number of results")
	indexSearchCmd.Flags().BoolVar(&indexSearchJSON, "json", false, "output results as JSON")
	indexResetCmd.Flags().BoolVar(&indexResetForce, "force", false, "skip the confirmation prompt")

	indexCmd.AddCommand(indexAddCmd)
	indexCmd.AddCommand(indexAddFileCmd)
	indexCmd.AddCommand(indexSearchCmd)
	indexCmd.AddCommand(indexListCmd)
	indexCmd.AddCommand(indexResetCmd)
	indexCmd.AddCommand(indexWatchCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexAdd(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	id, err := indexService.Add(cmd.Context(), args[0], map[string]any{"source": "manual"})
	if err != nil {
		return fmt.Errorf("index question: %w", err)
	}

	cmd.Printf("Indexed question %s\n", id)
	return nil
}

func runIndexAddFile(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	ids, err := indexService.AddFile(cmd.Context(), args[0], nil)
	if err != nil {
		return fmt.Errorf("index file: %w", err)
	}

	cmd.Printf("Indexed %d questions from %s\n", len(ids), args[0])
	return nil
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	results, err := indexService.Search(cmd.Context(), args[0], indexSearchN)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}

	if indexSearchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No similar questions found.")
		return nil
	}

	for i, r := range results {
		cmd.Printf("  [%d] %s (distance %.4f)\n", i+1, r.Item.Text, r.Distance)
	}
	return nil
}

func runIndexList(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	items, err := indexService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list index: %w", err)
	}

	if len(items) == 0 {
		cmd.Println("Index is empty.")
		return nil
	}

	cmd.Printf("%d indexed questions:\n", len(items))
	for _, item := range items {
		cmd.Printf("  %s  %s\n", item.ID, item.Text)
	}
	return nil
}

func runIndexReset(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	if !indexResetForce {
		return errors.New("refusing to delete the index without --force")
	}

	if err := indexService.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset index: %w", err)
	}

	cmd.Println("Index reset.")
	return nil
}

func runIndexWatch(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	watcher := ingest.NewWatcher(args[0], func(ctx context.Context, path string) error {
		ids, err := indexService.AddFile(ctx, path, nil)
		if err != nil {
			return err
		}
		cmd.Printf("Indexed %d questions from %s\n", len(ids), path)
		return nil
	})

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	err := watcher.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
