// Package sqlite provides a SQLite-backed question index. Embeddings
// are stored alongside the question rows and compared in process;
// question collections are small enough that a brute-force scan beats
// carrying a vector database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/quizgen-cli/internal/adapters/driven/index/sqlite/migrations"
	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quizgen-cli/internal/vecmath"
)

// Ensure QuestionIndex implements the interface.
var _ driven.QuestionIndex = (*QuestionIndex)(nil)

// QuestionIndex stores questions and embeddings in a SQLite database.
type QuestionIndex struct {
	db       *sql.DB
	path     string
	embedder driven.EmbeddingService
}

// NewQuestionIndex opens (or creates) the index database in dataDir.
// If dataDir is empty, defaults to ~/.quizgen/data/questions.db.
func NewQuestionIndex(dataDir string, embedder driven.EmbeddingService) (*QuestionIndex, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".quizgen", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "questions.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	x := &QuestionIndex{
		db:       db,
		path:     dbPath,
		embedder: embedder,
	}

	if err := x.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return x, nil
}

// migrate applies any pending .up.sql migrations in version order.
func (x *QuestionIndex) migrate(fsys embed.FS) error {
	_, err := x.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := x.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := x.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := x.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Path returns the database file path.
func (x *QuestionIndex) Path() string {
	return x.path
}

// Add inserts or overwrites the item under its content-derived id.
func (x *QuestionIndex) Add(ctx context.Context, text string, metadata map[string]any) (string, error) {
	id := domain.QuestionID(text)

	embedding, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("marshaling metadata: %w", err)
	}

	_, err = x.db.ExecContext(ctx, `
		INSERT INTO questions (id, text, metadata, embedding)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			updated_at = CURRENT_TIMESTAMP
	`, id, text, string(metadataJSON), float32SliceToBytes(embedding))
	if err != nil {
		return "", storageErr("upserting question", err)
	}

	return id, nil
}

// Get retrieves an item by exact id.
func (x *QuestionIndex) Get(ctx context.Context, id string) (*domain.IndexedItem, error) {
	var item domain.IndexedItem
	var metadataJSON string

	err := x.db.QueryRowContext(ctx, `
		SELECT id, text, metadata FROM questions WHERE id = ?
	`, id).Scan(&item.ID, &item.Text, &metadataJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("querying question", err)
	}

	if err := unmarshalMetadata(metadataJSON, &item.Metadata); err != nil {
		return nil, err
	}
	return &item, nil
}

// Search embeds the query and scans all rows for the n nearest items.
func (x *QuestionIndex) Search(ctx context.Context, query string, n int) ([]domain.RetrievalResult, error) {
	n = driven.ClampSearchResults(n)

	queryEmbedding, err := x.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := x.db.QueryContext(ctx, `
		SELECT id, text, metadata, embedding FROM questions
	`)
	if err != nil {
		return nil, storageErr("querying questions", err)
	}
	defer rows.Close()

	results := make([]domain.RetrievalResult, 0)
	for rows.Next() {
		var item domain.IndexedItem
		var metadataJSON string
		var embeddingBlob []byte

		if err := rows.Scan(&item.ID, &item.Text, &metadataJSON, &embeddingBlob); err != nil {
			return nil, storageErr("scanning question", err)
		}
		if err := unmarshalMetadata(metadataJSON, &item.Metadata); err != nil {
			return nil, err
		}

		results = append(results, domain.RetrievalResult{
			Item:     item,
			Distance: vecmath.CosineDistance(queryEmbedding, bytesToFloat32Slice(embeddingBlob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating questions", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

// ListAll returns every stored item ordered by insertion time.
func (x *QuestionIndex) ListAll(ctx context.Context) ([]domain.IndexedItem, error) {
	rows, err := x.db.QueryContext(ctx, `
		SELECT id, text, metadata FROM questions ORDER BY created_at, id
	`)
	if err != nil {
		return nil, storageErr("querying questions", err)
	}
	defer rows.Close()

	items := make([]domain.IndexedItem, 0)
	for rows.Next() {
		var item domain.IndexedItem
		var metadataJSON string

		if err := rows.Scan(&item.ID, &item.Text, &metadataJSON); err != nil {
			return nil, storageErr("scanning question", err)
		}
		if err := unmarshalMetadata(metadataJSON, &item.Metadata); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating questions", err)
	}
	return items, nil
}

// Reset deletes the whole collection.
func (x *QuestionIndex) Reset(ctx context.Context) error {
	if _, err := x.db.ExecContext(ctx, "DELETE FROM questions"); err != nil {
		return storageErr("resetting questions", err)
	}
	return nil
}

// Close closes the database connection and the embedder.
func (x *QuestionIndex) Close() error {
	embErr := x.embedder.Close()
	if err := x.db.Close(); err != nil {
		return err
	}
	return embErr
}

// storageErr marks a database failure so callers can distinguish a
// broken persistence medium from bad input via errors.Is.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

// unmarshalMetadata decodes the stored metadata JSON, treating empty
// and null payloads as no metadata.
func unmarshalMetadata(metadataJSON string, out *map[string]any) error {
	if metadataJSON == "" || metadataJSON == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(metadataJSON), out); err != nil {
		return fmt.Errorf("unmarshaling metadata: %w", err)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
