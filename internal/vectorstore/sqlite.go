package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/raghavkh/manualqa/internal/models"
)

// SQLiteStore is an embedded fallback backend: chunks and their vectors
// live in a local SQLite file and similarity search is brute-force cosine
// over all rows. Good enough for a few thousand manual chunks and needs
// no running database.
type SQLiteStore struct {
	conn *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database file and its schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{conn: conn, path: path}
	if err := store.setupTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to setup database tables: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) setupTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			source_file TEXT NOT NULL DEFAULT '',
			file_hash TEXT NOT NULL DEFAULT '',
			chunk_num INTEGER NOT NULL DEFAULT 0,
			embedding TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_file)`,
	}
	for _, query := range queries {
		if _, err := s.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %s, error: %w", query, err)
		}
	}
	return nil
}

// Add upserts chunks with their embeddings and metadata.
func (s *SQLiteStore) Add(ctx context.Context, chunks ...models.Chunk) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO chunks (id, text, source_file, file_hash, chunk_num, embedding) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		embeddingJSON, err := json.Marshal(chunk.Embedding)
		if err != nil {
			return fmt.Errorf("failed to marshal embedding: %w", err)
		}
		source, _ := chunk.Metadata[models.MetaSourceFile].(string)
		hash, _ := chunk.Metadata[models.MetaFileHash].(string)
		num := 0
		switch v := chunk.Metadata[models.MetaChunkNum].(type) {
		case int:
			num = v
		case int64:
			num = int(v)
		case float64:
			num = int(v)
		}
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.Text, source, hash, num, string(embeddingJSON)); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Search ranks every stored chunk by cosine similarity to the query.
func (s *SQLiteStore) Search(ctx context.Context, embedding []float32, topK int) ([]models.SourceDocument, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT text, source_file, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var docs []models.SourceDocument
	for rows.Next() {
		var text, source, embeddingJSON string
		if err := rows.Scan(&text, &source, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var stored []float32
		if err := json.Unmarshal([]byte(embeddingJSON), &stored); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding: %w", err)
		}
		// Dimensionality mismatches can only come from switching embedding
		// models mid-index; skip rather than score garbage.
		if len(stored) != len(embedding) {
			continue
		}

		docs = append(docs, models.SourceDocument{
			Source:  source,
			Content: text,
			Score:   cosineSimilarity(embedding, stored),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Score > docs[j].Score })
	if topK > 0 && len(docs) > topK {
		docs = docs[:topK]
	}
	return docs, nil
}

// List returns every stored chunk.
func (s *SQLiteStore) List(ctx context.Context) ([]models.Chunk, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, text, source_file, file_hash, chunk_num FROM chunks ORDER BY source_file, chunk_num`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var chunk models.Chunk
		var source, hash string
		var num int
		if err := rows.Scan(&chunk.ID, &chunk.Text, &source, &hash, &num); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		chunk.Metadata = map[string]interface{}{
			models.MetaSourceFile: source,
			models.MetaFileHash:   hash,
			models.MetaChunkNum:   num,
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// Count returns the number of stored chunks.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// DeleteBySource removes every chunk ingested from the given file.
func (s *SQLiteStore) DeleteBySource(ctx context.Context, sourceFile string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM chunks WHERE source_file = ?`, sourceFile); err != nil {
		return fmt.Errorf("failed to delete chunks for %s: %w", sourceFile, err)
	}
	return nil
}

// IndexState maps each indexed source file to its ingest hash.
func (s *SQLiteStore) IndexState(ctx context.Context) (map[string]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT DISTINCT source_file, file_hash FROM chunks WHERE source_file != ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to query index state: %w", err)
	}
	defer rows.Close()

	state := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, err
		}
		if _, exists := state[path]; !exists {
			state[path] = hash
		}
	}
	return state, rows.Err()
}

// Close closes the database file.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
