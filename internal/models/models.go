package models

// Chunk is a contiguous span of source text together with its embedding
// and the metadata the vector store keeps alongside it.
type Chunk struct {
	ID        string                 `json:"id"`
	Text      string                 `json:"text"`
	Embedding []float32              `json:"-"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// SourceDocument is a retrieved chunk returned to the caller so answers
// can be verified against the manuals they came from. Score is the cosine
// similarity between the question and the chunk, in [-1, 1] with higher
// meaning more relevant; every store backend reports this same scale.
type SourceDocument struct {
	Source  string  `json:"source"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// Metadata keys written at ingest time and read back during rescans.
const (
	MetaSourceFile = "source_file"
	MetaFileHash   = "file_hash"
	MetaChunkNum   = "chunk_num"
)
