package models

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
	TopK     int    `json:"top_k,omitempty"`
}

// QueryResponse is the body returned by POST /query.
type QueryResponse struct {
	Answer  string           `json:"answer"`
	Sources []SourceDocument `json:"sources"`
	Model   string           `json:"model"`
}

// IngestTextRequest is the body of POST /api/v1/documents: a raw text
// snippet to index without going through the file pipeline.
type IngestTextRequest struct {
	Text   string `json:"text" binding:"required"`
	Source string `json:"source,omitempty"`
}

// ListDocumentsResponse is the body returned by GET /api/v1/documents.
type ListDocumentsResponse struct {
	Count  int     `json:"count"`
	Chunks []Chunk `json:"chunks"`
}
