package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"go.uber.org/zap"

	"github.com/raghavkh/manualqa/internal/logger"
	"github.com/raghavkh/manualqa/internal/models"
)

// ChromaStore keeps chunks in a ChromaDB collection via the v2 HTTP API.
type ChromaStore struct {
	client     chromago.Client
	collection chromago.Collection
}

// NewChromaStore connects to Chroma and gets or creates the collection.
func NewChromaStore(ctx context.Context, baseURL, collectionName string) (*ChromaStore, error) {
	client, err := chromago.NewHTTPClient(chromago.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(
		ctx,
		collectionName,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "product manual chunks"),
				chromago.NewStringAttribute("created_by", "manualqa"),
				// Cosine space keeps reported scores on the same
				// cosine-similarity scale as the sqlite backend.
				chromago.NewStringAttribute("hnsw:space", "cosine"),
			),
		),
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to get or create collection %q: %w", collectionName, err)
	}

	logger.Info("connected to chroma collection", zap.String("collection", collectionName))
	return &ChromaStore{client: client, collection: collection}, nil
}

// Add upserts chunks with their embeddings and metadata.
func (s *ChromaStore) Add(ctx context.Context, chunks ...models.Chunk) error {
	for _, chunk := range chunks {
		metadata := attributesFromMap(chunk.Metadata)
		err := s.collection.Add(ctx,
			chromago.WithIDs(chromago.DocumentID(chunk.ID)),
			chromago.WithTexts(chunk.Text),
			chromago.WithEmbeddings(embeddings.NewEmbeddingFromFloat32(chunk.Embedding)),
			chromago.WithMetadatas(metadata),
		)
		if err != nil {
			return fmt.Errorf("failed to add chunk %s to chromadb: %w", chunk.ID, err)
		}
	}
	return nil
}

// Search queries the collection by embedding and returns the top matches.
func (s *ChromaStore) Search(ctx context.Context, embedding []float32, topK int) ([]models.SourceDocument, error) {
	results, err := s.collection.Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chromago.WithNResults(topK),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	var docs []models.SourceDocument
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	distanceGroups := results.GetDistancesGroups()

	if len(documentGroups) == 0 {
		return docs, nil
	}
	for i, doc := range documentGroups[0] {
		if doc.ContentString() == "" {
			continue
		}
		source := ""
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			meta := metadataToMap(metadataGroups[0][i])
			if v, ok := meta[models.MetaSourceFile].(string); ok {
				source = v
			}
		}
		score := 0.0
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			// The collection uses cosine distance (1 - cosine similarity),
			// so this recovers the similarity in [-1, 1].
			score = 1 - float64(distanceGroups[0][i])
		}
		docs = append(docs, models.SourceDocument{
			Source:  source,
			Content: doc.ContentString(),
			Score:   score,
		})
	}
	return docs, nil
}

// List returns every stored chunk.
func (s *ChromaStore) List(ctx context.Context) ([]models.Chunk, error) {
	results, err := s.collection.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents from chromadb: %w", err)
	}

	ids := results.GetIDs()
	documents := results.GetDocuments()
	metadatas := results.GetMetadatas()

	chunks := make([]models.Chunk, 0, len(documents))
	for i := range documents {
		var meta map[string]interface{}
		if len(metadatas) > i && metadatas[i] != nil {
			meta = metadataToMap(metadatas[i])
		}
		chunks = append(chunks, models.Chunk{
			ID:       string(ids[i]),
			Text:     documents[i].ContentString(),
			Metadata: meta,
		})
	}
	return chunks, nil
}

// Count returns the number of stored chunks.
func (s *ChromaStore) Count(ctx context.Context) (int, error) {
	count, err := s.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items in collection: %w", err)
	}
	return int(count), nil
}

// DeleteBySource removes every chunk whose source_file matches.
func (s *ChromaStore) DeleteBySource(ctx context.Context, sourceFile string) error {
	where := chromago.EqString(models.MetaSourceFile, sourceFile)
	return s.collection.Delete(ctx, chromago.WithWhereDelete(where))
}

// IndexState reads the source-file/hash pairs out of chunk metadata.
func (s *ChromaStore) IndexState(ctx context.Context) (map[string]string, error) {
	results, err := s.collection.Get(ctx)
	if err != nil {
		return nil, err
	}
	state := make(map[string]string)
	for _, meta := range results.GetMetadatas() {
		if meta == nil {
			continue
		}
		m := metadataToMap(meta)
		path, ok := m[models.MetaSourceFile].(string)
		if !ok {
			continue
		}
		hash, ok := m[models.MetaFileHash].(string)
		if !ok {
			continue
		}
		if _, exists := state[path]; !exists {
			state[path] = hash
		}
	}
	return state, nil
}

// Close releases the underlying HTTP client.
func (s *ChromaStore) Close() error {
	return s.client.Close()
}

func attributesFromMap(meta map[string]interface{}) chromago.DocumentMetadata {
	var attrs []*chromago.MetaAttribute
	for key, val := range meta {
		switch v := val.(type) {
		case string:
			attrs = append(attrs, chromago.NewStringAttribute(key, v))
		case int:
			attrs = append(attrs, chromago.NewIntAttribute(key, int64(v)))
		case int64:
			attrs = append(attrs, chromago.NewIntAttribute(key, v))
		case float64:
			attrs = append(attrs, chromago.NewFloatAttribute(key, v))
		case bool:
			attrs = append(attrs, chromago.NewBoolAttribute(key, v))
		}
	}
	return chromago.NewDocumentMetadata(attrs...)
}

// metadataToMap round-trips DocumentMetadata through JSON; the struct has
// no public accessor for its full value set.
func metadataToMap(meta chromago.DocumentMetadata) map[string]interface{} {
	out := make(map[string]interface{})
	jsonBytes, err := json.Marshal(meta)
	if err != nil {
		logger.Warn("could not marshal chunk metadata", zap.Error(err))
		return out
	}
	if err := json.Unmarshal(jsonBytes, &out); err != nil {
		logger.Warn("could not unmarshal chunk metadata", zap.Error(err))
		return map[string]interface{}{}
	}
	return out
}
