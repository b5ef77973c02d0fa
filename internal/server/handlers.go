package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/raghavkh/manualqa/internal/logger"
	"github.com/raghavkh/manualqa/internal/models"
	"github.com/raghavkh/manualqa/internal/rag"
)

// TextIngester indexes a raw text snippet outside the file pipeline.
type TextIngester interface {
	IngestText(ctx context.Context, text, source string) error
}

// Handler holds the HTTP handlers' dependencies.
type Handler struct {
	ragService rag.Service
	ingester   TextIngester
}

// NewHandler injects the pipeline into the HTTP layer.
func NewHandler(ragService rag.Service, ingester TextIngester) *Handler {
	return &Handler{
		ragService: ragService,
		ingester:   ingester,
	}
}

// Health is the handler for GET /health.
func (h *Handler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "RAG Q&A",
		"model":   h.ragService.Model(),
	})
}

// Query is the handler for POST /query.
func (h *Handler) Query(ctx *gin.Context) {
	var req models.QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	response, err := h.ragService.Answer(ctx.Request.Context(), req.Question, req.TopK)
	if err != nil {
		if errors.Is(err, rag.ErrEmptyQuestion) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Question must not be empty"})
			return
		}
		logger.Error("query pipeline failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate an answer"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// IngestText is the handler for POST /api/v1/documents.
func (h *Handler) IngestText(ctx *gin.Context) {
	var req models.IngestTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.ingester.IngestText(ctx.Request.Context(), req.Text, req.Source); err != nil {
		logger.Error("failed to ingest text", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest document"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Document ingested successfully"})
}

// ListDocuments is the handler for GET /api/v1/documents.
func (h *Handler) ListDocuments(ctx *gin.Context) {
	response, err := h.ragService.ListChunks(ctx.Request.Context())
	if err != nil {
		logger.Error("failed to list documents", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve documents"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}
