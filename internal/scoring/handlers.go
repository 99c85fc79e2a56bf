package scoring

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/returnguard/returnguard/internal/logging"
	"github.com/returnguard/returnguard/internal/pagination"
)

// Handler provides HTTP endpoints for the scoring pipeline.
type Handler struct {
	service  *Service
	maxBatch int
}

// NewHandler creates a new scoring handler. maxBatch caps batch_score
// payloads; the orchestrator itself imposes no bound.
func NewHandler(service *Service, maxBatch int) *Handler {
	return &Handler{service: service, maxBatch: maxBatch}
}

// RegisterRoutes sets up the scoring routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/score", h.Score)
	r.POST("/batch_score", h.BatchScore)
	r.GET("/model", h.ModelMetrics)
	r.GET("/model/importance", h.FeatureImportance)
	r.GET("/users/:userId/scores", h.UserHistory)
}

// Score handles POST /v1/score
func (h *Handler) Score(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": bindErrorMessage(err),
		})
		return
	}

	result, err := h.service.Score(c.Request.Context(), &req)
	if err != nil {
		h.writeScoringError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BatchScore handles POST /v1/batch_score
func (h *Handler) BatchScore(c *gin.Context) {
	var reqs []ReturnRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Request body must be a JSON array of return requests",
		})
		return
	}

	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "empty_batch",
			"message": ErrEmptyBatch.Error(),
		})
		return
	}
	if len(reqs) > h.maxBatch {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "batch_too_large",
			"message": fmt.Sprintf("batch of %d exceeds maximum of %d records", len(reqs), h.maxBatch),
		})
		return
	}

	// Binding a JSON array does not run struct validation per element;
	// enforce the field constraints on each record before the core runs.
	for i := range reqs {
		if err := binding.Validator.ValidateStruct(&reqs[i]); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": fmt.Sprintf("record %d: %s", i, bindErrorMessage(err)),
			})
			return
		}
	}

	result, err := h.service.ScoreBatch(c.Request.Context(), reqs)
	if err != nil {
		h.writeScoringError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ModelMetrics handles GET /v1/model — model provenance plus the full
// ranked feature importance list.
func (h *Handler) ModelMetrics(c *gin.Context) {
	artifact := h.service.Artifact()
	if !artifact.ModelLoaded() {
		h.writeScoringError(c, ErrModelUnavailable)
		return
	}

	info := gin.H{
		"model_type":    artifact.Scorer().Type(),
		"model_version": artifact.Version(),
		"training_date": "unknown",
		"feature_count": 0,
		"random_seed":   nil,
	}
	if meta := artifact.Metadata(); meta != nil {
		info["training_date"] = meta.TrainingDate
		info["feature_count"] = len(meta.FeatureNames)
		info["random_seed"] = meta.RandomSeed
	}

	c.JSON(http.StatusOK, gin.H{
		"model_info":         info,
		"feature_importance": h.service.RankedImportance(),
	})
}

// FeatureImportance handles GET /v1/model/importance — the full ranked
// importance list with its total count.
func (h *Handler) FeatureImportance(c *gin.Context) {
	artifact := h.service.Artifact()
	if !artifact.ModelLoaded() || !artifact.MetadataLoaded() {
		h.writeScoringError(c, ErrModelUnavailable)
		return
	}

	ranked := h.service.RankedImportance()
	c.JSON(http.StatusOK, gin.H{
		"feature_importance": ranked,
		"total_features":     len(ranked),
	})
}

// UserHistory handles GET /v1/users/:userId/scores with cursor pagination
func (h *Handler) UserHistory(c *gin.Context) {
	userID := c.Param("userId")
	limit := parseLimit(c, 50, 200)

	cursor, err := pagination.Decode(c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_cursor",
			"message": "cursor parameter is not a valid page cursor",
		})
		return
	}

	events, next, err := h.service.History(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		logging.L(c.Request.Context()).Error("failed to list score events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list score events",
		})
		return
	}

	resp := gin.H{"scores": events, "count": len(events)}
	if next != "" {
		resp["next_cursor"] = next
	}
	c.JSON(http.StatusOK, resp)
}

// writeScoringError maps the closed error kinds onto HTTP responses.
func (h *Handler) writeScoringError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrModelUnavailable), errors.Is(err, ErrMetadataUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "model_unavailable",
			"message": err.Error(),
		})
	case errors.Is(err, ErrEmptyBatch), errors.Is(err, ErrBatchTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	case errors.Is(err, ErrComputation):
		logging.L(c.Request.Context()).Error("scoring failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "scoring_error",
			"message": err.Error(),
		})
	default:
		logging.L(c.Request.Context()).Error("unexpected scoring error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
		})
	}
}

// bindErrorMessage keeps binding errors readable without leaking struct
// internals.
func bindErrorMessage(err error) string {
	return "Invalid request body: " + err.Error()
}

// parseLimit reads the ?limit query param with a default and a hard cap.
func parseLimit(c *gin.Context, def, max int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
