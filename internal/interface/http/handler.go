package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/growth-monitor/internal/domain/assessment"
)

// Handler wires the HTTP transport to the assessment service.
type Handler struct {
	svc    assessment.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc assessment.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

type batchRequest struct {
	Children []assessment.Profile `json:"children"`
}

// Assess handles a single child assessment.
func (h *Handler) Assess(c *gin.Context) {
	var req assessment.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	res, err := h.svc.Assess(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err, "assessment_failed"))
		return
	}

	c.JSON(http.StatusOK, res)
}

// AssessBatch assesses many children; per-child failures are reported inline.
func (h *Handler) AssessBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	items, err := h.svc.AssessBatch(c.Request.Context(), req.Children)
	if err != nil {
		abortWithError(c, fromAppError(err, "assessment_failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Advise runs the rule engine against an externally computed classification.
func (h *Handler) Advise(c *gin.Context) {
	var req assessment.AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	res, err := h.svc.Advise(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err, "advice_failed"))
		return
	}

	c.JSON(http.StatusOK, res)
}

// Reference lists the loaded reference tables.
func (h *Handler) Reference(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Reference(c.Request.Context()))
}

// Health reports liveness. The process only serves once tables are loaded.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
