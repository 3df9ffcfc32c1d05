package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/orbitpay/gateway/internal/queue"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"go.uber.org/zap"
)

// JobsHandler exposes read-only queue introspection.
type JobsHandler struct {
	manager *queue.Manager
	logger  *zap.Logger
}

func NewJobsHandler(manager *queue.Manager, logger *zap.Logger) *JobsHandler {
	return &JobsHandler{
		manager: manager,
		logger:  logger,
	}
}

type jobStatusResponse struct {
	Queues map[string]queue.Counts `json:"queues"`
	Total  queue.Counts            `json:"total"`
}

func (h *JobsHandler) GetStatus(c echo.Context) error {
	perQueue, total, err := h.manager.GetCounts(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to read queue counts", zap.Error(err))
		return apperrors.WriteHTTP(c, apperrors.Wrap(err, "failed to read job status"))
	}

	return c.JSON(http.StatusOK, jobStatusResponse{Queues: perQueue, Total: total})
}
