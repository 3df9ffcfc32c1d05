package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/orbitpay/gateway/internal/domain/model"
	domainRepo "github.com/orbitpay/gateway/internal/domain/repository"
	"github.com/orbitpay/gateway/internal/usecase"
	apperrors "github.com/orbitpay/gateway/pkg/errors"
	"go.uber.org/zap"
)

// WebhookHandler is the operator surface over the webhook log.
type WebhookHandler struct {
	webhooks *usecase.WebhookService
	logger   *zap.Logger
}

func NewWebhookHandler(webhooks *usecase.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhooks: webhooks,
		logger:   logger,
	}
}

type webhookListResponse struct {
	Items []*model.WebhookLog `json:"items"`
	Total int64               `json:"total"`
}

func (h *WebhookHandler) ListLogs(c echo.Context) error {
	filter := domainRepo.WebhookLogFilter{
		MerchantID: c.QueryParam("merchant_id"),
		Status:     model.WebhookStatus(c.QueryParam("status")),
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return apperrors.WriteHTTP(c, apperrors.BadRequest("invalid limit parameter"))
		}
		filter.Limit = limit
	}
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return apperrors.WriteHTTP(c, apperrors.BadRequest("invalid offset parameter"))
		}
		filter.Offset = offset
	}

	logs, total, err := h.webhooks.ListLogs(c.Request().Context(), filter)
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	return c.JSON(http.StatusOK, webhookListResponse{Items: logs, Total: total})
}

func (h *WebhookHandler) RetryLog(c echo.Context) error {
	log, err := h.webhooks.Retry(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperrors.WriteHTTP(c, err)
	}

	return c.JSON(http.StatusOK, log)
}
