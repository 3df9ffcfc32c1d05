package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/orbitpay/gateway/internal/adapter/handler/http"
	"github.com/orbitpay/gateway/internal/config"
	"github.com/orbitpay/gateway/internal/infrastructure/database"
	"github.com/orbitpay/gateway/internal/queue"
	"github.com/orbitpay/gateway/internal/usecase"
	"github.com/orbitpay/gateway/pkg/logger"
	"go.uber.org/zap"
)

type Server struct {
	config  *config.Config
	logger  *zap.Logger
	echo    *echo.Echo
	repos   *database.Repositories
	manager *queue.Manager
}

func NewServer(cfg *config.Config, log *zap.Logger, repos *database.Repositories, manager *queue.Manager) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewRequestValidator()

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config:  cfg,
		logger:  log,
		echo:    e,
		repos:   repos,
		manager: manager,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Initialize services
	orderService := usecase.NewOrderService(s.repos.Order, s.logger)
	paymentService := usecase.NewPaymentService(s.repos.Order, s.repos.Payment, s.manager.Queue(queue.QueuePayments), s.logger)
	refundService := usecase.NewRefundService(s.repos.Payment, s.repos.Refund, s.manager.Queue(queue.QueueRefunds), s.logger)
	webhookService := usecase.NewWebhookService(s.repos.WebhookLog, s.manager.Queue(queue.QueueWebhooks), s.logger)
	idempotencyService := usecase.NewIdempotencyService(s.repos.Idempotency, s.logger)

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(orderService, s.logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, idempotencyService, s.logger)
	refundHandler := handlers.NewRefundHandler(refundService, s.logger)
	webhookHandler := handlers.NewWebhookHandler(webhookService, s.logger)
	jobsHandler := handlers.NewJobsHandler(s.manager, s.logger)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	v1.POST("/orders", orderHandler.CreateOrder)
	v1.GET("/orders/:id", orderHandler.GetOrder)

	v1.POST("/payments", paymentHandler.CreatePayment)
	v1.GET("/payments/:id", paymentHandler.GetPayment)
	v1.POST("/payments/:id/capture", paymentHandler.CapturePayment)

	v1.POST("/refunds", refundHandler.CreateRefund)
	v1.GET("/refunds/:id", refundHandler.GetRefund)

	// Operator surface
	v1.GET("/webhooks", webhookHandler.ListLogs)
	v1.POST("/webhooks/:id/retry", webhookHandler.RetryLog)

	// Read-only job introspection
	v1.GET("/jobs/status", jobsHandler.GetStatus)
}
