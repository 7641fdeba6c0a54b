package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxbridge/taxbridge-api/internal/config"
	"github.com/taxbridge/taxbridge-api/internal/interfaces"
	"github.com/taxbridge/taxbridge-api/internal/logger"
	"github.com/taxbridge/taxbridge-api/internal/middleware"
	"github.com/taxbridge/taxbridge-api/internal/session"
	"github.com/taxbridge/taxbridge-api/internal/types/responses"
)

// SessionHeader carries the checkout session id. Requests without it get a
// fresh single-use session and lose caching across calls.
const SessionHeader = "X-Checkout-Session"

// CommerceFactory builds a store-scoped commerce gateway, resolving the
// store's credentials first.
type CommerceFactory func(ctx context.Context, storeDomain string) (interfaces.CommerceGateway, error)

// CommonServices holds the dependencies shared across handlers.
type CommonServices struct {
	cfg         *config.Config
	logger      *zap.Logger
	sessions    *session.Registry
	commerceFor CommerceFactory
}

// NewCommonServices creates the shared handler dependencies.
func NewCommonServices(cfg *config.Config, sessions *session.Registry, commerceFor CommerceFactory) *CommonServices {
	return &CommonServices{
		cfg:         cfg,
		logger:      logger.Log,
		sessions:    sessions,
		commerceFor: commerceFor,
	}
}

// Eligibility exposes the configured exemption rule.
func (s *CommonServices) Eligibility() *config.Eligibility {
	return s.cfg.Eligibility
}

// GateSecret exposes the session gate secret for the signature middleware.
func (s *CommonServices) GateSecret() string {
	return s.cfg.GateSecret
}

func (s *CommonServices) session(c *gin.Context) *session.Session {
	return s.sessions.Get(c.GetHeader(SessionHeader))
}

// sendError logs the error and sends the JSON error envelope.
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("correlation_id", middleware.GetCorrelationID(c)),
	)

	c.JSON(statusCode, responses.Envelope{
		Success: false,
		Message: message,
	})
}

// sendSuccess sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// NotFoundHandler is the JSON fallback for unknown routes.
func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, responses.Envelope{
		Success: false,
		Message: "Resource not found",
	})
}
