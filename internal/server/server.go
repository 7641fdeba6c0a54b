package server

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/taxbridge/taxbridge-api/internal/client/commerce"
	"github.com/taxbridge/taxbridge-api/internal/client/registry"
	"github.com/taxbridge/taxbridge-api/internal/config"
	"github.com/taxbridge/taxbridge-api/internal/constants"
	"github.com/taxbridge/taxbridge-api/internal/handlers"
	"github.com/taxbridge/taxbridge-api/internal/interfaces"
	"github.com/taxbridge/taxbridge-api/internal/middleware"
	"github.com/taxbridge/taxbridge-api/internal/session"
)

// New wires the router: middleware chain, gateways, session registry and the
// route table. Every /api route sits behind the signature gate.
func New(cfg *config.Config) *gin.Engine {
	if cfg.Stage == constants.StageProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(middleware.CorrelationIDMiddleware())
	router.Use(middleware.NewRateLimiter(10, 10).Middleware())

	registryClient := registry.NewClient(cfg.RegistryAPIKey)
	sessions := session.NewRegistry(registryClient, 0)

	commerceFor := func(ctx context.Context, storeDomain string) (interfaces.CommerceGateway, error) {
		token, err := cfg.StoreAccessToken(ctx, storeDomain)
		if err != nil {
			return nil, err
		}
		return commerce.NewClient(storeDomain, token), nil
	}

	common := handlers.NewCommonServices(cfg, sessions, commerceFor)
	vatHandler := handlers.NewVatHandler(common)
	commerceHandler := handlers.NewCommerceHandler(common)
	healthHandler := handlers.NewHealthHandler()

	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	api.Use(middleware.RequireSignature(common.GateSecret))
	{
		api.POST("/validate-vat", vatHandler.ValidateVat)
		api.POST("/completion-check", vatHandler.CheckCompletion)
		api.POST("/set-vat-id", commerceHandler.SetVatID)
		api.POST("/exempt-customer", commerceHandler.ExemptCustomer)
		api.POST("/get-customer-vat-id", commerceHandler.GetCustomerVatID)
		api.POST("/set-metafield", commerceHandler.SetMetafield)
	}

	router.NoRoute(handlers.NotFoundHandler)

	return router
}
