package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awsclient "github.com/taxbridge/taxbridge-api/internal/client/aws"
	"github.com/taxbridge/taxbridge-api/internal/config"
	"github.com/taxbridge/taxbridge-api/internal/constants"
	"github.com/taxbridge/taxbridge-api/internal/logger"
	"github.com/taxbridge/taxbridge-api/internal/server"
)

func main() {
	// Load environment variables from .env file for local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = constants.StageLocal
		log.Printf("Warning: STAGE environment variable not set, defaulting to '%s'", stage)
	}
	if !constants.IsValidStage(stage) {
		log.Fatalf("Invalid STAGE environment variable: '%s'. Must be one of: %s, %s, %s",
			stage, constants.StageProd, constants.StageDev, constants.StageLocal)
	}

	logger.InitLogger(stage)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// Deployed stages resolve secrets through Secrets Manager; local runs
	// read env vars directly.
	var secrets config.SecretSource
	if stage == constants.StageProd || stage == constants.StageDev {
		secretsClient, err := awsclient.NewSecretsManagerClient(ctx)
		if err != nil {
			logger.Fatal("Failed to initialize AWS Secrets Manager client", zap.Error(err))
		}
		secrets = secretsClient
	} else {
		secrets = config.EnvSecretSource{}
	}

	cfg, err := config.Load(ctx, stage, secrets)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	router := server.New(cfg)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	logger.Info("Starting taxbridge API",
		zap.String("stage", stage),
		zap.String("port", port))

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}
