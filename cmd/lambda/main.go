// Package main runs the onboarding API as an AWS Lambda function behind an
// API Gateway proxy integration.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/journeyhouse/onboarding/internal/config"
	"github.com/journeyhouse/onboarding/internal/lambdaapi"
	"github.com/journeyhouse/onboarding/internal/logging"
	"github.com/journeyhouse/onboarding/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv, err := server.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	lambda.Start(lambdaapi.New(srv.Handler(), logger).Handle)
}
