package main

import (
	"context"
	"disasterlink-backend/controller"
	"disasterlink-backend/dal"
	"disasterlink-backend/middelware"
	"disasterlink-backend/models"
	"disasterlink-backend/repository"
	"disasterlink-backend/services"
	"disasterlink-backend/utils"
	"disasterlink-backend/utils/logger"
	"disasterlink-backend/worker"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLogger.Infof("Starting %s %s (%s)", config.AppName, config.AppVersion, config.AppEnv)

	dbClient, err := dal.NewDynamoDBClient(config, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to initialize DynamoDB client: %v", err)
	}

	// Provision tables before anything touches them
	setup := worker.NewInfrastructureSetup(config, appLogger, dbClient)
	if err := setup.Execute(ctx); err != nil {
		appLogger.Fatalf("Infrastructure setup failed: %v", err)
	}

	repos := repository.NewRepository(dbClient, config, appLogger)
	jwtManager := middelware.NewJWTManager(config, appLogger, repos.Operators)
	svc := services.NewService(repos, jwtManager, config, appLogger)

	// Background sweep worker (cron + file lock)
	sweepWorker, err := worker.NewService(ctx, config, appLogger, svc.Coordinator)
	if err != nil {
		appLogger.Fatalf("Failed to create sweep worker: %v", err)
	}
	if err := sweepWorker.StartInBackground(); err != nil {
		appLogger.Fatalf("Failed to start sweep worker: %v", err)
	}

	r := gin.New()
	logMiddleware := middelware.NewLoggingMiddleware(appLogger)
	r.Use(logMiddleware.StructuredLogger())
	r.Use(logMiddleware.Recovery())
	r.Use(middelware.NewCORSMiddleware(config).CORS())

	c := controller.NewController(ctx, svc, jwtManager, sweepWorker.StatusManager(), appLogger)
	err = c.RegisterRoutes(ctx, config, r, config.BasePath)

	if stopErr := sweepWorker.Stop(); stopErr != nil {
		appLogger.Warnf("Failed to stop sweep worker: %v", stopErr)
	}
	if err != nil {
		appLogger.Fatalf("Server exited with error: %v", err)
	}
	appLogger.Info("Server stopped")
}
