package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"MaxBot/internal/config"
	"MaxBot/pkg/log"
	"MaxBot/pkg/redis"
	websocketPkg "MaxBot/pkg/websocket"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded, using process environment: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	redisServer := redis.New(logger)
	hub := websocketPkg.NewHub(logger)

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithLocation(),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithHub(hub),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithLLM(),
		config.WithPlaces(),
		config.WithClassifier(),
		config.WithUtils(),
		config.WithWhatsappClient(ctx),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	trainCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = server.TrainClassifier(trainCtx)
	cancel()
	if err != nil {
		logger.Fatal(err)
	}

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-ctx.Done()
	logger.Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
		os.Exit(1)
	}
}
