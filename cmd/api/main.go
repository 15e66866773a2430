package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"studyhall-backend/internal/infrastructure/queue"
	"studyhall-backend/pkg/container"
	"studyhall-backend/pkg/logger"
)

func main() {
	// .env for local development; production uses real env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	serve()
}

func serve() {
	c, err := container.NewContainer()
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}
	defer c.Cleanup()

	// One repair pass per boot so a crash mid-write never leaves ledgers
	// stale for long.
	enqueueStartupFeeRepair(c)

	router := SetupRouter(c)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", c.Config.App.Port),
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("server starting", map[string]interface{}{
			"port":        c.Config.App.Port,
			"environment": c.Config.App.Environment,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", err)
	}
	logger.Info("server exited", nil)
}

func enqueueStartupFeeRepair(c *container.Container) {
	client := queue.NewClient(c.Config.Redis)
	defer client.Close()

	if err := client.EnqueueFeeRepair(); err != nil {
		// Not fatal: the daily cron run will catch up.
		logger.Warn("failed to enqueue startup fee repair", map[string]interface{}{"error": err.Error()})
	}
}
