package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/crupier/config"
	"github.com/bellapacxx/crupier/game"
	"github.com/bellapacxx/crupier/routes"
	"github.com/bellapacxx/crupier/services"
	"github.com/bellapacxx/crupier/utils/logger"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg config.Config, round *game.Round, hub *services.Hub) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, round, hub)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now(), "clients": hub.ClientCount()})
	})

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("[FATAL] %v", err)
		os.Exit(1)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogEncoding); err != nil {
		logger.Errorf("[FATAL] %v", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	hub := services.NewHub(logger.Named("hub"))
	round, err := game.NewRound(game.Options{
		Speed:    cfg.DrawInterval,
		Notifier: hub,
		Logger:   logger.Named("round"),
	})
	if err != nil {
		logger.Errorf("[FATAL] %v", err)
		os.Exit(1)
	}
	defer round.Close()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: setupRouter(cfg, round, hub),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("🃏 Crupier dealer starting on port %s (interval %s)", cfg.Port, cfg.DrawInterval)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("[FATAL] server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	round.Close()
	hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
}
