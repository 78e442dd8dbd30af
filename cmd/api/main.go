package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/francolucas/habit-tracker/internal/api/handlers"
	"github.com/francolucas/habit-tracker/internal/api/middleware"
	"github.com/francolucas/habit-tracker/internal/api/routes"
	"github.com/francolucas/habit-tracker/internal/domain/days"
	"github.com/francolucas/habit-tracker/internal/domain/habits"
	"github.com/francolucas/habit-tracker/internal/infrastructure/cache"
	"github.com/francolucas/habit-tracker/internal/infrastructure/persistence/postgres/connection"
	docstore "github.com/francolucas/habit-tracker/internal/store/postgres"
	"github.com/francolucas/habit-tracker/pkg/config"
	"github.com/francolucas/habit-tracker/pkg/logger"
	"github.com/francolucas/habit-tracker/pkg/security/auth"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.NewLoggerWithLevel(cfg.Logging.Level)
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(middleware.NewMetricsMiddleware().CollectMetrics())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: len(cfg.CORS.AllowedOrigins) == 0,
		AllowOrigins:    cfg.CORS.AllowedOrigins,
		AllowMethods:    cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Encoding",
			"Content-Type",
			"Authorization",
		),
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Encoding",
			"Content-Type",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := docstore.AutoMigrate(db); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize Redis
	redisConfig := cache.NewConfigFromEnv(cfg)
	redisClient, err := cache.NewRedisClient(redisConfig)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	rateLimiter := auth.NewRedisRateLimiter(redisClient.GetClient(), 1*time.Minute, 1000)

	// Document store and repositories
	docs := docstore.NewDocStore(db, redisClient, log)
	habitsRepo := habits.NewRepository(docs)
	daysRepo := days.NewRepository(docs)

	// Services
	habitsService := habits.NewService(habitsRepo, log)
	daysService := days.NewService(daysRepo, habitsRepo, log)
	authService := auth.NewService(docs, cfg, log)
	remoteStore := config.NewRemoteProfileStore(cfg.Remote.ProfilePath)

	// Handlers
	habitsHandler := handlers.NewHabitsHandler(habitsService)
	daysHandler := handlers.NewDaysHandler(daysService, habitsService)
	authHandler := handlers.NewAuthHandler(authService)
	remoteHandler := handlers.NewRemoteHandler(remoteStore)
	streamHandler := handlers.NewStreamHandler(habitsService, daysService, cfg.Auth.JWTSecret, log)

	// Health check routes (no /api prefix as these are system endpoints)
	routes.SetupHealthRoutes(router, db, redisClient)

	// Apply rate limiting middleware globally
	router.Use(middleware.RateLimitMiddleware(rateLimiter))

	authRoutes := routes.NewAuthRoutes(authHandler, rateLimiter)
	authRoutes.RegisterRoutes(router)
	log.Info("Registered auth routes at /api/auth")

	habitsRoutes := routes.NewHabitsRoutes(habitsHandler, cfg.Auth.JWTSecret)
	habitsRoutes.RegisterRoutes(router)
	log.Info("Registered habits routes at /api/habits")

	daysRoutes := routes.NewDaysRoutes(daysHandler, cfg.Auth.JWTSecret)
	daysRoutes.RegisterRoutes(router)
	log.Info("Registered days routes at /api/days")

	remoteRoutes := routes.NewRemoteRoutes(remoteHandler, cfg.Auth.JWTSecret)
	remoteRoutes.RegisterRoutes(router)
	log.Info("Registered remote-profile routes at /api/remote-profile")

	streamRoutes := routes.NewStreamRoutes(streamHandler)
	streamRoutes.RegisterRoutes(router)
	log.Info("Registered stream routes at /api/stream")

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
