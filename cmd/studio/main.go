package main

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"mindloom/internal/handlers"
	"mindloom/internal/history"
	"mindloom/pkg/auth"
	"mindloom/pkg/config"
	"mindloom/pkg/database"
	"mindloom/pkg/llm"
	"mindloom/pkg/logging"
	"mindloom/pkg/monitoring"
	"mindloom/pkg/redis"
	"mindloom/pkg/server"
	"mindloom/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("studio")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Studio (Generation API)")

	dbURL := config.RequireEnv("DATABASE_URL")
	jwtSecret := config.RequireEnv("JWT_SECRET")
	gatewayCfg := llm.LoadConfig()
	if gatewayCfg.APIKey == "" {
		gatewayCfg.APIKey = config.RequireEnv("AI_GATEWAY_KEY")
	}

	// Connect to database
	dbConfig := database.DefaultConfig()
	dbConfig.URL = dbURL
	db := database.MustConnect(dbConfig, logger)
	defer db.Close()

	if err := database.ApplySchema(db, logger); err != nil {
		logger.WithError(err).Fatal("Schema application failed")
	}

	// Redis backs the generation-history cache; the service runs without it.
	var redisClient *goredis.Client
	if redisURL := config.GetEnv("REDIS_URL", ""); redisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := redis.NewClientFromURL(ctx, redisURL)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, history cache disabled")
		} else {
			redisClient = client
			defer client.Close()
		}
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("studio", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("studio", version.Version, version.GitCommit)

	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("redis", monitoring.RedisHealthCheck(redisClient))
	if gatewayHealthURL := config.GetEnv("AI_GATEWAY_HEALTH_URL", ""); gatewayHealthURL != "" {
		healthChecker.AddCheck("ai_gateway", monitoring.HTTPServiceHealthCheck("ai-gateway", gatewayHealthURL))
	}
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL":   dbURL,
		"JWT_SECRET":     jwtSecret,
		"AI_GATEWAY_KEY": gatewayCfg.APIKey,
	}))

	metrics := handlers.NewStudioMetrics(metricsCollector)

	gateway := llm.NewGatewayClient(gatewayCfg)
	historyCache := history.New(redisClient, logger)

	// Initialize handlers
	handlers.Init(db, logger, metrics, gateway, gatewayCfg, historyCache, []byte(jwtSecret))

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "studio", healthChecker, metricsCollector)

	// Public endpoints
	router.POST("/auth/register", handlers.Register)
	router.POST("/auth/login", handlers.Login)

	// Authentication required endpoints
	protected := router.Group("")
	protected.Use(auth.JWTAuthMiddleware([]byte(jwtSecret)))
	{
		protected.POST("/generate", handlers.Generate)
		protected.GET("/credits", handlers.GetCredits)
		protected.GET("/generations", handlers.ListGenerations)
	}

	// Start server with graceful shutdown
	serverConfig := server.DefaultConfig("studio", "18080")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
