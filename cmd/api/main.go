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

	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/handlers"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/middleware"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/api/routes"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/focus"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/goals"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/habits"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/task"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/domain/user"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/cache"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/persistence/postgres/connection"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/persistence/postgres/migrations"
	"github.com/abbasmurshidm-collab/FocusFlowAi/internal/infrastructure/scheduler"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/config"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/logger"
	"github.com/abbasmurshidm-collab/FocusFlowAi/pkg/security/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		log.Info("Request started",
			zap.String("path", path),
			zap.String("method", method),
			zap.String("client_ip", c.ClientIP()),
		)

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// newRouter builds the gin engine with the cross-cutting middleware
// stack: recovery, request logging, prometheus, CORS and a JSON
// default content type.
func newRouter(cfg *config.Config, log *logger.Logger) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	// Binding validation runs through the validation middleware instead
	gin.DisableBindValidation()
	gin.DefaultWriter = os.Stdout

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))
	router.Use(middleware.NewMetricsMiddleware().CollectMetrics())
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})

	corsCfg := cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	corsCfg.AllowHeaders = append(cfg.CORS.AllowedHeaders,
		"Accept-Encoding", "Content-Encoding", "Content-Type",
		"Authorization", "X-Forwarded-For", "X-Real-IP")
	corsCfg.ExposeHeaders = []string{
		"Content-Length", "Content-Encoding", "Content-Type",
		"X-RateLimit-Remaining", "X-RateLimit-Reset", "X-Cache", "Vary"}
	router.Use(cors.New(corsCfg))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

func newMFALogger(mode string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	if mode == "production" {
		l.SetLevel(logrus.InfoLevel)
	} else {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

func registerHealthRoutes(router *gin.Engine, redisClient *cache.RedisClient) {
	ok := func(c *gin.Context, status string) {
		c.JSON(http.StatusOK, gin.H{"status": status, "timestamp": time.Now().UTC()})
	}
	router.GET("/health", func(c *gin.Context) { ok(c, "healthy") })
	router.GET("/health/ready", func(c *gin.Context) { ok(c, "ready") })
	router.GET("/health/cache", func(c *gin.Context) {
		if err := redisClient.HealthCheck(c); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"component": "cache",
				"error":     err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"component": "cache",
			"metrics":   redisClient.GetMetrics(),
		})
	})
}

// serve runs the HTTP server until SIGINT/SIGTERM, then drains with a
// five second deadline.
func serve(router *gin.Engine, port int, log *logger.Logger, onStop func()) {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", port))
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
	onStop()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited properly")
}

func main() {
	// Empty path makes the loader search the default locations
	cfg, err := config.LoadConfig("")
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.NewLogger()
	defer log.Sync()
	log.Info("Configuration loaded", zap.String("mode", cfg.Server.Mode))

	router := newRouter(cfg, log)

	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(cache.NewConfigFromEnv(cfg))
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	rateLimiter := auth.NewRedisRateLimiter(redisClient.GetClient(), 1*time.Minute, 1000)
	cacheMiddleware := middleware.NewCacheMiddleware(redisClient, "focusflow", 5*time.Minute)

	notificationSystem, emailResolver, err := SetupNotificationSystem(
		db, cfg, cfg.Server.Mode != "production")
	if err != nil {
		log.Fatal("Failed to initialize notification system", zap.Error(err))
	}
	habitNotifySvc := habits.NewHabitNotificationService(notificationSystem.Service)

	// The user service doubles as the rewards sink for habit, task and
	// goal completions.
	loc := cfg.App.Location()
	userService := user.NewService(user.NewRepository(db), notificationSystem.Mailer,
		notificationSystem.Service, auth.GetSessionStore(), cfg.App.BaseURL, log.Logger)
	emailResolver.Bind(userService.ResolveEmail)

	habitsService := habits.NewService(habits.NewRepository(db), userService, habitNotifySvc, redisClient, log.Logger, loc)
	taskService := task.NewService(task.NewRepository(db), userService, notificationSystem.Service, redisClient, log.Logger, loc)
	goalsService := goals.NewService(goals.NewRepository(db), userService, notificationSystem.Service, redisClient, log.Logger)
	focusService := focus.NewService(focus.NewRepository(db), redisClient, log.Logger, loc)

	jobScheduler := scheduler.NewScheduler(habitsService, taskService, log, loc)
	jobScheduler.Start()
	log.Info("Scheduler started successfully")

	userHandler := handlers.NewUserHandler(userService, cfg.Auth.JWTSecret, cfg.Auth.JWTExpiryHours)
	mfaHandler := handlers.NewMFAHandler(userService, userHandler, cfg.Auth.JWTSecret, newMFALogger(cfg.Server.Mode))
	notificationHandler := handlers.NewNotificationHandler(notificationSystem.Service, notificationSystem.Logger)
	dashboardHandler := handlers.NewDashboardHandler(
		habitsService, taskService, goalsService, focusService,
		userService, redisClient, log.Logger)

	// Clear cached dashboards when domain services report changes
	listenerCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()
	dashboardHandler.StartDashboardEventListener(listenerCtx)

	routes.NewUserRoutes(userHandler, cfg.Auth.JWTSecret, rateLimiter).RegisterRoutes(router)
	routes.NewMFARoutes(mfaHandler, cfg.Auth.JWTSecret, rateLimiter).RegisterRoutes(router)
	routes.NewHabitsRoutes(handlers.NewHabitsHandler(habitsService, loc), cfg.Auth.JWTSecret).RegisterRoutes(router, cacheMiddleware)
	routes.NewTaskRoutes(handlers.NewTaskHandler(taskService), cfg.Auth.JWTSecret).RegisterRoutes(router, cacheMiddleware)
	routes.NewGoalsRoutes(handlers.NewGoalsHandler(goalsService), cfg.Auth.JWTSecret).RegisterRoutes(router, cacheMiddleware)
	routes.NewFocusRoutes(handlers.NewFocusHandler(focusService), cfg.Auth.JWTSecret).RegisterRoutes(router, cacheMiddleware)
	routes.NewNotificationRoutes(notificationHandler, cfg.Auth.JWTSecret, rateLimiter).RegisterRoutes(router)
	routes.NewDashboardRoutes(dashboardHandler, cfg.Auth.JWTSecret).RegisterRoutes(router)
	registerHealthRoutes(router, redisClient)
	log.Info("Routes registered")

	serve(router, cfg.Server.Port, log, jobScheduler.Stop)
}
