package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightdesk/cfg"
	"flightdesk/internal/booking"
	"flightdesk/internal/flight"
	"flightdesk/internal/session"
	"flightdesk/pkg/cache"
	"flightdesk/pkg/events"
	"flightdesk/pkg/gateway"
	"flightdesk/pkg/idgen"
	"flightdesk/pkg/logger"
	"flightdesk/pkg/telemetry"

	_ "flightdesk/cmd/flightdesk/docs" // swagger docs

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

// @title           Flightdesk API
// @version         1.0
// @description     Flight search, seat availability and booking for UI clients.
// @BasePath        /
// @schemes         http
func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	// ============
	// Otel
	// ============
	shutdownOtel, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName:  config.Observability.ServiceName,
		Environment:  config.Observability.Environment,
		OTLPEndpoint: config.Observability.OTLPEndpoint,
	})
	if err != nil {
		zlogger.Warn("continuing without tracing/metrics", logger.Err(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOtel(ctx); err != nil {
				zlogger.Error("failed to shutdown OpenTelemetry", logger.Err(err))
			}
		}()
	}

	// ============
	// Cache
	// ============
	redisAddr := config.RedisConfig.Host + ":" + config.RedisConfig.Port
	redis := cache.NewRedisCache(redisAddr, config.RedisConfig.Password)

	// ============
	// External Service
	// ============
	ids, err := idgen.NewSnowflakeGenerator(1)
	if err != nil {
		log.Fatal(err)
	}
	httpClient := &http.Client{
		Timeout: time.Duration(config.FlightService.TimeoutSeconds) * time.Second,
	}
	flightService := gateway.NewClient(httpClient, config.FlightService.BaseURL, zlogger, ids)

	var notifier booking.Notifier
	if len(config.Kafka.Brokers) > 0 {
		producer := events.NewProducer(config.Kafka.Brokers, zlogger)
		defer producer.Close()
		notifier = events.NewBookingNotifier(producer, config.Kafka.BookingTopic)
	}

	// ============
	// Internal Service
	// ============
	airports := flight.NewAirportCatalog(flightService, redis, config.CacheTTLMinutes, zlogger)
	store := session.NewStore(session.Deps{
		Gateway:     flightService,
		Airports:    airports,
		Notifier:    notifier,
		Concurrency: config.AvailabilityConcurrency,
		Logger:      zlogger,
	}, time.Duration(config.SessionTTLMinutes)*time.Minute)
	sessionHandler := session.NewHandler(store, flightService, zlogger)

	// ============
	// HTTP
	// ============
	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(config.Observability.ServiceName))
	r.Use(TraceLoggerMiddleware(zlogger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  config.CORSAllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", session.HeaderSessionID},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	sessionHandler.RegisterRoutes(r)
	initSwagger(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlogger.Info("starting server", logger.Field{Key: "addr", Value: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlogger.Error("server stopped", logger.Err(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlogger.Error("graceful shutdown failed", logger.Err(err))
	}
	zlogger.Info("server exited")
}

// TraceLoggerMiddleware logs each request with the trace_id and span_id that
// otelgin put on the request context.
func TraceLoggerMiddleware(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			{Key: "method", Value: c.Request.Method},
			{Key: "path", Value: c.FullPath()},
			{Key: "status", Value: c.Writer.Status()},
			{Key: "latency", Value: time.Since(start)},
		}
		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.IsValid() {
			fields = append(fields,
				logger.Field{Key: "trace_id", Value: sc.TraceID().String()},
				logger.Field{Key: "span_id", Value: sc.SpanID().String()},
			)
		}
		l.Info("request completed", fields...)
	}
}

func initSwagger(r *gin.Engine) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		html := `<!DOCTYPE html>
<html>
<head>
    <title>Flightdesk API</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
    <script id="api-reference" data-url="/swagger/doc.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
		c.String(200, html)
	})
}
