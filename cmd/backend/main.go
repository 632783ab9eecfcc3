package main

import (
	"NYCU-SDC/checkin-backend/internal"
	"NYCU-SDC/checkin-backend/internal/config"
	"NYCU-SDC/checkin-backend/internal/cors"
	"NYCU-SDC/checkin-backend/internal/form"
	"NYCU-SDC/checkin-backend/internal/form/aggregate"
	"NYCU-SDC/checkin-backend/internal/form/response"
	"NYCU-SDC/checkin-backend/internal/form/submit"
	"NYCU-SDC/checkin-backend/internal/trace"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.6.1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var AppName = "no-app-name"

var Version = "no-version"

var BuildTime = "no-build-time"

var CommitHash = "no-commit-hash"

var Environment = "no-env"

func main() {
	AppName = os.Getenv("APP_NAME")
	if AppName == "" {
		AppName = "checkin-backend"
	}

	if BuildTime == "no-build-time" {
		now := time.Now()
		BuildTime = "not provided (now: " + now.Format(time.RFC3339) + ")"
	}

	Environment = os.Getenv("ENV")
	if Environment == "" {
		Environment = "no-env"
	}

	appMetadata := []zap.Field{
		zap.String("app_name", AppName),
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit_hash", CommitHash),
		zap.String("environment", Environment),
	}

	cfg, cfgLog := config.Load()
	err := cfg.Validate()
	if err != nil {
		if errors.Is(err, config.ErrInvalidPort) {
			title := "Invalid port"
			message := "Please set the PORT environment variable or the port key in config.yaml to a number between 1 and 65535."
			message = EarlyApplicationFailed(title, message)
			log.Fatal(message)
		} else if errors.Is(err, config.ErrRedisKeyRequired) {
			title := "Redis submission key is required"
			message := "Please set REDIS_SUBMISSION_KEY, or unset REDIS_URL to log submissions instead."
			message = EarlyApplicationFailed(title, message)
			log.Fatal(message)
		} else {
			log.Fatalf("Failed to validate config: %v, exiting...", err)
		}
	}

	logger, err := initLogger(&cfg, appMetadata)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v, exiting...", err)
	}

	cfgLog.FlushToZap(logger)

	logger.Info("Starting application...")

	shutdown, err := initOpenTelemetry(AppName, Version, BuildTime, CommitHash, Environment, cfg.OtelCollectorUrl)
	if err != nil {
		logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
	}

	validator := internal.NewValidator()
	problemWriter := internal.NewProblemWriter()

	document, err := form.LoadDocument(cfg.QuestionnairePath, validator)
	if err != nil {
		logger.Fatal("Failed to load questionnaire", zap.Error(err), zap.String("path", cfg.QuestionnairePath))
	}

	questionnaire, err := form.NewQuestionnaire(document)
	if err != nil {
		logger.Fatal("Failed to build questionnaire", zap.Error(err))
	}

	logger.Info("Loaded questionnaire", zap.String("title", questionnaire.Title), zap.Int("question_count", questionnaire.Total()), zap.Int("dashboard_count", len(document.Dashboard)))

	// handle interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, closeSink, err := initSink(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize submission sink", zap.Error(err))
	}
	defer closeSink()

	// ============================================
	// Service
	// ============================================

	registry := response.NewRegistry(logger, questionnaire, cfg.SessionTTL)
	go registry.RunJanitor(ctx, cfg.JanitorInterval)

	formService := form.NewService(logger, questionnaire)
	responseService := response.NewService(logger, registry)
	submitService := submit.NewService(logger, validator, responseService, sink)
	aggregateService := aggregate.NewService(logger, document.Dashboard)

	// ============================================
	// Handler
	// ============================================

	formHandler := form.NewHandler(logger, problemWriter, formService)
	responseHandler := response.NewHandler(logger, validator, problemWriter, responseService)
	submitHandler := submit.NewHandler(logger, problemWriter, submitService)
	aggregateHandler := aggregate.NewHandler(logger, problemWriter, aggregateService)

	// ============================================
	// Middleware
	// ============================================

	traceMiddleware := trace.NewMiddleware(logger, cfg.Debug)
	corsMiddleware := cors.NewMiddleware(logger, cfg.AllowOrigins)

	// Basic Middleware (Tracing and Recovery)
	basicMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	basicMiddleware = basicMiddleware.Append(traceMiddleware.TraceMiddleware)

	// HTTP Server
	mux := http.NewServeMux()

	// Health check route
	mux.Handle("GET /api/healthz", basicMiddleware.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			logger.Error("Failed to write response", zap.Error(err))
		}
	}))

	// ============================================
	// Check-in routes
	// ============================================

	// Questionnaire
	// ----------------------
	mux.Handle("GET /api/questionnaire", basicMiddleware.HandlerFunc(formHandler.GetHandler))

	// Session Management
	// ----------------------
	mux.Handle("POST /api/sessions", basicMiddleware.HandlerFunc(responseHandler.CreateHandler))
	mux.Handle("GET /api/sessions/{sessionId}", basicMiddleware.HandlerFunc(responseHandler.GetHandler))
	mux.Handle("DELETE /api/sessions/{sessionId}", basicMiddleware.HandlerFunc(responseHandler.DeleteHandler))

	// -- Session Answers
	mux.Handle("PUT /api/sessions/{sessionId}/answers", basicMiddleware.HandlerFunc(responseHandler.UpdateAnswersHandler))
	mux.Handle("PUT /api/sessions/{sessionId}/answers/{questionId}", basicMiddleware.HandlerFunc(responseHandler.UpdateAnswerHandler))
	mux.Handle("PUT /api/sessions/{sessionId}/email", basicMiddleware.HandlerFunc(responseHandler.UpdateEmailHandler))

	// -- Session Operations
	mux.Handle("POST /api/sessions/{sessionId}/submit", basicMiddleware.HandlerFunc(submitHandler.SubmitHandler))
	mux.Handle("POST /api/sessions/{sessionId}/reset", basicMiddleware.HandlerFunc(responseHandler.ResetHandler))

	// ============================================
	// Admin routes
	// ============================================

	// Todo: Admin only endpoint once authentication exists
	mux.Handle("GET /api/admin/dashboard", basicMiddleware.HandlerFunc(aggregateHandler.DashboardHandler))
	mux.Handle("GET /api/admin/dashboard/export", basicMiddleware.HandlerFunc(aggregateHandler.ExportHandler))

	// End of API routes
	// ============================================

	// CORS and Entry Point
	entrypoint := corsMiddleware.HandlerFunc(mux.ServeHTTP)

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: entrypoint,
	}

	go func() {
		logger.Info("Starting listening request", zap.String("host", cfg.Host), zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Fail to start server with error", zap.Error(err))
		}
	}()

	// wait for context close
	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := shutdown(otelCtx); err != nil {
		logger.Error("Forced to shutdown OpenTelemetry", zap.Error(err))
	}

	logger.Info("Successfully shutdown", zap.Int("open_sessions", registry.Len()))
}

func initLogger(cfg *config.Config, appMetadata []zap.Field) (*zap.Logger, error) {
	var err error
	var logger *zap.Logger
	if cfg.Debug {
		logger, err = logutil.ZapDevelopmentConfig().Build()
		if err != nil {
			return nil, err
		}
		logger.Info("Running in debug mode", appMetadata...)
	} else {
		logger, err = logutil.ZapProductionConfig().Build()
		if err != nil {
			return nil, err
		}

		logger = logger.With(appMetadata...)
	}
	defer func() {
		err := logger.Sync()
		if err != nil {
			zap.S().Errorw("Failed to sync logger", zap.Error(err))
		}
	}()

	return logger, nil
}

// initSink picks the Redis queue when a Redis URL is configured and the log otherwise
func initSink(ctx context.Context, cfg *config.Config, logger *zap.Logger) (submit.Sink, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("Submissions are written to the log")
		return submit.NewLogSink(logger), func() {}, nil
	}

	client, err := submit.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Submissions are queued in Redis", zap.String("key", cfg.RedisSubmissionKey))
	closeClient := func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close redis client", zap.Error(err))
		}
	}
	return submit.NewRedisSink(logger, client, cfg.RedisSubmissionKey), closeClient, nil
}

func initOpenTelemetry(appName, version, buildTime, commitHash, environment, otelCollectorUrl string) (func(context.Context) error, error) {
	ctx := context.Background()

	serviceName := semconv.ServiceNameKey.String(appName)
	serviceVersion := semconv.ServiceVersionKey.String(version)
	serviceNamespace := semconv.ServiceNamespaceKey.String("checkin")
	serviceCommitHash := attribute.String("service.commit_hash", commitHash)
	serviceEnvironment := semconv.DeploymentEnvironmentKey.String(environment)
	serviceBuildTime := attribute.String("service.build_time", buildTime)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			serviceName,
			serviceVersion,
			serviceNamespace,
			serviceCommitHash,
			serviceEnvironment,
			serviceBuildTime,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if otelCollectorUrl != "" {
		conn, err := initGrpcConn(otelCollectorUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}

		traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}

		bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
		options = append(options, sdktrace.WithSpanProcessor(bsp))
	}

	tracerProvider := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider.Shutdown, nil
}

func initGrpcConn(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	return conn, nil
}

func EarlyApplicationFailed(title, action string) string {
	result := `
-----------------------------------------
Application Failed to Start
-----------------------------------------

# What's wrong?
%s

# How to fix it?
%s

`

	result = fmt.Sprintf(result, title, action)
	return result
}
