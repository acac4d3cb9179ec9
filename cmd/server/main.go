package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/civicsprep/backend/internal/api"
	"github.com/civicsprep/backend/internal/domain/questionbank"
	"github.com/civicsprep/backend/internal/grader"
	"github.com/civicsprep/backend/internal/infrastructure/config"
	"github.com/civicsprep/backend/internal/metrics"
	"github.com/civicsprep/backend/internal/service"
	"github.com/civicsprep/backend/internal/store"

	_ "github.com/civicsprep/backend/docs" // generated swagger docs
)

// @title           Civics Prep API
// @version         1.0
// @description     Practice quizzes for the U.S. civics test, with model-graded open-text answers.

// @host      localhost:8080
// @BasePath  /

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// ── Dependencies ────────────────────────────────────────────────
	bank, err := loadBank(cfg.QuestionBankPath)
	if err != nil {
		logger.Error("failed to load question bank", "path", cfg.QuestionBankPath, "error", err)
		os.Exit(1)
	}
	logger.Info("question bank loaded", "questions", bank.Len())

	db, err := store.NewSQLite(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	llm := grader.NewModelGrader(grader.ModelConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	gradingSvc := service.NewGradingService(llm, service.GradingOptions{
		ChunkSize: cfg.Grading.ChunkSize,
		Workers:   cfg.Grading.Workers,
	}, logger)
	quizSvc := service.NewQuizService(bank, gradingSvc, nil, logger)
	handler := api.NewHandler(db, quizSvc, gradingSvc, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → Metrics → mux ────────────
	chain := api.Logging(logger)(api.CORS(cfg.CORSAllowedOrigins)(api.Metrics(mux)))

	// ── Server ──────────────────────────────────────────────────────
	// One grading request may take two model attempts.
	writeTimeout := 2*cfg.LLM.Timeout + 30*time.Second
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"model", cfg.LLM.Model,
		"chunk_size", cfg.Grading.ChunkSize,
		"workers", cfg.Grading.Workers,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

// loadBank returns the embedded bank, or the one at path when set.
func loadBank(path string) (*questionbank.QuestionBank, error) {
	if path == "" {
		return questionbank.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return questionbank.Load(f)
}
