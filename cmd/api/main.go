package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/medchat/internal/config"
	"github.com/zhouzirui/medchat/internal/handler"
	"github.com/zhouzirui/medchat/internal/logging"
	"github.com/zhouzirui/medchat/internal/model/medical"
	"github.com/zhouzirui/medchat/internal/service/ai"
	"github.com/zhouzirui/medchat/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", zap.Error(envErr))
	}

	store := medical.NewMemoryStore(loadDataset(logger, cfg.Data.DatasetPath))
	logger.Info("medical dataset loaded", zap.Int("documents", store.Len()))

	generator, err := ai.New(ctx, cfg.AI)
	switch {
	case err != nil:
		logger.Warn("failed to initialize AI generator, continuing with template responses", zap.Error(err))
		generator = nil
	case generator == nil:
		logger.Info("no AI provider configured, using template responses")
	default:
		logger.Info("AI generator initialized", zap.String("provider", generator.Name()))
	}

	chatService := chat.NewService(store, generator, logger)

	router := handler.NewRouter(store, chatService, logger, handler.Options{
		FrontendDir: cfg.Server.FrontendDir,
	})

	startServer(ctx, logger, cfg.Server, router)
}

// loadDataset reads the dataset file, falling back to the built-in seed
// when it is missing or unreadable.
func loadDataset(logger *zap.Logger, path string) []medical.Document {
	docs, err := medical.LoadFile(path)
	if err == nil {
		return docs
	}
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("dataset not found, using built-in seed", zap.String("path", path))
	} else {
		logger.Error("failed to load dataset, using built-in seed", zap.String("path", path), zap.Error(err))
	}
	return medical.Seed()
}

func startServer(ctx context.Context, logger *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
	}

	logger.Info("medical chatbot backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
