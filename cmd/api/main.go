package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/studymate-app/web-ui/internal/api"
	"github.com/studymate-app/web-ui/internal/assistant"
	"github.com/studymate-app/web-ui/internal/notes"
	"github.com/studymate-app/web-ui/internal/pastpaper"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.slogLevel(),
	}))

	llm, err := cfg.LLM.llm(logger)
	if err != nil {
		log.Fatal(err)
	}

	store, err := notes.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	papers := pastpaper.NewManager(llm, store, logger)
	svc := assistant.NewService(llm, store, logger)
	server := api.NewServer(papers, svc, store, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := runServer(srv, logger); err != nil {
		log.Fatal(err)
	}
}

// runServer serves until the listener fails or a termination signal arrives,
// then shuts down gracefully.
func runServer(srv *http.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Study API starting", slog.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
