package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wanjiku/cortex-avatar/backend/internal/config"
	"github.com/wanjiku/cortex-avatar/backend/internal/handler"
	"github.com/wanjiku/cortex-avatar/backend/internal/service/ai"
	"github.com/wanjiku/cortex-avatar/backend/internal/service/chat"
	"github.com/wanjiku/cortex-avatar/backend/internal/service/speech"
	"github.com/wanjiku/cortex-avatar/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	st, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("failed to open chat store at %s: %v", cfg.Storage.DBPath, err)
	}
	defer st.Close()

	if cfg.Storage.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.Storage.RetentionDays)
		if removed, err := st.DeleteOlderThan(ctx, cutoff); err != nil {
			log.Printf("warning: retention sweep failed: %v", err)
		} else if removed > 0 {
			log.Printf("retention sweep removed %d stale chats", removed)
		}
	}

	// Initialize AI service
	var aiService *ai.Service
	if cfg.AI.Enabled() {
		aiService, err = ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality - check the Gemini environment variables")
		} else {
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Gemini credentials not configured, skipping AI initialization")
	}

	// Initialize speech synthesis
	var synthesizer *speech.Synthesizer
	if cfg.Speech.Enabled {
		client := speech.NewEdgeTTSClient(cfg.Speech.Voice, cfg.Speech.Format)
		synthesizer = speech.NewSynthesizer(client, cfg.Speech.TempDir)
		log.Println("Speech service initialized successfully")
	} else {
		log.Println("Speech synthesis disabled by configuration")
	}

	var modelSvc chat.ModelService
	if aiService != nil {
		modelSvc = aiService
	}
	var speechSvc chat.SpeechService
	if synthesizer != nil {
		speechSvc = synthesizer
	}

	turnSvc := chat.NewService(st, modelSvc, speechSvc, cfg.AI.TimeZone, cfg.AI.MaxMessageLength, cfg.Server.Development)

	router := handler.NewRouter(cfg.Server, turnSvc, st)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Cortex avatar backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
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
