// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"voiceover-studio/internal/config"
	"voiceover-studio/internal/domain/ports/adapter"
	"voiceover-studio/internal/infra/adapters/llm"
	"voiceover-studio/internal/infra/adapters/storage"
	"voiceover-studio/internal/infra/adapters/tts"
	pg "voiceover-studio/internal/infra/db/postgres"
	"voiceover-studio/internal/infra/logging"
	"voiceover-studio/internal/infra/metrics"
	red "voiceover-studio/internal/infra/redis"
	"voiceover-studio/internal/infra/web"
	"voiceover-studio/internal/infra/worker"
	"voiceover-studio/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop external adapters allowed)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	voiceoverRepo := pg.NewVoiceoverRepo(pool)
	collaboratorRepo := pg.NewCollaboratorRepo(pool)
	jobRepo := pg.NewGenerationJobRepo(pool, tm)
	userRepo := pg.NewUserRepo(pool)

	// ---- External adapters ----
	synthesizer, err := buildSynthesizer(ctx, cfg)
	if err != nil {
		log.Fatalf("tts adapter: %v", err)
	}
	annotator, err := buildAnnotator(ctx, cfg)
	if err != nil {
		log.Fatalf("llm adapter: %v", err)
	}
	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage adapter: %v", err)
	}

	// ---- Use cases ----
	collaboratorUC := usecase.NewCollaboratorUseCase(collaboratorRepo, voiceoverRepo, userRepo, logger)
	voiceoverUC := usecase.NewVoiceoverUseCase(voiceoverRepo, collaboratorRepo, logger)
	approvalUC := usecase.NewApprovalUseCase(voiceoverRepo, collaboratorRepo, logger)
	userUC := usecase.NewUserUseCase(userRepo, collaboratorUC, logger)
	generationUC := usecase.NewGenerationUseCase(
		voiceoverRepo, collaboratorRepo, jobRepo, tm,
		locker, synthesizer, annotator, store, logger,
	)

	// ---- Job worker ----
	workerPool := worker.NewPool(cfg.Worker.Count)
	workerPool.Start(ctx)
	processor := worker.NewGenerationProcessor(jobRepo, generationUC, cfg.Worker.PollInterval, logger)
	go processor.Start(ctx, workerPool)

	// ---- HTTP API ----
	auth := web.NewAuthManager(cfg.API.JWTSecret, cfg.API.SessionTTL)
	srv := web.NewServer(userUC, voiceoverUC, generationUC, collaboratorUC, approvalUC, jobRepo, auth, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
	cancel()
	workerPool.Stop()
}

// buildSynthesizer picks the TTS provider. Dev mode without a key gets the
// noop synthesizer so the full flow stays exercisable locally.
func buildSynthesizer(ctx context.Context, cfg *config.Config) (adapter.SpeechSynthesizer, error) {
	if cfg.TTS.GeminiKey != "" {
		return tts.NewGeminiSynthesizer(ctx, cfg.TTS.GeminiKey, cfg.TTS.GeminiURL, cfg.TTS.Model)
	}
	if cfg.Runtime.Dev {
		return tts.NewNoopSynthesizer(), nil
	}
	return nil, fmt.Errorf("no TTS provider configured: set tts.gemini_key")
}

// buildAnnotator picks the script annotation provider; "none" disables it.
func buildAnnotator(ctx context.Context, cfg *config.Config) (adapter.ScriptAnnotator, error) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		return llm.NewOpenAIAnnotator(cfg.LLM.OpenAIKey, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Temperature)
	case "gemini":
		return llm.NewGeminiAnnotator(ctx, cfg.LLM.GeminiKey, cfg.LLM.GeminiURL, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Temperature)
	case "", "none":
		return llm.NewNoopAnnotator(), nil
	default:
		return nil, fmt.Errorf("unknown llm.provider %q", cfg.LLM.Provider)
	}
}
