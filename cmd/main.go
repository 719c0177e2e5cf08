package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pneumo-bot/config"
	"pneumo-bot/internal/api/rest"
	telegram "pneumo-bot/internal/api/telegram"
	"pneumo-bot/internal/container"
	"pneumo-bot/internal/infrastructure/explainer"
	"pneumo-bot/internal/infrastructure/logging"
	"pneumo-bot/internal/infrastructure/onnx"
	"pneumo-bot/internal/infrastructure/storage"
	"pneumo-bot/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Уровень из конфига ещё не прочитан
		boot := logging.New("info", true, os.Stderr)
		boot.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.LogPretty, os.Stderr)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Service stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Без модели сервис не поднимается
	classifier, err := onnx.NewClassifier(onnx.Config{
		ModelPath:   cfg.ModelPath,
		LibraryPath: cfg.OnnxLibraryPath,
		InputName:   cfg.ModelInputName,
		OutputName:  cfg.ModelOutputName,
	}, log)
	if err != nil {
		return err
	}
	defer classifier.Close()

	expl, err := explainer.New(explainer.Config{
		Provider: explainer.Provider(cfg.ExplainerProvider),
		APIKey:   cfg.ExplainerAPIKey(),
		Model:    cfg.ExplainerModel(),
		BaseURL:  cfg.ExplainerBaseURL(),
		Timeout:  cfg.ExplainTimeout,
	}, log)
	if err != nil {
		return err
	}

	// Создаём хранилище состояний чата
	userRepo := storage.NewMemoryUserRepository()

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, vision.NewNormalizer(), classifier, expl, log)

	handler := rest.NewHandler(appContainer.DiagnosisService, appContainer.UserService, classifier, cfg.MaxUploadBytes, log)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("explainer", expl.Name()).Msg("HTTP API is running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.DiagnosisService, log)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			log.Info().Msg("Bot is running...")
			return bot.Run(gctx)
		})
	} else {
		log.Info().Msg("TELEGRAM_TOKEN is not set, bot disabled")
	}

	return g.Wait()
}
