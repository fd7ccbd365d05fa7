package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	telegoBot "kgrelay-bot/bot"
	"kgrelay-bot/internal/config"
	"kgrelay-bot/internal/confirmation"
	"kgrelay-bot/internal/database"
	"kgrelay-bot/internal/dedup"
	"kgrelay-bot/internal/drafts"
	"kgrelay-bot/internal/handlers"
	"kgrelay-bot/internal/locales"
	"kgrelay-bot/internal/scheduler"
	"kgrelay-bot/internal/translation"

	sentry "github.com/getsentry/sentry-go"
	telego "github.com/mymmrac/telego"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	locales.Init(cfg.DefaultLanguage)

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		Release:          cfg.Version,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            cfg.Debug,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional post log
	var postLogger database.PostLogger = database.NopPostLogger{}
	if cfg.PostLogEnabled() {
		client, db, err := database.ConnectDB(ctx, cfg.MongoDBURI, cfg.MongoDBDatabase)
		if err != nil {
			sentry.CaptureException(err)
			log.Fatal(err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting from MongoDB: %v", err)
				sentry.CaptureException(err)
			} else {
				log.Println("Disconnected from MongoDB.")
			}
		}()
		postLogger = database.NewMongoLogger(db)
	}

	// --- Bot Initialization ---
	var bot *telego.Bot
	if cfg.Debug {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultDebugLogger())
	} else {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultLogger(false, true))
	}
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create telego bot: %v", err)
	}

	// Processed-album registry, emptied on a fixed interval
	registry := dedup.NewRegistry()
	sched := scheduler.New()
	err = sched.Register(scheduler.NewFuncJob("clear-media-group-ids", cfg.DedupResetInterval, func(context.Context) error {
		registry.Clear()
		return nil
	}))
	if err != nil {
		log.Fatalf("Failed to register scheduler job: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	confirmManager, err := confirmation.NewManager(confirmation.Deps{
		Bot:        bot,
		Store:      drafts.NewStore(),
		Registry:   registry,
		Translator: translation.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.TranslateTimeout),
		PostLogger: postLogger,
		ChannelID:  cfg.ChannelID,
		Debug:      cfg.Debug,
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	commands := handlers.NewCommandHandler()
	if err := telegoBot.Prepare(ctx, bot, commands); err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to start long polling: %v", err)
	}

	appBot, err := telegoBot.New(telegoBot.BotDeps{
		Bot:          bot,
		UpdatesChan:  updates,
		Debug:        cfg.Debug,
		Commands:     commands,
		Confirmation: confirmManager,
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	log.Printf("Bot started. Publishing to channel %d", cfg.ChannelID)
	// Blocks until the context is cancelled and in-flight updates are done
	appBot.Start(ctx)

	log.Println("Bot shutdown complete.")
}
