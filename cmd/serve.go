package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"guildconsole/api"
	"guildconsole/application"
	"guildconsole/bot"
	"guildconsole/config"
	"guildconsole/database"
	"guildconsole/domain/interfaces"
	"guildconsole/domain/state"
	"guildconsole/events"
	"guildconsole/infrastructure"
	"guildconsole/infrastructure/observability"
	"guildconsole/repository"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the console API and the Discord guild tracker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), config.Get())
	},
}

// Run initializes and starts the service, blocking until ctx is cancelled
func Run(ctx context.Context, cfg *config.Config) error {
	log.WithField("environment", cfg.Environment).Info("Starting guild console...")

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics := observability.GetMetrics()
	defer func() {
		if err := observability.ShutdownGlobalMetrics(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to shut down metrics")
		}
	}()

	deriver, err := loadDeriver(cfg)
	if err != nil {
		return err
	}

	log.Info("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	bus := events.NewBus()
	subscribeFeedbackLog(bus)

	var feedback interfaces.FeedbackPublisher = bus
	var natsClient *infrastructure.NATSClient
	if cfg.NATSEnabled {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return err
		}
		defer natsClient.Close()

		publisher := infrastructure.NewNATSFeedbackPublisher(natsClient, infrastructure.NewEventSubjectMapper(), bus)
		if err := publisher.EnsureFeedbackStream(); err != nil {
			return fmt.Errorf("failed to ensure feedback stream: %w", err)
		}
		feedback = publisher
	}

	cache, err := snapshotCache(cfg, db, natsClient)
	if err != nil {
		return err
	}
	mirror := application.NewSnapshotMirror(cache, cfg.SnapshotDebounce, metrics)

	console := application.NewSettingsConsole(repository.NewSettingsSourceRepository(db), deriver, mirror, feedback, metrics)
	console.Load(ctx, cache, nil)

	var discordBot *bot.Bot
	if cfg.DiscordToken != "" {
		discordBot, err = bot.New(bot.Config{Token: cfg.DiscordToken}, bot.NewGuildTracker(console, deriver))
		if err != nil {
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
	} else {
		log.Warn("DISCORD_TOKEN not set, guilds come from the snapshot and PUT /api/guilds/{guildID}")
	}

	server := api.NewServer(cfg.APIAddr, api.NewHandler(console), cfg.CORSAllowedOrigins)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Guilds restored from the snapshot are in scope before any listing arrives
		console.HydrateAll(gctx)
		return nil
	})
	g.Go(func() error {
		log.WithField("addr", cfg.APIAddr).Info("Console API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("console API failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down guild console...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Failed to shut down console API")
		}
		if discordBot != nil {
			if err := discordBot.Close(); err != nil {
				log.WithError(err).Warn("Error closing Discord bot")
			}
		}
		if err := mirror.Close(shutdownCtx); err != nil {
			log.WithError(err).Warn("Failed to flush local settings snapshot")
		}
		return nil
	})

	return g.Wait()
}

func snapshotCache(cfg *config.Config, db *database.DB, natsClient *infrastructure.NATSClient) (interfaces.SnapshotCache, error) {
	switch cfg.SnapshotBackend {
	case config.SnapshotBackendNATS:
		cache, err := infrastructure.NewNATSSnapshotCache(natsClient, state.SnapshotKey)
		if err != nil {
			return nil, fmt.Errorf("failed to open NATS snapshot cache: %w", err)
		}
		return cache, nil
	default:
		return repository.NewSnapshotRepository(db), nil
	}
}

// subscribeFeedbackLog logs every feedback event the way a toast would show it
func subscribeFeedbackLog(bus *events.Bus) {
	bus.Subscribe(events.EventTypeSettingsSaved, func(_ context.Context, event events.Event) {
		if e, ok := event.(events.SettingsSavedEvent); ok {
			log.WithFields(log.Fields{"guildID": e.GuildID, "section": e.Section}).Info("Settings saved")
		}
	})
	bus.Subscribe(events.EventTypeSettingsSaveFailed, func(_ context.Context, event events.Event) {
		if e, ok := event.(events.SettingsSaveFailedEvent); ok {
			log.WithFields(log.Fields{"guildID": e.GuildID, "section": e.Section, "failures": e.Failures}).Warn("Settings save failed")
		}
	})
	bus.Subscribe(events.EventTypeSettingsReset, func(_ context.Context, event events.Event) {
		if e, ok := event.(events.SettingsResetEvent); ok {
			log.WithFields(log.Fields{"guildID": e.GuildID, "section": e.Section}).Info("Settings reset to defaults")
		}
	})
	bus.Subscribe(events.EventTypeGuildHydrated, func(_ context.Context, event events.Event) {
		if e, ok := event.(events.GuildHydratedEvent); ok {
			log.WithFields(log.Fields{"guildID": e.GuildID, "externalID": e.ExternalID, "found": e.Found}).Info("Guild settings hydrated")
		}
	})
}
