package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"guildconsole/config"
	"guildconsole/domain/identity"
)

var overridesFile string

var rootCmd = &cobra.Command{
	Use:           "guildconsole",
	Short:         "Guild settings console and synchronization service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(config.Get())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&overridesFile, "overrides", "", "YAML file with guild id overrides (defaults to GUILD_ID_OVERRIDES_FILE)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(deriveIDCmd)
	rootCmd.AddCommand(hydrateCmd)
	rootCmd.AddCommand(pushCmd)
}

// Execute runs the root command until it returns or the process is signalled
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func configureLogging(cfg *config.Config) {
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// loadDeriver builds the identifier deriver with the configured overrides
func loadDeriver(cfg *config.Config) (*identity.Deriver, error) {
	path := overridesFile
	if path == "" {
		path = cfg.GuildIDOverridesFile
	}
	if path == "" {
		return identity.NewDeriver(nil), nil
	}

	overrides, err := identity.LoadOverridesFile(path)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"path":      path,
		"overrides": len(overrides),
	}).Info("Loaded guild id overrides")
	return identity.NewDeriver(overrides), nil
}
