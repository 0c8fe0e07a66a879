package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"guildconsole/application"
	"guildconsole/config"
	"guildconsole/database"
	"guildconsole/domain/sources"
	"guildconsole/domain/state"
	"guildconsole/infrastructure"
	"guildconsole/infrastructure/observability"
	"guildconsole/repository"
)

var hydrateCmd = &cobra.Command{
	Use:   "hydrate <guild-id>",
	Short: "Read a guild's settings from every remote source and print the guild section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		deriver, err := loadDeriver(cfg)
		if err != nil {
			return err
		}

		db, err := database.NewConnection(cmd.Context(), cfg.GetDatabaseURL())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		hydrator := application.NewHydrationOrchestrator(repository.NewSettingsSourceRepository(db), deriver, observability.GetMetrics())
		patch := hydrator.Hydrate(cmd.Context(), args[0])
		if patch == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "No remote settings found, showing defaults")
		}

		local := state.Reduce(state.New(), state.SyncGuilds{GuildIDs: args[:1]})
		local = state.Reduce(local, state.HydrateGuild{GuildID: args[0], Patch: patch})
		guild, _ := local.Record(args[0])

		return printJSON(cmd, guild.Settings.Guild)
	},
}

var pushCmd = &cobra.Command{
	Use:   "push <guild-id>",
	Short: "Write a guild section from the local snapshot to every remote source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Get()
		deriver, err := loadDeriver(cfg)
		if err != nil {
			return err
		}

		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		var natsClient *infrastructure.NATSClient
		if cfg.SnapshotBackend == config.SnapshotBackendNATS {
			natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
			if err := natsClient.Connect(ctx); err != nil {
				return err
			}
			defer natsClient.Close()
		}
		cache, err := snapshotCache(cfg, db, natsClient)
		if err != nil {
			return err
		}

		data, err := cache.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to read local snapshot: %w", err)
		}
		record, ok := state.DecodeSnapshot(data).Record(args[0])
		if !ok {
			return fmt.Errorf("guild %q is not in the local snapshot", args[0])
		}

		// The snapshot is written as is; hydrating first would replace it with the remote values
		persister := application.NewPersistenceOrchestrator(repository.NewSettingsSourceRepository(db), deriver, observability.GetMetrics())
		if err := persister.Persist(ctx, args[0], record.Settings.Guild); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Pushed guild %s to %d sources\n", args[0], len(sources.Names()))
		return nil
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
