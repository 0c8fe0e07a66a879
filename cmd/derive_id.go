package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"guildconsole/config"
)

var deriveIDCmd = &cobra.Command{
	Use:   "derive-id <guild-id>...",
	Short: "Print the remote identifier of each guild id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deriver, err := loadDeriver(config.Get())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, guildID := range args {
			externalID, ok := deriver.Derive(guildID)
			if !ok {
				return fmt.Errorf("guild id %q has no external id", guildID)
			}
			fmt.Fprintf(out, "%s\t%d\n", guildID, externalID)
		}
		return nil
	},
}
