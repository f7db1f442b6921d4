package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	Long:  `Applies every pending "up" migration for the configured STORE_DRIVER. The memory store has no schema.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, closeStore, err := openStore(cmd.Context(), true)
		if err != nil {
			return err
		}
		closeStore()
		return nil
	},
}
