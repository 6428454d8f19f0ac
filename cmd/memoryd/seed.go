package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/memoryd/internal/config"
	"github.com/fyrsmithlabs/memoryd/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the built-in attribute masters",
	Long: `Insert the default attribute masters into the store.

Seeding is idempotent: a store that already has masters is left
untouched.

Examples:
  memoryd seed
  memoryd seed --config ./memoryd.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Store)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		inserted, err := st.Seed(cmd.Context())
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}

		if inserted == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "store already seeded")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d attribute masters\n", inserted)
		}
		return nil
	},
}
