package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the contacts table or collection and its indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, l, err := bootstrap()
		if err != nil {
			return err
		}
		defer l.Sync()

		ctx := cmd.Context()
		st, err := openStore(ctx, l, c)
		if err != nil {
			return err
		}
		defer st.Close(ctx)

		if err := st.Migrate(ctx); err != nil {
			return err
		}
		l.Info("Migration complete", zap.String("store", c.StoreDriver()))
		return nil
	},
}
