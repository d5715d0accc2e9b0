package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fineart/config"
	"fineart/database"
	"fineart/internal/catalog"
	"fineart/internal/infra/logger"
	"fineart/internal/store"
)

func newMigrateCmd() *cobra.Command {
	var skipBackfill bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the schema and rewrite legacy rows",
		Long: `migrate creates or updates every table, rewrites boards still stored with
the old "table" layout to "list", and links legacy artworks and exhibitions to
their artist by normalised name. Artists sharing a name are left unlinked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadEnv()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Open(cfg.DBURL, cfg.IsDevelopment(), log)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info("schema migrated")

			ctx := cmd.Context()
			st := store.New(db)
			n, err := st.RewriteLegacyLayouts(ctx)
			if err != nil {
				return fmt.Errorf("rewrite legacy layouts: %w", err)
			}
			log.Info("legacy board layouts rewritten", zap.Int64("boards", n))

			if skipBackfill {
				return nil
			}
			report, err := catalog.Backfill(ctx, st, log)
			if err != nil {
				return fmt.Errorf("artist backfill: %w", err)
			}
			for _, name := range report.Ambiguous {
				cmd.Printf("ambiguous artist name left unlinked: %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipBackfill, "skip-backfill", false, "do not link legacy rows to artists")
	return cmd
}
