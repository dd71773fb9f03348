package main

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-digest/internal/infrastructure/database"
)

func newMigrateCommand(deps *commandDeps, flags *rootFlags) *cobra.Command {
	var maxSteps int

	cmd := &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back the embedded database migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var direction migrate.MigrationDirection
			switch args[0] {
			case "up":
				direction = migrate.Up
			case "down":
				direction = migrate.Down
			default:
				return fmt.Errorf("unknown direction %q, want up or down", args[0])
			}

			cfg, log, err := deps.setup(flags)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.NewPostgresDB(cfg, log)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			n, err := database.Migrate(db, direction, maxSteps, log)
			if err != nil {
				return err
			}
			return writeOutput(deps.Stdout, flags.output,
				map[string]interface{}{"direction": args[0], "applied": n},
				fmt.Sprintf("✅ Applied %d migration(s) %s", n, args[0]))
		},
	}

	cmd.Flags().IntVar(&maxSteps, "max", 0, "Maximum migrations to apply (0 = all)")
	return cmd
}
