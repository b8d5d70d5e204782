// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toeirei/fintrack/internal/i18n"
	"github.com/toeirei/fintrack/internal/model"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move the dataset between database backends",
	}
	cmd.AddCommand(
		newMigrateRunCmd(),
		newMigrateListCmd(),
		newMigrateStatusCmd(),
	)
	return cmd
}

func newMigrateRunCmd() *cobra.Command {
	var fromID int64
	var toID int64
	cmd := &cobra.Command{
		Use:   "run --to <config-id> [--from <config-id>]",
		Short: "Migrate all data into a registered target backend",
		Long: `Copies the complete dataset into the target configuration. Without
--from the source is the currently active backend; with --from it is the
given registered configuration. The target keeps whatever was written if a
run fails partway; re-running after fixing the cause is safe for empty
targets.

Example:
  fintrack migrate run --to 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var from *int64
			if cmd.Flags().Changed("from") {
				from = &fromID
			}

			fmt.Println(i18n.T("migrate.started"))
			logID, err := migrator.Migrate(from, toID)
			if err != nil {
				if logID != 0 {
					fmt.Printf("%s (run %d): %v\n", i18n.T("migrate.failed"), logID, err)
				} else {
					fmt.Printf("%s: %v\n", i18n.T("migrate.failed"), err)
				}
				return err
			}

			log, err := reg.GetMigration(logID)
			if err != nil {
				return err
			}
			fmt.Printf("%s (run %d, %d records)\n", i18n.T("migrate.completed"), logID, log.RecordsMigrated)
			return nil
		},
	}
	cmd.Flags().Int64Var(&fromID, "from", 0, "Source configuration id (defaults to the active backend)")
	cmd.Flags().Int64Var(&toID, "to", 0, "Target configuration id")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newMigrateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded migration runs",
		Run: func(cmd *cobra.Command, args []string) {
			logs := reg.ListMigrations()
			if len(logs) == 0 {
				fmt.Println(i18n.T("migrate.list_empty"))
				return
			}
			for _, l := range logs {
				fmt.Printf("%3d  %-28s %-12s %6d records  %s\n",
					l.ID, migrationRoute(l), l.Status, l.RecordsMigrated,
					l.StartedAt.Format("2006-01-02 15:04:05"))
			}
		},
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <run-id>",
		Short: "Show the details of a migration run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			l, err := reg.GetMigration(id)
			if err != nil {
				return err
			}
			fmt.Printf("run:     %d\n", l.ID)
			fmt.Printf("route:   %s\n", migrationRoute(l))
			fmt.Printf("status:  %s\n", l.Status)
			fmt.Printf("records: %d\n", l.RecordsMigrated)
			fmt.Printf("started: %s\n", l.StartedAt.Format("2006-01-02 15:04:05"))
			if l.CompletedAt != nil {
				fmt.Printf("ended:   %s\n", l.CompletedAt.Format("2006-01-02 15:04:05"))
			}
			if l.ErrorMessage != "" {
				fmt.Printf("error:   %s\n", l.ErrorMessage)
			}
			return nil
		},
	}
}

func migrationRoute(l model.MigrationLog) string {
	from := "active backend"
	if l.FromProvider != nil {
		from = string(*l.FromProvider)
	}
	return fmt.Sprintf("%s -> %s", from, l.ToProvider)
}
