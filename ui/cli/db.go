// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/toeirei/fintrack/internal/db"
	"github.com/toeirei/fintrack/internal/i18n"
	"github.com/toeirei/fintrack/internal/model"
	"github.com/toeirei/fintrack/internal/probe"
	"github.com/toeirei/fintrack/internal/registry"
)

// Flags for `db add`.
var (
	addName             string
	addProvider         string
	addConnectionString string
	addHost             string
	addPort             int
	addUsername         string
	addPassword         string
	addDatabase         string
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage database backends",
		Long:  `Register, test, activate and remove the database backends Fintrack can store its data in.`,
	}
	cmd.AddCommand(
		newDBListCmd(),
		newDBAddCmd(),
		newDBTestCmd(),
		newDBActivateCmd(),
		newDBRemoveCmd(),
		newDBMaintainCmd(),
	)
	return cmd
}

func newDBListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered database configurations",
		Run: func(cmd *cobra.Command, args []string) {
			configs := reg.List()
			if len(configs) == 0 {
				fmt.Println(i18n.T("db.list_empty"))
				return
			}
			fmt.Println(i18n.T("db.list_header"))
			for _, cfg := range configs {
				marker := " "
				if cfg.IsActive {
					marker = "*"
				}
				status := "offline"
				if cfg.IsConnected {
					status = "connected"
				}
				fmt.Printf("%s %3d  %-20s %-24s %s\n", marker, cfg.ID, cfg.Name, cfg.Provider, status)
			}
		},
	}
}

func newDBAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new database configuration",
		Long: `Registers a database backend. The connection is tested immediately; an
unreachable target is still registered and marked offline so it can be
activated later once it comes up.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := model.Provider(addProvider)
			if !provider.Valid() {
				return fmt.Errorf("unknown provider %q (valid: %v)", addProvider, model.AllProviders)
			}

			password := addPassword
			if password == "" && provider.Managed() && term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Print(i18n.T("db.password_prompt"))
				bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
				if err != nil {
					return fmt.Errorf("could not read password: %w", err)
				}
				password = string(bytePassword)
				fmt.Println()
			}

			cfg, err := reg.Add(model.DatabaseConfig{
				Name:             addName,
				Provider:         provider,
				ConnectionString: addConnectionString,
				Host:             addHost,
				Port:             addPort,
				Username:         addUsername,
				Password:         password,
				Database:         addDatabase,
			})
			if err != nil {
				return err
			}
			persistRegistry()

			if cfg.IsConnected {
				fmt.Printf("%s (id %d)\n", i18n.T("db.added"), cfg.ID)
			} else {
				fmt.Printf("%s (id %d)\n", i18n.T("db.added_offline"), cfg.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addName, "name", "", "Display name for the configuration")
	cmd.Flags().StringVar(&addProvider, "provider", "", "Provider (e.g. generic-postgres, generic-mysql)")
	cmd.Flags().StringVar(&addConnectionString, "connection-string", "", "Full connection string (overrides individual fields)")
	cmd.Flags().StringVar(&addHost, "host", "", "Database host")
	cmd.Flags().IntVar(&addPort, "port", 0, "Database port")
	cmd.Flags().StringVar(&addUsername, "username", "", "Database user")
	cmd.Flags().StringVar(&addPassword, "password", "", "Database password (prompted when omitted)")
	cmd.Flags().StringVar(&addDatabase, "database", "", "Database name")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("provider")

	return cmd
}

func newDBTestCmd() *cobra.Command {
	var retries int
	cmd := &cobra.Command{
		Use:   "test <id>",
		Short: "Test the connection of a registered configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cfg, err := reg.Get(id)
			if err != nil {
				return err
			}

			res := probe.TestWithRetry(cfg, retries)
			if res.Success {
				fmt.Printf("%s (%d ms)\n", i18n.T("db.test_success"), res.LatencyMs)
				return nil
			}
			fmt.Printf("%s: %s\n", i18n.T("db.test_failure"), res.Error)
			os.Exit(1)
			return nil
		},
	}
	cmd.Flags().IntVar(&retries, "retries", 0, "Number of retries with backoff on failure")
	return cmd
}

func newDBActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Make a configuration the active backend",
		Long: `Activates a registered configuration. The target is probed first; a
configuration that cannot be reached is not activated and the previous
active backend stays in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cfg, err := reg.SetActive(id)
			if err != nil {
				return err
			}
			// Drop the cached backend so the next data access opens the
			// newly activated one.
			selector.Reset()
			persistRegistry()
			fmt.Printf("%s: %s\n", i18n.T("db.activated"), cfg.Name)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
}

func newDBRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a registered configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := reg.Remove(id); err != nil {
				if errors.Is(err, registry.ErrActiveConfigInUse) {
					return fmt.Errorf("cannot remove the active configuration; activate another one first")
				}
				return err
			}
			persistRegistry()
			fmt.Println(i18n.T("db.removed"))
			return nil
		},
	}
}

func newDBMaintainCmd() *cobra.Command {
	var timeoutSec int
	cmd := &cobra.Command{
		Use:   "maintain",
		Short: "Run database maintenance (VACUUM/OPTIMIZE) for the active backend",
		Long:  `Runs engine-specific maintenance tasks (VACUUM, OPTIMIZE TABLE, PRAGMA optimize) against the active database configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := reg.ActiveConfig()
			if cfg == nil {
				return fmt.Errorf("no active database configuration")
			}
			dialect, ok := cfg.Provider.Dialect()
			if !ok {
				return fmt.Errorf("provider %q has no SQL backend to maintain", cfg.Provider)
			}

			if timeoutSec > 0 {
				done := make(chan error, 1)
				go func() {
					done <- db.RunDBMaintenance(dialect, cfg.DSN())
				}()
				select {
				case err := <-done:
					if err != nil {
						return fmt.Errorf("maintenance failed: %w", err)
					}
				case <-time.After(time.Duration(timeoutSec) * time.Second):
					fmt.Println("Maintenance timed out")
					os.Exit(2)
				}
			} else if err := db.RunDBMaintenance(dialect, cfg.DSN()); err != nil {
				return fmt.Errorf("maintenance failed: %w", err)
			}

			fmt.Println(i18n.T("db.maintain_done"))
			return nil
		},
	}
	cmd.Flags().IntVar(&timeoutSec, "timeout", 0, "Timeout in seconds for maintenance (0 means no timeout)")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
