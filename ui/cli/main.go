// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for Fintrack using the
// Cobra library. It defines the root command, the db and migrate command
// trees, flags, and the main entry point for execution.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toeirei/fintrack/buildvars"
	"github.com/toeirei/fintrack/internal/config"
	"github.com/toeirei/fintrack/internal/db"
	"github.com/toeirei/fintrack/internal/i18n"
	"github.com/toeirei/fintrack/internal/logging"
	"github.com/toeirei/fintrack/internal/migrate"
	"github.com/toeirei/fintrack/internal/registry"
	"github.com/toeirei/fintrack/util/slicest"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)
var cfgFile string
var verbose bool
var showVersionFlag bool

var appConfig config.Config

// Session-scoped application services, wired once per execution by
// setupDefaultServices.
var reg *registry.Registry
var selector *db.Selector
var migrator *migrate.Migrator

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := map[string]any{
		"language": "en",
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	// A "file not found" error is expected on first run, so we handle it
	// specifically and write a default config for subsequent runs.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			log.Warnf("Warning: could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
		viper.Set("language", appConfig.Language)
	}

	i18n.Init(appConfig.Language)

	if verbose {
		logging.SetDebug(true)
		db.SetDebug(true)
	}

	reg = registry.New(nil)
	seedRegistry()
	selector = db.NewSelector(reg)
	migrator = migrate.NewMigrator(reg, selector, nil)

	return nil
}

// seedRegistry replays the persisted database entries into the fresh
// registry. Registration is best-effort: an unreachable backend is kept with
// its offline flag, and a failed activation degrades to no active config
// rather than blocking startup.
func seedRegistry() {
	for _, stored := range appConfig.Databases {
		cfg, err := reg.Add(stored.ToModel())
		if err != nil {
			log.Warnf("skipping persisted database %q: %v", stored.Name, err)
			continue
		}
		if stored.Active {
			if _, err := reg.SetActive(cfg.ID); err != nil {
				log.Warnf("could not re-activate %q: %v", cfg.Name, err)
			}
		}
	}
}

// persistRegistry writes the registry's current entries back to the config
// file so they survive restarts.
func persistRegistry() {
	appConfig.Databases = slicest.Map(reg.List(), config.StoredFromModel)
	if err := config.WriteConfigFile(&appConfig, false); err != nil {
		log.Warnf("Warning: could not persist database configurations: %v", err)
	}
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	rootCmd := NewRootCmd()
	return rootCmd.Execute()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return nil, fmt.Errorf("could not read --config flag: %w", err)
		}
		if path == "" {
			return nil, nil
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		return &path, nil
	}
	return nil, nil
}

// NewRootCmd creates and configures a new root cobra command. This function
// is used to create the main application command as well as fresh instances
// for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fintrack",
		Short: "Fintrack is a self-hosted personal finance tracker.",
		Long: `Fintrack keeps accounts, transactions, budgets, goals and bills in a
database you control. It runs on a local SQLite file out of the box and can
register, test and switch between PostgreSQL and MySQL backends, moving your
complete dataset between them with the migrate commands.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				v, c, d := resolveBuildVersion(nil)
				compositeVersion := v
				if c != "" && c != "dev" {
					compositeVersion = compositeVersion + " (" + c + ")"
				}
				if d != "" {
					compositeVersion = compositeVersion + " built: " + d
				}
				fmt.Printf("%s\n", compositeVersion)
				os.Exit(0)
			}
			return setupDefaultServices(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	v, c, d := resolveBuildVersion(nil)
	compositeVersion := v
	if c != "" && c != "dev" {
		compositeVersion = compositeVersion + " (" + c + ")"
	}
	if d != "" {
		compositeVersion = compositeVersion + " built: " + d
	}
	cmd.Version = compositeVersion

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (sets -v for DB logs)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Output language ("en", "de")`)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			resolvedVersion, resolvedCommit, resolvedDate := resolveBuildVersion(nil)
			fmt.Printf("version: %s\n", resolvedVersion)
			fmt.Printf("commit: %s\n", resolvedCommit)
			if resolvedDate != "" {
				fmt.Printf("built: %s\n", resolvedDate)
			}
		},
	}

	cmd.AddCommand(
		newDBCmd(),
		newMigrateCmd(),
		versionCmd,
	)

	return cmd
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime. This helper is separated to make unit testing straightforward.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	var ok bool
	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
			ok = true
		}
	} else {
		ok = true
	}

	if ok && info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}
