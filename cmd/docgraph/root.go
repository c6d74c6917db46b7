package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TheCaptain1810/neo4j-ogm/internal/config"
	"github.com/TheCaptain1810/neo4j-ogm/internal/graph"
	"github.com/TheCaptain1810/neo4j-ogm/internal/logger"
	"github.com/TheCaptain1810/neo4j-ogm/internal/storage"
)

var rootFlags struct {
	envFile  string
	driver   string
	dsn      string
	logLevel string
	noColor  bool
}

var rootCmd = &cobra.Command{
	Use:   "docgraph",
	Short: "Document graph store with atomic creation, cascade deletion and JSON export",
	Long: `docgraph stores documents together with their users, folders, sessions,
metadata, versions, classifications and edits as a typed graph.

Configuration is read from DOCGRAPH_* environment variables and an optional
.env file. Flags override the environment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if rootFlags.noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.envFile, "env-file", "", "env file to load (default: ./.env when present)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.driver, "driver", "", "store driver: sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&rootFlags.dsn, "dsn", "", "SQLite file path or PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(serveCmd, seedCmd, exportCmd, wipeCmd)
}

// app bundles the resources every subcommand needs.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	store  storage.Store
	engine *graph.Engine
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(rootFlags.envFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Store.Driver = rootFlags.driver
	}
	if flags.Changed("dsn") {
		cfg.Store.DSN = rootFlags.dsn
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = rootFlags.logLevel
	}
	if flags.Changed("transport") {
		cfg.Transport = serveFlags.transport
	}
	if flags.Changed("addr") {
		cfg.HTTPAddr = serveFlags.addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Store, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		engine: graph.NewEngine(store, log),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close store", zap.Error(err))
	}
	_ = a.log.Sync()
}
