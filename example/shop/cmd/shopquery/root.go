package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/query-criteria-go/criteria/oteladapters"
	"github.com/AntonStoeckl/query-criteria-go/criteria/sqlengine"
	"github.com/AntonStoeckl/query-criteria-go/example/shop/config"
	"github.com/AntonStoeckl/query-criteria-go/testutil/fixtures"
)

const serviceName = "shopquery"

const (
	formatText = "text"
	formatJSON = "json"
)

var validFormats = []string{formatText, formatJSON}

// RootOptions holds global flags and what the root command set up for the subcommands.
type RootOptions struct {
	ConfigPath   string
	Format       string
	Verbose      bool
	Seed         bool
	OTLPEndpoint string

	database  *config.Database
	providers *config.ObservabilityProviders
}

// NewRootCommand creates the shopquery root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "shopquery",
		Short: "Run declarative queries against the shop example",
		Long: `Run declarative product and order queries against the shop example database.

The database is configured through shopquery.yaml in --config or CRITERIA_* environment
variables (CRITERIA_ADAPTER_TYPE, CRITERIA_DRIVER, CRITERIA_DIALECT, CRITERIA_DSN).
An in-memory SQLite database is seeded with the example data automatically.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}

			if err := opts.open(cmd.Context()); err != nil {
				_ = opts.close()
				return err
			}

			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return opts.close()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", ".", "directory to read shopquery.yaml from")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", formatText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log executed sql to stderr")
	cmd.PersistentFlags().BoolVar(&opts.Seed, "seed", false, "create the example tables and rows before querying")
	cmd.PersistentFlags().StringVar(&opts.OTLPEndpoint, "otlp-endpoint", "", "export traces and metrics over OTLP gRPC, e.g. "+config.OTELCollectorEndpoint())

	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))

	return cmd
}

func (o *RootOptions) open(ctx context.Context) error {
	cfg, err := config.LoadDatabaseConfig(config.NewViper(), o.ConfigPath)
	if err != nil {
		return err
	}

	options, err := o.engineOptions(ctx)
	if err != nil {
		return err
	}

	database, err := config.Open(ctx, cfg, options...)
	if err != nil {
		return err
	}

	o.database = database

	if o.Seed || (cfg.Driver == config.DriverSQLite3 && cfg.DSN == config.SQLiteMemoryDSN) {
		return o.seed(ctx)
	}

	return nil
}

func (o *RootOptions) engineOptions(ctx context.Context) ([]sqlengine.Option, error) {
	var options []sqlengine.Option

	if o.Verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		options = append(options, sqlengine.WithLogger(logger))
	}

	if o.OTLPEndpoint == "" {
		return options, nil
	}

	providers, err := config.NewObservabilityConfig(ctx, serviceName, o.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("setting up opentelemetry: %w", err)
	}

	o.providers = providers

	return append(options,
		sqlengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter(serviceName))),
		sqlengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer(serviceName))),
		sqlengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger(serviceName)),
	), nil
}

func (o *RootOptions) seed(ctx context.Context) error {
	db, err := o.database.SQLX()
	if err != nil {
		return fmt.Errorf("seeding needs the %s adapter: %w", config.AdapterSQLX, err)
	}

	return fixtures.Load(ctx, db)
}

func (o *RootOptions) close() error {
	if o.database != nil {
		o.database.Close()
		o.database = nil
	}

	if o.providers != nil {
		err := o.providers.Shutdown()
		o.providers = nil

		return err
	}

	return nil
}

func (o *RootOptions) engine() sqlengine.Engine {
	return o.database.Engine
}
