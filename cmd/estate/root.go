package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/estate"
	"github.com/aretw0/estate/internal/config"
	"github.com/aretw0/estate/internal/logging"
	"github.com/aretw0/estate/pkg/listings"
)

// app carries the state shared by every command of one invocation.
type app struct {
	verbose  bool
	envFile  string
	adapter  string
	dataDir  string
	jsonOut  bool
	yamlOut  bool
	readOnly bool

	cfg     *config.Config
	logger  *slog.Logger
	catalog *listings.Catalog
}

// newRootCmd represents the base command when called without any subcommands.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "estate",
		Short: "Manage the listings, reviews and copy of a real-estate site",
		Long: `estate keeps the agency's listings, client testimonials and site copy in a
key-value store (a directory of JSON files, process memory or Redis).
Missing or damaged records fall back to the built-in defaults.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.catalog != nil {
				return a.catalog.Store().Close()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.envFile, "env-file", "", "Read configuration from this .env file (default ./.env)")
	flags.StringVar(&a.adapter, "adapter", "", "Storage adapter: fs, memory or redis (default from ESTATE_ADAPTER)")
	flags.StringVar(&a.dataDir, "data-dir", "", "Data directory for the fs adapter (default from ESTATE_DATA_DIR)")
	flags.BoolVar(&a.jsonOut, "json", false, "Print results as JSON")
	flags.BoolVar(&a.yamlOut, "yaml", false, "Print results as YAML")
	flags.BoolVar(&a.readOnly, "read-only", false, "Open the data directory read-only")
	root.MarkFlagsMutuallyExclusive("json", "yaml")

	root.AddCommand(
		newConvertCmd(a),
		newListingsCmd(a),
		newReviewsCmd(a),
		newContentCmd(a),
		newSeedCmd(a),
		newWatchCmd(a),
		newSuggestCmd(a),
		newStatusCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var envFiles []string
	if a.envFile != "" {
		envFiles = append(envFiles, a.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	if a.adapter != "" {
		cfg.Adapter = a.adapter
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Writer: cmd.ErrOrStderr(),
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Color:  cfg.Log.Color,
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

// openCatalog opens the configured store once per invocation.
func (a *app) openCatalog(ctx context.Context) (*listings.Catalog, error) {
	if a.catalog != nil {
		return a.catalog, nil
	}

	opts := []estate.Option{
		estate.WithAdapter(a.cfg.Adapter),
		estate.WithLogger(a.logger),
		estate.WithReadOnly(a.readOnly),
	}
	if a.cfg.Adapter == estate.AdapterRedis {
		opts = append(opts, estate.WithRedis(a.cfg.Redis.Password, a.cfg.Redis.DB, a.cfg.Redis.Prefix))
	}

	catalog, err := estate.OpenCatalog(ctx, a.cfg.URI(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	a.catalog = catalog
	return catalog, nil
}
