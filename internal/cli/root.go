package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/capevent/internal/logging"
	"github.com/ppiankov/capevent/internal/model"
	"github.com/ppiankov/capevent/internal/ontology"
	"github.com/ppiankov/capevent/internal/pipeline"
)

var (
	cfgFile      string
	verbose      bool
	ontologyPath string
	logLevel     string
	logFile      string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "capevent",
	Short: "capevent - Capital event extraction from news headlines",
	Long: `capevent turns business news headlines into structured capital events:
funding rounds, investments, acquisitions, mergers, partnerships, launches,
IPO filings, valuations, executive changes and contracts.

Extraction is deterministic and rule-based. An optional inference overlay
can refine low-confidence results; it never removes what the rules found.

Every event carries two gates: ACCEPT/REJECT for storage and graph_safe
for writing relationships into a knowledge graph.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// ExecuteContext runs the root command; cancelling ctx stops batches and
// the ontology watcher
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the engine version and the event schema version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "capevent v%s (%s)\n", model.EngineVersion, model.SchemaVersion)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.capevent/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&ontologyPath, "ontology", "", "known-entity list (.yaml, .json or one name per line)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file instead of stderr")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("ontology.path", rootCmd.PersistentFlags().Lookup("ontology"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// envKeys are read from CAPEVENT_* even without a config file entry
var envKeys = []string{
	"ontology.path", "ontology.url", "ontology.watch",
	"overlay.provider", "overlay.model", "overlay.api_key", "overlay.base_url",
	"store.db_path",
	"log.level", "log.format", "log.file",
	"rate_limiting.requests_per_second", "concurrency.workers",
	"cache.enabled", "cache.dir",
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.capevent")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// CAPEVENT_OVERLAY_PROVIDER -> overlay.provider
	viper.SetEnvPrefix("CAPEVENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers viper values over the defaults and fills provider
// credentials from the conventional environment variables
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
		cfg.Output.Verbose = true
	}

	switch strings.ToLower(cfg.Overlay.Provider) {
	case "openai":
		if cfg.Overlay.APIKey == "" {
			cfg.Overlay.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.Overlay.APIKey == "" {
			cfg.Overlay.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.Overlay.BaseURL == "" {
			cfg.Overlay.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
	return cfg, nil
}

// session bundles what every extraction command needs
type session struct {
	cfg      *model.Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	closer   io.Closer
}

func (r *session) Close() {
	_ = r.closer.Close()
}

// setup loads config, builds the logger and a pipeline with its ontology
// loaded. With ontology.watch set the file is reloaded until ctx is done.
func setup(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	registry := ontology.NewRegistry()
	if err := loadOntology(ctx, cfg.Ontology, registry, logger); err != nil {
		_ = closer.Close()
		return nil, err
	}

	p := pipeline.NewPipeline(cfg,
		pipeline.WithLogger(logger),
		pipeline.WithOntology(registry),
	)
	if name := p.OverlayName(); name != "" {
		logger.Info("inference overlay enabled", "provider", name, "model", cfg.Overlay.Model)
	}

	return &session{cfg: cfg, logger: logger, pipeline: p, closer: closer}, nil
}

// loadOntology fills registry from the configured file and URL
func loadOntology(ctx context.Context, cfg model.OntologyConfig, registry *ontology.Registry, logger *slog.Logger) error {
	var names []string

	if cfg.Path != "" {
		fromFile, err := ontology.LoadFile(cfg.Path)
		if err != nil {
			return fmt.Errorf("load ontology: %w", err)
		}
		names = append(names, fromFile...)
	}

	if cfg.URL != "" {
		fetcher := ontology.NewFetcher(ontology.FetcherOptions{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
			MaxBytes:  cfg.MaxBytes,
		})
		fromURL, err := fetcher.Fetch(ctx, cfg.URL)
		if err != nil {
			return fmt.Errorf("fetch ontology: %w", err)
		}
		names = append(names, fromURL...)
	}

	if len(names) == 0 {
		return nil
	}

	snap := registry.SetKnownEntities(names)
	logger.Debug("ontology loaded", "entities", snap.Len(), "path", cfg.Path, "url", cfg.URL)

	if cfg.Watch && cfg.Path != "" {
		go func() {
			if err := ontology.Watch(ctx, cfg.Path, registry, logger); err != nil {
				logger.Warn("ontology watch stopped", "path", cfg.Path, "error", err)
			}
		}()
	}
	return nil
}
