package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/capevent/internal/model"
	"github.com/ppiankov/capevent/internal/pipeline"
	"github.com/ppiankov/capevent/internal/store"
	"github.com/ppiankov/capevent/internal/worker"
)

var (
	concurrency  int
	outPath      string
	batchDB      string
	rps          float64
	burst        int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <headlines.jsonl>",
	Short: "Extract capital events from a JSONL headline file in parallel",
	Long: `Batch extracts many headlines concurrently:
- Read one JSON headline per line ({"title", "publisher", "url", "published_at"})
- Skip blank lines, # comments and repeated publisher+url pairs
- Extract with a bounded worker pool, optionally paced per publisher host
- Write events as JSON lines and/or upsert them into SQLite

Example:
  capevent batch headlines.jsonl --out events.jsonl
  capevent batch headlines.jsonl --db ~/.capevent/events.db --concurrency 8
  capevent batch headlines.jsonl --rps 2 --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outPath, "out", "-", "output JSONL path (- for stdout, empty to skip)")
	batchCmd.Flags().StringVar(&batchDB, "db", "", "SQLite database to upsert events into (default from config)")
	batchCmd.Flags().Float64Var(&rps, "rps", -1, "extractions per second per publisher host (0 disables, default from config)")
	batchCmd.Flags().IntVar(&burst, "burst", 0, "rate limiter burst size (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	sess, err := setup(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	cfg := sess.cfg

	workers := cfg.Concurrency.Workers
	if concurrency > 0 {
		workers = concurrency
	}
	rate := cfg.RateLimiting.RequestsPerSecond
	if rps >= 0 {
		rate = rps
	}
	burstSize := cfg.RateLimiting.BurstSize
	if burst > 0 {
		burstSize = burst
	}
	dbPath := batchDB
	if dbPath == "" {
		dbPath = cfg.Store.DBPath
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  capevent Batch Extraction\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Input file:   %s\n", file)
	fmt.Fprintf(errOut, "  Workers:      %d\n", workers)
	if rate > 0 {
		fmt.Fprintf(errOut, "  Rate limit:   %.2f/s per host (burst %d)\n", rate, burstSize)
	}
	if outPath != "" {
		fmt.Fprintf(errOut, "  Output:       %s\n", outPath)
	}
	if dbPath != "" {
		fmt.Fprintf(errOut, "  Database:     %s\n", dbPath)
	}
	if name := sess.pipeline.OverlayName(); name != "" {
		fmt.Fprintf(errOut, "  Overlay:      %s/%s\n", name, cfg.Overlay.Model)
	}
	fmt.Fprintf(errOut, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(errOut, "\n")

	processor := worker.NewBatchProcessor(sess.pipeline, workers, rate, burstSize)

	start := time.Now()
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	events := make([]*model.CapitalEvent, len(results))
	stored := make([]*model.CapitalEvent, 0, len(results))
	for i, res := range results {
		if res.Error != nil {
			fmt.Fprintf(errOut, "✗ %s: %v\n", res.Headline.Title, res.Error)
			continue
		}
		events[i] = res.Event
		stored = append(stored, res.Event)
		if cfg.Output.Verbose {
			fmt.Fprintf(errOut, "✓ %-12s %s\n", res.Event.EventType, res.Headline.Title)
		}
	}

	renderer := pipeline.NewRenderer(false)
	switch outPath {
	case "":
	case "-":
		if err := renderer.WriteJSONL(cmd.OutOrStdout(), stored); err != nil {
			return fmt.Errorf("write events: %w", err)
		}
	default:
		if err := renderer.RenderJSONL(stored, outPath); err != nil {
			return fmt.Errorf("write events: %w", err)
		}
	}

	if dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := db.PutBatch(context.WithoutCancel(ctx), stored); err != nil {
			return fmt.Errorf("store events: %w", err)
		}
	}

	renderer.RenderSummary(errOut, pipeline.Summarize(events))
	sess.logger.Info("batch complete", "file", file, "headlines", len(results), "duration", time.Since(start).Round(time.Millisecond))

	if ctx.Err() != nil {
		return fmt.Errorf("batch interrupted: %w", ctx.Err())
	}
	return nil
}

// openStore opens the database named by the flag or the config
func openStore(flagPath string) (*store.Store, error) {
	path := flagPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Store.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no database: pass --db or set store.db_path")
	}
	if _, err := os.Stat(store.ExpandPath(path)); err != nil && path != store.MemoryPath {
		return nil, fmt.Errorf("database %s: %w", path, err)
	}
	return store.Open(path)
}
