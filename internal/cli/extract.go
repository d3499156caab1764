package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/capevent/internal/model"
	"github.com/ppiankov/capevent/internal/pipeline"
	"github.com/ppiankov/capevent/internal/store"
)

var (
	publisher      string
	sourceURL      string
	publishedAt    string
	compact        bool
	extractDB      string
	extractTimeout time.Duration
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <title>",
	Short: "Extract a capital event from one headline",
	Long: `Extract classifies a single headline and prints the CapitalEvent as JSON:
- Normalize the title and strip publisher boilerplate
- Match the highest-priority frame pattern and fill its slots
- Validate entity names against the rule cascade and the ontology
- Parse amount, round and semantic context
- Apply filters and the ACCEPT/REJECT and graph_safe gates

Example:
  capevent extract "Zepto raises $200M from Peak XV" --publisher TechCrunch --url https://techcrunch.com/x
  capevent extract "Google invests $350M in Flipkart" --published-at 2024-03-01 --compact`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&publisher, "publisher", "", "publisher name")
	extractCmd.Flags().StringVar(&sourceURL, "url", "", "source URL (with publisher, determines the event id)")
	extractCmd.Flags().StringVar(&publishedAt, "published-at", "", "publication time (ISO-8601)")
	extractCmd.Flags().BoolVar(&compact, "compact", false, "print single-line JSON")
	extractCmd.Flags().StringVar(&extractDB, "db", "", "also store the event in this SQLite database")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 30*time.Second, "overall timeout (overlay calls included)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), extractTimeout)
	defer cancel()

	sess, err := setup(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	h := model.Headline{
		Title:       strings.Join(args, " "),
		Publisher:   publisher,
		URL:         sourceURL,
		PublishedAt: publishedAt,
	}
	event := sess.pipeline.Extract(ctx, h)

	renderer := pipeline.NewRenderer(sess.cfg.Output.Pretty && !compact)
	if err := renderer.WriteEvent(cmd.OutOrStdout(), event); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	dbPath := extractDB
	if dbPath == "" {
		dbPath = sess.cfg.Store.DBPath
	}
	if dbPath == "" {
		return nil
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Put(ctx, event); err != nil {
		return fmt.Errorf("store event: %w", err)
	}
	sess.logger.Debug("event stored", "event_id", event.EventID, "db", dbPath)
	return nil
}
