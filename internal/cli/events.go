package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/capevent/internal/model"
	"github.com/ppiankov/capevent/internal/pipeline"
	"github.com/ppiankov/capevent/internal/store"
)

var (
	eventsDB        string
	eventsType      string
	eventsPublisher string
	eventsGraphSafe bool
	eventsLimit     int
	eventsOffset    int
	eventsJSON      bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Query stored capital events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored events, newest first",
	Long: `List reads events from the SQLite sink written by batch or extract --db.

Example:
  capevent events list --db events.db --type FUNDING --graph-safe
  capevent events list --db events.db --limit 20 --json`,
	Args: cobra.NoArgs,
	RunE: runEventsList,
}

var eventsGetCmd = &cobra.Command{
	Use:   "get <event-id>",
	Short: "Print one stored event as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsGet,
}

var eventsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize stored events",
	Args:  cobra.NoArgs,
	RunE:  runEventsStats,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd, eventsGetCmd, eventsStatsCmd)

	eventsCmd.PersistentFlags().StringVar(&eventsDB, "db", "", "SQLite database (default from config)")

	eventsListCmd.Flags().StringVar(&eventsType, "type", "", "only this event type (e.g. FUNDING, ipo-filing)")
	eventsListCmd.Flags().StringVar(&eventsPublisher, "publisher", "", "only this publisher")
	eventsListCmd.Flags().BoolVar(&eventsGraphSafe, "graph-safe", false, "only graph-safe events")
	eventsListCmd.Flags().IntVar(&eventsLimit, "limit", 50, "maximum events to print")
	eventsListCmd.Flags().IntVar(&eventsOffset, "offset", 0, "events to skip")
	eventsListCmd.Flags().BoolVar(&eventsJSON, "json", false, "print JSON lines instead of a table")
}

func runEventsList(cmd *cobra.Command, args []string) error {
	opts := store.ListOpts{
		Publisher:     eventsPublisher,
		GraphSafeOnly: eventsGraphSafe,
		Limit:         eventsLimit,
		Offset:        eventsOffset,
	}
	if eventsType != "" {
		t, ok := model.ParseEventType(eventsType)
		if !ok {
			return fmt.Errorf("unknown event type %q", eventsType)
		}
		opts.EventType = t
	}

	db, err := openStore(eventsDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	events, err := db.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if eventsJSON {
		return pipeline.NewRenderer(false).WriteJSONL(cmd.OutOrStdout(), events)
	}
	printEventTable(cmd.OutOrStdout(), events)
	return nil
}

func printEventTable(w io.Writer, events []*model.CapitalEvent) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OCCURRED\tTYPE\tCONF\tSAFE\tENTITIES\tTITLE")
	for _, ev := range events {
		occurred := "-"
		if ev.OccurredAt != nil && len(*ev.OccurredAt) >= 10 {
			occurred = (*ev.OccurredAt)[:10]
		}
		safe := "no"
		if ev.Extraction.GraphSafe {
			safe = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\t%s\n",
			occurred, ev.EventType, ev.FrameConfidence, safe, joinNames(ev.EntityNames()), truncate(ev.Source.Title, 60))
	}
	_ = tw.Flush()
}

func runEventsGet(cmd *cobra.Command, args []string) error {
	db, err := openStore(eventsDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ev, err := db.Get(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("event %s not found", args[0])
	}
	if err != nil {
		return err
	}
	return pipeline.NewRenderer(true).WriteEvent(cmd.OutOrStdout(), ev)
}

func runEventsStats(cmd *cobra.Command, args []string) error {
	db, err := openStore(eventsDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	st, err := db.Stats(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Events:      %d\n", st.Total)
	fmt.Fprintf(w, "Graph-safe:  %d\n", st.GraphSafe)
	fmt.Fprintf(w, "Rejected:    %d\n", st.Rejected)
	for _, t := range model.EventTypes {
		if n := st.ByType[t]; n > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", t, n)
		}
	}
	return nil
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
