package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ppiankov/capevent/internal/ontology"
	"github.com/ppiankov/capevent/internal/validate"
)

var entityCmd = &cobra.Command{
	Use:   "entity",
	Short: "Inspect entity validation",
}

var entityCheckCmd = &cobra.Command{
	Use:   "check <name>...",
	Short: "Show whether candidate names pass entity validation",
	Long: `Check runs each name through the validation cascade and reports the
rule that rejected it. Names in the loaded ontology always pass.

Example:
  capevent entity check "Peak XV" "Indian" "Elon Musk"
  capevent entity check "Tata Sons" --ontology entities.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEntityCheck,
}

func init() {
	rootCmd.AddCommand(entityCmd)
	entityCmd.AddCommand(entityCheckCmd)
}

func runEntityCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := ontology.NewRegistry()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := loadOntology(cmd.Context(), cfg.Ontology, registry, quiet); err != nil {
		return err
	}

	printEntityChecks(cmd.OutOrStdout(), validate.NewEntityValidator(registry.Snapshot()), args)
	return nil
}

func printEntityChecks(w io.Writer, v *validate.EntityValidator, names []string) {
	for _, name := range names {
		ok, rule := v.Check(name)
		switch {
		case ok && v.IsKnown(name):
			fmt.Fprintf(w, "✓ %s (ontology)\n", name)
		case ok:
			fmt.Fprintf(w, "✓ %s\n", name)
		default:
			fmt.Fprintf(w, "✗ %s: %s\n", name, rule)
		}
	}
}
