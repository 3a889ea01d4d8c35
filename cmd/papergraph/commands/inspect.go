package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/config"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/store"
)

// NewInspectCommand wires `inspect --input <db>`, printing Stats()
// output (§6).
func NewInspectCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print store statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := config.NewLogger(cfg)

			st, err := store.Open(input, logger)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "papers:   %d\n", stats.PaperCount)
			fmt.Fprintf(w, "edges:    %d\n", stats.EdgeCount)
			fmt.Fprintf(w, "clusters: %d\n", stats.ClusterCount)
			fmt.Fprintf(w, "entities: %d\n", stats.EntityCount)
			fmt.Fprintf(w, "runs:     %d\n", stats.RunCount)
			for edgeType, count := range stats.EdgesByType {
				fmt.Fprintf(w, "  %s: %d\n", edgeType, count)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "./papergraph.db", "store path to inspect")
	return cmd
}
