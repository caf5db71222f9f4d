package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brickstore/brickstore/internal/domain"
	"github.com/brickstore/brickstore/internal/report"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Release()
			sets, err := a.Collection().GetAll(cmd.Context())
			if err != nil {
				return err
			}
			st, err := report.Summarize(sets)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), st)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Sets:         %d (%d built)\n", st.Total, st.Built)
			for _, t := range domain.SetTypes {
				fmt.Fprintf(w, "  %-10s  %d\n", t, st.ByType[t])
			}
			fmt.Fprintf(w, "Pieces:       %s\n", printer.Sprintf("%d", st.Pieces))
			fmt.Fprintf(w, "Total value:  %s\n", formatPrice(st.Value))
			fmt.Fprintf(w, "Mean price:   %s\n", formatPrice(st.MeanPrice))
			_, err = fmt.Fprintf(w, "Median price: %s\n", formatPrice(st.MedianPrice))
			return err
		},
	}
}
