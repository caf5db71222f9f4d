package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/brickstore/brickstore/internal/app"
	"github.com/brickstore/brickstore/internal/domain"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	Type  string
	Since string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the collection, newest first",
		Long: `List the collection, newest first.

--type filters by category (plants, vehicles, buildings) in the store.
--since keeps only sets added at or after the given date; most common
date layouts are accepted ("2024-03-01", "Mar 1 2024", "03/01/2024 10:00").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Release()
			sets, err := listSets(cmd.Context(), a, opts)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), sets)
			}
			return writeSetTable(cmd.OutOrStdout(), sets)
		},
	}
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "filter by set type")
	cmd.Flags().StringVar(&opts.Since, "since", "", "only sets added since this date")
	return cmd
}

func listSets(ctx context.Context, a *app.Application, opts *ListOptions) ([]domain.LegoSet, error) {
	var since time.Time
	if opts.Since != "" {
		t, err := dateparse.ParseAny(opts.Since)
		if err != nil {
			return nil, fmt.Errorf("invalid --since %q: %w", opts.Since, err)
		}
		since = t
	}

	var (
		sets []domain.LegoSet
		err  error
	)
	if opts.Type != "" {
		t := domain.SetType(opts.Type)
		if !t.Valid() {
			return nil, fmt.Errorf("invalid --type %q: must be one of %v", opts.Type, domain.SetTypes)
		}
		sets, err = a.Collection().GetAllByType(ctx, t)
	} else {
		sets, err = a.Collection().GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	if since.IsZero() {
		return sets, nil
	}

	filtered := sets[:0]
	for _, s := range sets {
		if !s.CreatedAt.Before(since) {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}
