package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/brickstore/brickstore/internal/collection"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a set from a JSON file",
		Long: `Add a set from a JSON document shaped like the API request body:

  {"setNumber":"10280","name":"Flower Bouquet","pieceCount":756,
   "ageGroup":"18+","price":49.99,"type":"plants",
   "details":{"plantType":"rose","height":30}}

Use --file - to read from standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := readDraft(cmd, file)
			if err != nil {
				return err
			}
			a, err := bootstrap(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Release()

			set, err := a.Cache().Add(cmd.Context(), draft)
			if errors.Is(err, collection.ErrValidation) {
				writeFieldErrors(cmd.ErrOrStderr(), collection.FieldErrors(err))
				return err
			}
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), set)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), collection.AddedMessage(*set))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the set, - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readDraft(cmd *cobra.Command, file string) (collection.Draft, error) {
	var r io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return collection.Draft{}, err
		}
		defer f.Close()
		r = f
	}
	raw := make(map[string]interface{})
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return collection.Draft{}, fmt.Errorf("parse %s: %w", file, err)
	}
	return collection.DraftFromMap(raw), nil
}

func writeFieldErrors(w io.Writer, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, fields[k])
	}
}
