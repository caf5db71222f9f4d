package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brickstore/brickstore/internal/domain"
	"github.com/brickstore/brickstore/internal/export"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as CSV or XLSX",
		Long: `Export the collection, newest first. The output format follows the
--out extension: .xlsx writes a workbook, anything else CSV. Without --out
CSV is written to standard output.`,
		Args: cobra.NoArgs,
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

			if out == "" {
				return export.WriteCSV(cmd.OutOrStdout(), sets)
			}
			return exportToFile(out, sets)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}

// createFile opens the export destination.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// exportToFile writes sets to path. A .xlsx suffix selects a workbook.
func exportToFile(path string, sets []domain.LegoSet) (err error) {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return export.WriteXLSX(f, sets)
	}
	return export.WriteCSV(f, sets)
}
