package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/brickstore/brickstore/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var printer = message.NewPrinter(language.English)

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatPrice renders a price with grouping, e.g. 1,299.99.
func formatPrice(p float64) string {
	return printer.Sprintf("%.2f", p)
}

// writeSetTable renders sets as the list view: one row per set with its
// type-specific summary and built label.
func writeSetTable(w io.Writer, sets []domain.LegoSet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SET\tNAME\tTYPE\tDETAILS\tPIECES\tAGE\tPRICE\tSTATUS\tID")
	for _, s := range sets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.SetNumber, s.Name, s.Type, s.Summary(),
			printer.Sprintf("%d", s.PieceCount), s.AgeGroup, formatPrice(s.Price),
			s.BuiltLabel(), s.ID)
	}
	return tw.Flush()
}
