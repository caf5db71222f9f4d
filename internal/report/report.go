// Package report aggregates a collection into the figures shown on the
// status page and in the CLI.
package report

import (
	"github.com/montanaflynn/stats"

	"github.com/brickstore/brickstore/internal/domain"
)

type Stats struct {
	Total       int                    `json:"total"`
	Built       int                    `json:"built"`
	ByType      map[domain.SetType]int `json:"by_type"`
	Pieces      int                    `json:"pieces"`
	Value       float64                `json:"value"`
	MeanPrice   float64                `json:"mean_price"`
	MedianPrice float64                `json:"median_price"`
	MaxPrice    float64                `json:"max_price"`
}

// Summarize computes collection statistics. Every known type appears in
// ByType, with zero when the collection has none of it.
func Summarize(sets []domain.LegoSet) (Stats, error) {
	st := Stats{ByType: make(map[domain.SetType]int, len(domain.SetTypes))}
	for _, t := range domain.SetTypes {
		st.ByType[t] = 0
	}
	if len(sets) == 0 {
		return st, nil
	}

	prices := make(stats.Float64Data, 0, len(sets))
	for _, set := range sets {
		st.Total++
		st.ByType[set.Type]++
		st.Pieces += set.PieceCount
		if set.HasBuilt {
			st.Built++
		}
		prices = append(prices, set.Price)
	}

	var err error
	if st.Value, err = prices.Sum(); err != nil {
		return st, err
	}
	if st.MeanPrice, err = prices.Mean(); err != nil {
		return st, err
	}
	if st.MedianPrice, err = prices.Median(); err != nil {
		return st, err
	}
	if st.MaxPrice, err = prices.Max(); err != nil {
		return st, err
	}
	st.Value, _ = stats.Round(st.Value, 2)
	st.MeanPrice, _ = stats.Round(st.MeanPrice, 2)
	st.MedianPrice, _ = stats.Round(st.MedianPrice, 2)
	return st, nil
}
