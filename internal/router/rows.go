package router

import (
	"fmt"
	"math"

	"species-sorter/internal/predictions"
)

// Row is one prediction record with its ranks parsed.
type Row struct {
	Index    int
	Location string
	Labels   []string
	Scores   []float64
}

func (r Row) prediction(rank int) (string, float64) {
	if rank < 1 || rank > len(r.Scores) {
		return "", math.NaN()
	}
	return r.Labels[rank-1], r.Scores[rank-1]
}

// RowsFromTable parses ranks 1..maxRank of every row. A malformed score
// fails the whole table so no image is copied from a half-readable file.
func RowsFromTable(t *predictions.Table, maxRank int) ([]Row, error) {
	rows := make([]Row, t.Len())
	for i := range rows {
		row := Row{
			Index:    i,
			Location: t.Location(i),
			Labels:   make([]string, maxRank),
			Scores:   make([]float64, maxRank),
		}
		for rank := 1; rank <= maxRank; rank++ {
			score, err := t.Score(i, rank)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			row.Labels[rank-1] = t.Label(i, rank)
			row.Scores[rank-1] = score
		}
		rows[i] = row
	}
	return rows, nil
}
