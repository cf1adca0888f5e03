package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/unclip/internal/db"
	"github.com/hpungsan/unclip/internal/run"
)

// StatsInput contains parameters for the Stats operation.
type StatsInput struct {
	Method string // optional filter
	Source string // optional filter
	Top    int    // number of forms to report; default 10, max 100
}

// StatsOutput aggregates the ledgers of stored runs.
type StatsOutput struct {
	db.Totals
}

// Stats reports run counts per method and the most frequently expanded
// contractions, case-folded, across stored runs.
func Stats(ctx context.Context, database *sql.DB, input StatsInput) (*StatsOutput, error) {
	method, err := validateMethod(input.Method)
	if err != nil {
		return nil, err
	}

	top := input.Top
	if top <= 0 {
		top = DefaultTopForms
	}
	if top > MaxTopForms {
		top = MaxTopForms
	}

	filters := db.ListFilters{Method: method, SourceNorm: run.NormalizeSource(input.Source)}
	totals, err := db.Aggregate(ctx, database, filters, top)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{Totals: *totals}, nil
}
