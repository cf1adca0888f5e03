package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/unclip/internal/config"
	"github.com/hpungsan/unclip/internal/contraction"
	"github.com/hpungsan/unclip/internal/errors"
	"github.com/hpungsan/unclip/internal/run"
)

// ExpandInput contains parameters for the Expand operation.
type ExpandInput struct {
	Text       *string // nil is an absent input, not an error
	Strategy   string  // "heuristic" or "linguistic"; empty uses config
	Source     *string // optional label stored with the run
	Preprocess *bool   // nil uses config
	Persist    bool    // store the run
}

// ExpandOutput contains the result of the Expand operation.
type ExpandOutput struct {
	ID string `json:"id,omitempty"`
	contraction.Result
}

// Expand expands the contractions in one text.
func Expand(ctx context.Context, database *sql.DB, engine *contraction.Engine, cfg *config.Config, input ExpandInput) (*ExpandOutput, error) {
	strategy, err := resolveStrategy(input.Strategy, cfg.Strategy)
	if err != nil {
		return nil, err
	}

	text := input.Text
	if text != nil {
		if n := run.CountChars(*text); cfg.MaxInputChars > 0 && n > cfg.MaxInputChars {
			return nil, errors.NewInputTooLarge(cfg.MaxInputChars, n)
		}

		preprocess := cfg.Preprocess
		if input.Preprocess != nil {
			preprocess = *input.Preprocess
		}
		if preprocess {
			p := contraction.Preprocess(*text)
			text = &p
		}
	}

	res := engine.Expand(text, strategy)
	out := &ExpandOutput{Result: res}

	if input.Persist {
		id, err := persist(ctx, database, res, strategy, cleanOptionalString(input.Source))
		if err != nil {
			return nil, err
		}
		out.ID = id
	}

	return out, nil
}
