package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/unclip/internal/db"
	"github.com/hpungsan/unclip/internal/errors"
	"github.com/hpungsan/unclip/internal/run"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID          string
	IncludeText *bool // default: true (nil means default)
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	run.Run // embedded (copy, not pointer)
}

// Fetch retrieves a stored run by ID.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	r, err := db.GetByID(ctx, database, id)
	if err != nil {
		return nil, err
	}

	output := &FetchOutput{Run: *r}

	includeText := true
	if input.IncludeText != nil {
		includeText = *input.IncludeText
	}
	if !includeText {
		output.OriginalText = ""
		output.ExpandedText = ""
	}

	return output, nil
}
