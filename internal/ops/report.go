package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/unclip/internal/db"
	"github.com/hpungsan/unclip/internal/errors"
	"github.com/hpungsan/unclip/internal/report"
)

// ReportInput contains parameters for the Report operation.
type ReportInput struct {
	ID   string
	HTML bool // also render the Markdown to HTML
}

// ReportOutput contains the result of the Report operation.
type ReportOutput struct {
	ID       string `json:"id"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html,omitempty"`
}

// Report renders a stored run as a Markdown document, optionally with an
// HTML rendering of it.
func Report(ctx context.Context, database *sql.DB, input ReportInput) (*ReportOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	r, err := db.GetByID(ctx, database, id)
	if err != nil {
		return nil, err
	}

	markdown, err := report.Markdown(r)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	out := &ReportOutput{ID: r.ID, Markdown: markdown}

	if input.HTML {
		html, err := report.HTML(markdown)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out.HTML = html
	}

	return out, nil
}
