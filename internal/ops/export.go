package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/unclip/internal/config"
	"github.com/hpungsan/unclip/internal/db"
	"github.com/hpungsan/unclip/internal/errors"
	"github.com/hpungsan/unclip/internal/run"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path   string // optional, default: ~/.unclip/exports/<source|runs>-<timestamp>.jsonl
	Method string // optional filter
	Source string // optional filter
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes stored runs to a JSONL file: a header line, then one run per
// line, oldest first.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	method, err := validateMethod(input.Method)
	if err != nil {
		return nil, err
	}
	filters := db.ListFilters{Method: method, SourceNorm: run.NormalizeSource(input.Source)}

	now := time.Now()
	exportedAt := now.Unix()

	exportPath := input.Path
	if exportPath == "" {
		exportPath, err = defaultExportPath(filters.SourceNorm, now)
		if err != nil {
			return nil, err
		}
	}

	// Default paths are validated too: the source label ends up in the name
	if err := ValidateOutputPath(exportPath, ".jsonl", cfg); err != nil {
		return nil, err
	}

	count := 0
	err = writeAtomic(exportPath, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)

		header := run.ExportHeader{
			UnclipExport:  true,
			SchemaVersion: run.ExportSchemaVersion,
			ExportedAt:    exportedAt,
		}
		if err := enc.Encode(header); err != nil {
			return errors.NewInternal(err)
		}

		return db.All(ctx, database, filters, func(r *run.Run) error {
			if err := ctx.Err(); err != nil {
				return errors.NewInternal(fmt.Errorf("export cancelled: %w", err))
			}
			if err := enc.Encode(r.ToExportRecord()); err != nil {
				return errors.NewInternal(err)
			}
			count++
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		Count:      count,
		ExportedAt: exportedAt,
	}, nil
}

// defaultExportPath generates the default export path.
// Format: ~/.unclip/exports/<source>-<timestamp>.jsonl or runs-<timestamp>.jsonl
func defaultExportPath(sourceNorm string, now time.Time) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}

	timestamp := now.Format("2006-01-02T150405")
	name := "runs"
	if sourceNorm != "" {
		name = SanitizeForFilename(sourceNorm)
	}

	filename := fmt.Sprintf("%s-%s.jsonl", name, timestamp)
	return filepath.Join(homeDir, ".unclip", "exports", filename), nil
}
