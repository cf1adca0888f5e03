package run

import "github.com/hpungsan/unclip/internal/contraction"

// ExportSchemaVersion is written in the JSONL header line.
const ExportSchemaVersion = "1.0"

// ExportHeader is the first line of a JSONL export.
type ExportHeader struct {
	UnclipExport  bool   `json:"_unclip_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
}

// ExportRecord represents a run in JSONL export format.
type ExportRecord struct {
	ID               string                    `json:"id"`
	Source           *string                   `json:"source"`
	RequestedMethod  string                    `json:"requested_method"`
	Method           string                    `json:"method"`
	OriginalText     string                    `json:"original_text"`
	ExpandedText     string                    `json:"expanded_text"`
	Replacements     []contraction.Replacement `json:"replacements"`
	ReplacementCount int                       `json:"replacement_count"`
	CreatedAt        int64                     `json:"created_at"`
}

// ToExportRecord converts a Run to an ExportRecord.
func (r *Run) ToExportRecord() *ExportRecord {
	reps := r.Replacements
	if reps == nil {
		reps = []contraction.Replacement{}
	}
	return &ExportRecord{
		ID:               r.ID,
		Source:           r.Source,
		RequestedMethod:  r.RequestedMethod,
		Method:           r.Method,
		OriginalText:     r.OriginalText,
		ExpandedText:     r.ExpandedText,
		Replacements:     reps,
		ReplacementCount: r.ReplacementCount,
		CreatedAt:        r.CreatedAt,
	}
}
