package run

// Summary represents a run's metadata without the text content.
// Used for list operations to reduce data transfer.
type Summary struct {
	ID               string  `json:"id"`
	Source           *string `json:"source,omitempty"`
	RequestedMethod  string  `json:"requested_method"`
	Method           string  `json:"method"`
	OriginalChars    int     `json:"original_chars"`
	ReplacementCount int     `json:"replacement_count"`
	CreatedAt        int64   `json:"created_at"`
}

// ToSummary converts a Run to a Summary by stripping the text content.
func (r *Run) ToSummary() Summary {
	return Summary{
		ID:               r.ID,
		Source:           r.Source,
		RequestedMethod:  r.RequestedMethod,
		Method:           r.Method,
		OriginalChars:    CountChars(r.OriginalText),
		ReplacementCount: r.ReplacementCount,
		CreatedAt:        r.CreatedAt,
	}
}
