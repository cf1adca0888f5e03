package ops

import (
	"strings"

	"github.com/hpungsan/unclip/internal/contraction"
	"github.com/hpungsan/unclip/internal/errors"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	DefaultTopForms  = 10
	MaxTopForms      = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// resolveStrategy parses the requested strategy, falling back to the
// configured default when the request leaves it empty.
func resolveStrategy(requested, configured string) (contraction.Strategy, error) {
	name := strings.TrimSpace(requested)
	if name == "" {
		name = configured
	}
	s, err := contraction.ParseStrategy(name)
	if err != nil {
		return s, errors.NewInvalidRequest(err.Error())
	}
	return s, nil
}

// validateMethod checks a method filter. Empty means no filter.
func validateMethod(method string) (string, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	switch contraction.Method(method) {
	case contraction.MethodNone, contraction.MethodHeuristic, contraction.MethodLinguistic:
		return method, nil
	default:
		return "", errors.NewInvalidRequest("method must be one of: heuristic, linguistic")
	}
}

// cleanOptionalString trims s and maps blank values to nil.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
