package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/hpungsan/unclip/internal/contraction"
	"github.com/hpungsan/unclip/internal/errors"
	"github.com/hpungsan/unclip/internal/run"
)

const runColumns = `
	id, source, requested_method, method, original_text, expanded_text,
	replacements_json, replacement_count, created_at
`

// ListFilters narrows List and Count. Empty fields match everything.
type ListFilters struct {
	Method     string // exact method name
	SourceNorm string // normalized source label
}

// Insert stores a new run in the database.
func Insert(ctx context.Context, db *sql.DB, r *run.Run) error {
	reps := r.Replacements
	if reps == nil {
		reps = []contraction.Replacement{}
	}
	repsJSON, err := json.Marshal(reps)
	if err != nil {
		return errors.NewInternal(err)
	}

	var sourceNorm sql.NullString
	if r.Source != nil {
		sourceNorm = sql.NullString{String: run.NormalizeSource(*r.Source), Valid: true}
	}

	query := `
		INSERT INTO runs (
			id, source, source_norm, requested_method, method,
			original_text, expanded_text, replacements_json, replacement_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		r.ID, toNullString(r.Source), sourceNorm, r.RequestedMethod, r.Method,
		r.OriginalText, r.ExpandedText, string(repsJSON), r.ReplacementCount, r.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetByID retrieves a run by its ULID.
func GetByID(ctx context.Context, db *sql.DB, id string) (*run.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	r, err := scanRun(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// List returns run summaries newest first, and the total number of runs
// matching filters.
func List(ctx context.Context, db *sql.DB, filters ListFilters, limit, offset int) ([]run.Summary, int, error) {
	where, args := filters.clause()

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + runColumns + ` FROM runs` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var summaries []run.Summary
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		summaries = append(summaries, r.ToSummary())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// All streams every run matching filters oldest first to fn. Iteration stops
// at the first error fn returns.
func All(ctx context.Context, db *sql.DB, filters ListFilters, fn func(*run.Run) error) error {
	where, args := filters.clause()
	rows, err := db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs`+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return errors.NewInternal(err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Delete permanently removes a run.
func Delete(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// MethodCount is the number of stored runs per method.
type MethodCount struct {
	Method string `json:"method"`
	Runs   int    `json:"runs"`
}

// FormCount is a case-folded contraction and its total across runs.
type FormCount struct {
	Form  string `json:"form"`
	Count int    `json:"count"`
}

// Totals aggregates stored runs.
type Totals struct {
	Runs         int           `json:"runs"`
	Replacements int           `json:"replacements"`
	ByMethod     []MethodCount `json:"by_method"`
	TopForms     []FormCount   `json:"top_forms"`
}

// Aggregate summarises the runs matching filters. topN bounds TopForms.
func Aggregate(ctx context.Context, db *sql.DB, filters ListFilters, topN int) (*Totals, error) {
	where, args := filters.clause()
	t := &Totals{ByMethod: []MethodCount{}, TopForms: []FormCount{}}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(replacement_count), 0) FROM runs`+where, args...,
	).Scan(&t.Runs, &t.Replacements)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT method, COUNT(*) FROM runs`+where+` GROUP BY method ORDER BY COUNT(*) DESC, method`, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	for rows.Next() {
		var mc MethodCount
		if err := rows.Scan(&mc.Method, &mc.Runs); err != nil {
			rows.Close()
			return nil, errors.NewInternal(err)
		}
		t.ByMethod = append(t.ByMethod, mc)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errors.NewInternal(err)
	}
	rows.Close()

	// Ledger entries are exact surface forms; fold case here so "Don't" and
	// "don't" count together.
	formQuery := `
		SELECT lower(json_extract(j.value, '$.original')) AS form,
		       SUM(json_extract(j.value, '$.count')) AS n
		FROM runs, json_each(runs.replacements_json) AS j` + where + `
		GROUP BY form
		ORDER BY n DESC, form
		LIMIT ?`
	rows, err = db.QueryContext(ctx, formQuery, append(args, topN)...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()
	for rows.Next() {
		var fc FormCount
		if err := rows.Scan(&fc.Form, &fc.Count); err != nil {
			return nil, errors.NewInternal(err)
		}
		t.TopForms = append(t.TopForms, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return t, nil
}

func (f ListFilters) clause() (string, []any) {
	var conds []string
	var args []any
	if f.Method != "" {
		conds = append(conds, "runs.method = ?")
		args = append(args, f.Method)
	}
	if f.SourceNorm != "" {
		conds = append(conds, "runs.source_norm = ?")
		args = append(args, f.SourceNorm)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun scans a single row into a Run struct.
func scanRun(row scanner) (*run.Run, error) {
	var (
		r        run.Run
		source   sql.NullString
		repsJSON string
	)

	err := row.Scan(
		&r.ID, &source, &r.RequestedMethod, &r.Method, &r.OriginalText, &r.ExpandedText,
		&repsJSON, &r.ReplacementCount, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Source = fromNullString(source)

	if err := json.Unmarshal([]byte(repsJSON), &r.Replacements); err != nil {
		return nil, err
	}
	if r.Replacements == nil {
		r.Replacements = []contraction.Replacement{}
	}

	return &r, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
