package db

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/unclip/internal/contraction"
	"github.com/hpungsan/unclip/internal/errors"
	"github.com/hpungsan/unclip/internal/run"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func stringPtr(s string) *string {
	return &s
}

// newTestRun creates a run with default values for testing.
func newTestRun(id, method string, createdAt int64, reps ...contraction.Replacement) *run.Run {
	r := &run.Run{
		ID:              id,
		RequestedMethod: "linguistic",
		Method:          method,
		OriginalText:    "I don't know",
		ExpandedText:    "I do not know",
		Replacements:    reps,
		CreatedAt:       createdAt,
	}
	for _, rep := range reps {
		r.ReplacementCount += rep.Count
	}
	return r
}

func TestInsertAndGetByID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	r := newTestRun("01RUN001", "linguistic", 1000,
		contraction.Replacement{Original: "don't", Count: 2},
		contraction.Replacement{Original: "Don't", Count: 1},
	)
	r.Source = stringPtr("Meeting Notes.txt")

	require.NoError(t, Insert(ctx, db, r))

	got, err := GetByID(ctx, db, "01RUN001")
	require.NoError(t, err)

	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, "linguistic", got.RequestedMethod)
	assert.Equal(t, "linguistic", got.Method)
	assert.Equal(t, r.OriginalText, got.OriginalText)
	assert.Equal(t, r.ExpandedText, got.ExpandedText)
	assert.Equal(t, r.Replacements, got.Replacements)
	assert.Equal(t, 3, got.ReplacementCount)
	assert.Equal(t, int64(1000), got.CreatedAt)
	require.NotNil(t, got.Source)
	assert.Equal(t, "Meeting Notes.txt", *got.Source)
}

func TestInsert_NilReplacements(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	r := newTestRun("01RUN002", "", 1000)
	require.NoError(t, Insert(ctx, db, r))

	got, err := GetByID(ctx, db, "01RUN002")
	require.NoError(t, err)
	assert.NotNil(t, got.Replacements)
	assert.Empty(t, got.Replacements)
	assert.Nil(t, got.Source)
}

func TestInsert_DuplicateID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Insert(ctx, db, newTestRun("01DUP", "heuristic", 1)))
	err := Insert(ctx, db, newTestRun("01DUP", "heuristic", 2))
	assert.True(t, errors.Is(err, errors.ErrInternal))
}

func TestGetByID_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := GetByID(context.Background(), db, "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestList_NewestFirstWithPaging(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, Insert(ctx, db, newTestRun(fmt.Sprintf("01RUN%03d", i), "heuristic", int64(i*100))))
	}

	page, total, err := List(ctx, db, ListFilters{}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "01RUN005", page[0].ID)
	assert.Equal(t, "01RUN004", page[1].ID)

	page, _, err = List(ctx, db, ListFilters{}, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "01RUN001", page[0].ID)
}

func TestList_Filters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	a := newTestRun("01A", "linguistic", 1)
	a.Source = stringPtr("call.txt")
	b := newTestRun("01B", "heuristic", 2)
	b.Source = stringPtr("Call.TXT")
	c := newTestRun("01C", "heuristic", 3)
	for _, r := range []*run.Run{a, b, c} {
		require.NoError(t, Insert(ctx, db, r))
	}

	got, total, err := List(ctx, db, ListFilters{Method: "heuristic"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 2)

	got, total, err = List(ctx, db, ListFilters{SourceNorm: run.NormalizeSource("CALL.txt")}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 2)

	got, total, err = List(ctx, db, ListFilters{Method: "heuristic", SourceNorm: "call.txt"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "01B", got[0].ID)
}

func TestAll_OldestFirst(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Insert(ctx, db, newTestRun("01B", "heuristic", 2)))
	require.NoError(t, Insert(ctx, db, newTestRun("01A", "heuristic", 1)))

	var ids []string
	err := All(ctx, db, ListFilters{}, func(r *run.Run) error {
		ids = append(ids, r.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"01A", "01B"}, ids)
}

func TestAll_StopsOnCallbackError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Insert(ctx, db, newTestRun("01A", "heuristic", 1)))
	require.NoError(t, Insert(ctx, db, newTestRun("01B", "heuristic", 2)))

	stop := fmt.Errorf("stop")
	calls := 0
	err := All(ctx, db, ListFilters{}, func(*run.Run) error {
		calls++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, calls)
}

func TestDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Insert(ctx, db, newTestRun("01DEL", "heuristic", 1)))
	require.NoError(t, Delete(ctx, db, "01DEL"))

	_, err := GetByID(ctx, db, "01DEL")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = Delete(ctx, db, "01DEL")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestAggregate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	runs := []*run.Run{
		newTestRun("01A", "linguistic", 1,
			contraction.Replacement{Original: "don't", Count: 2},
			contraction.Replacement{Original: "she's", Count: 1},
		),
		newTestRun("01B", "heuristic", 2,
			contraction.Replacement{Original: "Don't", Count: 1},
		),
		newTestRun("01C", "", 3),
	}
	for _, r := range runs {
		require.NoError(t, Insert(ctx, db, r))
	}

	totals, err := Aggregate(ctx, db, ListFilters{}, 10)
	require.NoError(t, err)

	assert.Equal(t, 3, totals.Runs)
	assert.Equal(t, 4, totals.Replacements)
	assert.Len(t, totals.ByMethod, 3)
	require.Len(t, totals.TopForms, 2)
	assert.Equal(t, FormCount{Form: "don't", Count: 3}, totals.TopForms[0])
	assert.Equal(t, FormCount{Form: "she's", Count: 1}, totals.TopForms[1])

	filtered, err := Aggregate(ctx, db, ListFilters{Method: "heuristic"}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Runs)
	assert.Equal(t, []FormCount{{Form: "don't", Count: 1}}, filtered.TopForms)

	limited, err := Aggregate(ctx, db, ListFilters{}, 1)
	require.NoError(t, err)
	assert.Len(t, limited.TopForms, 1)
}

func TestAggregate_Empty(t *testing.T) {
	db := openTestDB(t)

	totals, err := Aggregate(context.Background(), db, ListFilters{}, 10)
	require.NoError(t, err)
	assert.Zero(t, totals.Runs)
	assert.Zero(t, totals.Replacements)
	assert.NotNil(t, totals.ByMethod)
	assert.NotNil(t, totals.TopForms)
}
