package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/unclip/internal/contraction"
	"github.com/hpungsan/unclip/internal/db"
	"github.com/hpungsan/unclip/internal/errors"
	"github.com/hpungsan/unclip/internal/run"
)

// persist stores res as a new run and returns its ID. Results without
// expanded text are not stored.
func persist(ctx context.Context, database *sql.DB, res contraction.Result, requested contraction.Strategy, source *string) (string, error) {
	if res.Expanded == nil {
		return "", nil
	}
	if database == nil {
		return "", errors.NewInternal(fmt.Errorf("run storage is not available"))
	}

	id, err := generateULID()
	if err != nil {
		return "", errors.NewInternal(err)
	}

	r := run.FromResult(res, requested, source)
	r.ID = id
	r.CreatedAt = time.Now().Unix()

	if err := db.Insert(ctx, database, r); err != nil {
		return "", err
	}
	return id, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
