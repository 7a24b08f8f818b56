package eligibility

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type lookups struct {
	db *sql.DB
}

// NewRecorder creates a PostgreSQL-backed lookup recorder. Each tracked
// lookup becomes a row in lookups for the lead workflow to pick up.
func NewRecorder(db *sql.DB) Recorder {
	return &lookups{db: db}
}

func (l *lookups) Record(ctx context.Context, lk Lookup) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO lookups(id, rank, branch, category, quota, year, institution_category, location, results)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(),
		lk.Rank,
		lk.Branch,
		lk.Category,
		lk.Quota,
		lk.Year,
		lk.InstitutionCategory,
		lk.Location,
		lk.Results,
	)
	if err != nil {
		return fmt.Errorf("record lookup: %w", err)
	}
	return nil
}
