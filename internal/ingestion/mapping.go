package ingestion

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/JaimeStill/rankwise/pkg/query"
	"github.com/JaimeStill/rankwise/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "ingestion_runs", "r").
	Project("id", "ID").
	Project("year", "Year").
	Project("file_name", "FileName").
	Project("uploaded_by", "UploadedBy").
	Project("storage_key", "StorageKey").
	Project("total_rows", "TotalRows").
	Project("processed_rows", "ProcessedRows").
	Project("failed_rows", "FailedRows").
	Project("errors", "Errors").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const returning = `id, year, file_name, uploaded_by, storage_key, total_rows,
		processed_rows, failed_rows, errors, status, created_at, completed_at`

// Filters contains optional filtering criteria for run queries.
// Status, Year, and UploadedBy use exact matching; FileName uses
// case-insensitive contains matching.
type Filters struct {
	Status     *string `json:"status,omitempty"`
	Year       *int    `json:"year,omitempty"`
	UploadedBy *string `json:"uploaded_by,omitempty"`
	FileName   *string `json:"file_name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Year", f.Year).
		WhereEquals("UploadedBy", f.UploadedBy).
		WhereContains("FileName", f.FileName)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if y := values.Get("year"); y != "" {
		if v, err := strconv.Atoi(y); err == nil {
			f.Year = &v
		}
	}
	if u := values.Get("uploaded_by"); u != "" {
		f.UploadedBy = &u
	}
	if fn := values.Get("file_name"); fn != "" {
		f.FileName = &fn
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var (
		r      Run
		errLog []byte
	)
	err := s.Scan(
		&r.ID,
		&r.Year,
		&r.FileName,
		&r.UploadedBy,
		&r.StorageKey,
		&r.TotalRows,
		&r.ProcessedRows,
		&r.FailedRows,
		&errLog,
		&r.Status,
		&r.CreatedAt,
		&r.CompletedAt,
	)
	if err != nil {
		return r, err
	}

	r.Errors = []string{}
	if len(errLog) > 0 {
		if err := json.Unmarshal(errLog, &r.Errors); err != nil {
			return r, err
		}
	}
	return r, nil
}

func marshalErrors(errs []string) ([]byte, error) {
	if errs == nil {
		errs = []string{}
	}
	return json.Marshal(errs)
}
