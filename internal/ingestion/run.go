// Package ingestion implements the bulk cutoff import pipeline for Rankwise.
// An uploaded sheet is validated and normalized row by row; each good row
// resolves its institution and upserts its cutoff, and the whole upload is
// audited as a Run with counts and an error log.
package ingestion

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Required column headers, matched exactly after trimming.
const (
	ColCollegeName = "College Name"
	ColLocation    = "Location"
	ColType        = "Type"
	ColBranch      = "Branch"
	ColYear        = "Year"
	ColCategory    = "Category"
	ColQuota       = "Quota"
	ColOpeningRank = "Opening Rank"
	ColClosingRank = "Closing Rank"
)

// RequiredColumns lists every header an upload must carry, in report order.
var RequiredColumns = []string{
	ColCollegeName,
	ColLocation,
	ColType,
	ColBranch,
	ColYear,
	ColCategory,
	ColQuota,
	ColOpeningRank,
	ColClosingRank,
}

// Run is the audit and progress record of one upload.
type Run struct {
	ID            uuid.UUID  `json:"id"`
	Year          int        `json:"year"`
	FileName      string     `json:"file_name"`
	UploadedBy    string     `json:"uploaded_by"`
	StorageKey    *string    `json:"storage_key"`
	TotalRows     int        `json:"total_rows"`
	ProcessedRows int        `json:"processed_rows"`
	FailedRows    int        `json:"failed_rows"`
	Errors        []string   `json:"errors"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// IngestCommand carries an uploaded file. Data holds the raw bytes.
type IngestCommand struct {
	Data       []byte
	FileName   string
	UploadedBy string
}

// CreateRunCommand opens a run in the processing state.
type CreateRunCommand struct {
	Year       int
	FileName   string
	UploadedBy string
	TotalRows  int
}

// Progress is the running tally persisted at checkpoints and completion.
type Progress struct {
	Processed int
	Failed    int
	Errors    []string
}

// Summary is the synchronous result of an ingestion. Errors holds only the
// first entries of the run's error log; the full log stays on the Run.
type Summary struct {
	RunID         uuid.UUID `json:"run_id"`
	TotalRows     int       `json:"total_rows"`
	ProcessedRows int       `json:"processed_rows"`
	FailedRows    int       `json:"failed_rows"`
	Status        string    `json:"status"`
	Errors        []string  `json:"errors"`
}
