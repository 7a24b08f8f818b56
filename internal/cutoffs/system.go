package cutoffs

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/rankwise/pkg/pagination"
)

// System defines the public contract for the cutoff store.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Cutoff], error)

	Find(ctx context.Context, id uuid.UUID) (*Cutoff, error)

	// FindByKey returns the cutoff with exactly this composite key.
	FindByKey(ctx context.Context, key Key) (*Cutoff, error)

	// Upsert inserts the cutoff for cmd.Key or, when one exists, replaces its
	// ranks and institution fields in place. History is not preserved.
	Upsert(ctx context.Context, cmd UpsertCommand) (*Cutoff, error)

	// QueryEligible returns cutoffs matching f ordered by ascending closing rank.
	QueryEligible(ctx context.Context, f EligibleFilter) ([]Cutoff, error)

	// ListYears returns the distinct years with cutoff data, most recent first.
	ListYears(ctx context.Context) ([]int, error)
}
