package institutions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/rankwise/pkg/pagination"
)

// System defines the public contract for the institution registry.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Institution], error)

	Find(ctx context.Context, id uuid.UUID) (*Institution, error)

	// FindByIdentity returns the institution with exactly this name and location.
	FindByIdentity(ctx context.Context, name, location string) (*Institution, error)

	// GetOrCreate returns the institution identified by cmd.Name and
	// cmd.Location, creating it when absent. An existing record is never
	// modified.
	GetOrCreate(ctx context.Context, cmd CreateCommand) (*Institution, error)
}
