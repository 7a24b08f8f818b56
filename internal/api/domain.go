package api

import (
	"github.com/JaimeStill/rankwise/internal/cutoffs"
	"github.com/JaimeStill/rankwise/internal/eligibility"
	"github.com/JaimeStill/rankwise/internal/ingestion"
	"github.com/JaimeStill/rankwise/internal/institutions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Institutions institutions.System
	Cutoffs      cutoffs.System
	Ingestion    ingestion.System
	Eligibility  eligibility.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	instSystem := institutions.New(db, runtime.Logger, runtime.Pagination)
	cutoffSystem := cutoffs.New(db, runtime.Logger, runtime.Pagination)

	ingestionSystem := ingestion.New(
		db,
		runtime.Storage,
		instSystem,
		cutoffSystem,
		runtime.Metrics,
		runtime.Logger,
		runtime.Pagination,
		runtime.Ingestion,
	)

	eligibilitySystem := eligibility.New(
		db,
		cutoffSystem,
		runtime.Metrics,
		runtime.Logger,
		runtime.YearsBack,
	)

	return &Domain{
		Institutions: instSystem,
		Cutoffs:      cutoffSystem,
		Ingestion:    ingestionSystem,
		Eligibility:  eligibilitySystem,
	}
}
