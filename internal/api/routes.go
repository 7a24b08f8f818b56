package api

import (
	"net/http"

	"github.com/JaimeStill/rankwise/pkg/routes"
)

// registerRoutes mounts every domain surface on mux. Uploads are capped at
// maxUpload bytes.
func registerRoutes(mux *http.ServeMux, d *Domain, maxUpload int64) []string {
	return routes.Register(
		mux,
		d.Institutions.Handler().Routes(),
		d.Cutoffs.Handler().Routes(),
		d.Ingestion.Handler(maxUpload).Routes(),
		d.Eligibility.Handler().Routes(),
	)
}
