package api

import (
	"context"
	"net/http"
)

// CatalogHandler serves the fixed-data endpoints.
type CatalogHandler struct {
	deps Catalog
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Catalog) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// serveFixed adapts a payload getter into a handler that always answers 200.
func serveFixed[T any](get func(context.Context) T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, get(r.Context()))
	}
}

// HandleHello handles GET /api/hello.
func (h *CatalogHandler) HandleHello(w http.ResponseWriter, r *http.Request) {
	serveFixed(h.deps.Hello)(w, r)
}

// HandleDashboard handles GET /api/dashboard.
func (h *CatalogHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	serveFixed(h.deps.Dashboard)(w, r)
}

// HandleEnrichments handles GET /api/enrichments.
func (h *CatalogHandler) HandleEnrichments(w http.ResponseWriter, r *http.Request) {
	serveFixed(h.deps.Enrichments)(w, r)
}

// HandleContacts handles GET /api/contacts.
func (h *CatalogHandler) HandleContacts(w http.ResponseWriter, r *http.Request) {
	serveFixed(h.deps.Contacts)(w, r)
}

// HandleCampaigns handles GET /api/campaigns.
func (h *CatalogHandler) HandleCampaigns(w http.ResponseWriter, r *http.Request) {
	serveFixed(h.deps.Campaigns)(w, r)
}

// HandleSettings handles GET /api/settings.
func (h *CatalogHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	serveFixed(h.deps.Settings)(w, r)
}

// HandleHistory handles GET /api/history.
func (h *CatalogHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	serveFixed(h.deps.History)(w, r)
}
