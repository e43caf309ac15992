package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/JonMunkholm/hcl/internal/core"
	"github.com/JonMunkholm/hcl/internal/logging"
	"github.com/JonMunkholm/hcl/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// ProductResponse is a product with its rendered update command.
type ProductResponse struct {
	core.Product
	UpdateCommand string `json:"updateCommand"`
}

// OSResponse is one OS label with its display classification.
type OSResponse struct {
	Label string `json:"label"`
	core.OSClass
}

// StatusResponse describes the currently published snapshot.
type StatusResponse struct {
	Loaded   bool               `json:"loaded"`
	LoadedAt *time.Time         `json:"loadedAt,omitempty"`
	Products int                `json:"products"`
	OSLabels []string           `json:"osLabels"`
	Sheets   []core.SheetStatus `json:"sheets"`
}

func statusOf(snap *core.Snapshot) StatusResponse {
	resp := StatusResponse{
		Loaded:   snap.Loaded(),
		Products: snap.Catalog.Len(),
		OSLabels: snap.OSLabels,
		Sheets:   snap.Sheets,
	}
	if resp.Loaded {
		t := snap.LoadedAt
		resp.LoadedAt = &t
	}
	return resp
}

// selectedOS returns the os query parameter, or the first known label.
func selectedOS(r *http.Request, snap *core.Snapshot) string {
	if os := r.URL.Query().Get("os"); os != "" {
		return os
	}
	if len(snap.OSLabels) > 0 {
		return snap.OSLabels[0]
	}
	return ""
}

// handleDashboard renders the landing page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Current()
	data := templates.DashboardData{
		Products:   snap.Catalog.Len(),
		OSLabels:   snap.OSLabels,
		SelectedOS: selectedOS(r, snap),
		Menu:       snap.Catalog.Menu(),
		Sheets:     snap.Sheets,
		Loaded:     snap.Loaded(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// handleSearch renders product cards for ?q= against ?os=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Current()
	q := r.URL.Query().Get("q")
	targetOS := selectedOS(r, snap)

	products := snap.Catalog.Search(q)
	cards := make([]templates.ProductCard, len(products))
	for i, p := range products {
		cards[i] = templates.ProductCard{
			Product: p,
			Status:  core.StatusFor(p, targetOS),
			Command: core.UpdateCommand(p),
		}
	}

	data := templates.SearchData{
		Query:    q,
		TargetOS: targetOS,
		OSClass:  core.Classify(targetOS),
		Cards:    cards,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.SearchResults(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render search", "error", err)
	}
}

// handleListProducts returns products matching ?q= (all when empty).
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products := s.catalog.Current().Catalog.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, products)
}

// handleGetProduct returns one product by exact model.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	model, err := url.PathUnescape(chi.URLParam(r, "model"))
	if err != nil {
		s.respondError(w, r, errBadRequest, http.StatusBadRequest)
		return
	}

	p, ok := s.catalog.Current().Catalog.FindByModel(model)
	if !ok {
		s.respondError(w, r, core.ErrProductNotFound, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ProductResponse{Product: p, UpdateCommand: core.UpdateCommand(p)})
}

// handleListOS returns the OS labels in display order with their badges.
func (s *Server) handleListOS(w http.ResponseWriter, r *http.Request) {
	labels := s.catalog.Current().OSLabels
	resp := make([]OSResponse, len(labels))
	for i, l := range labels {
		resp[i] = OSResponse{Label: l, OSClass: core.Classify(l)}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleMenu returns the component -> vendor -> model tree.
func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Current().Catalog.Menu())
}

// handleDistinctValues returns the sorted distinct values of one product field.
func (s *Server) handleDistinctValues(w http.ResponseWriter, r *http.Request) {
	field, err := core.ParseProductField(chi.URLParam(r, "field"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Current().Catalog.ListDistinctValues(field))
}

// handleStatus reports when the catalog was loaded and how each sheet fared.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusOf(s.catalog.Current()))
}

// handleRefresh reloads every sheet now.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Refresh(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, statusOf(snap))
}

// handleHealth reports liveness. It returns 503 until a load has succeeded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Current()
	status := http.StatusOK
	state := "ok"
	if !snap.Loaded() {
		status = http.StatusServiceUnavailable
		state = "loading"
	}
	writeJSON(w, status, map[string]any{
		"status":   state,
		"products": snap.Catalog.Len(),
	})
}
