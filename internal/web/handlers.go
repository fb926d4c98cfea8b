package web

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/checklist/internal/core"
	"github.com/JonMunkholm/checklist/internal/web/templates"
)

// handleOverview renders the project overview, or just its table for HTMX
// filter requests. An empty status means all statuses.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	status := r.URL.Query().Get("status")
	if status == "" {
		status = core.StatusFilterAll
	}

	projects := s.service.Projects(search, status)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if isHTMX(r) {
		templates.OverviewTable(projects).Render(r.Context(), w)
		return
	}
	templates.OverviewPage(templates.OverviewData{
		Search:   search,
		Status:   status,
		Options:  core.ProjectStatusOptions,
		Projects: projects,
	}).Render(r.Context(), w)
}

// handleAbout renders the about page.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.AboutPage().Render(r.Context(), w)
}

// handleChecklist renders the task page, loading the default source on a
// session's first visit.
func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	v := s.service.View(r.Context(), sess)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.ChecklistPage(checklistData(v, "")).Render(r.Context(), w)
}

// handleChecklistTable renders only the table fragment.
func (s *Server) handleChecklistTable(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	v := s.service.View(r.Context(), sess)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.ChecklistTable(checklistData(v, "")).Render(r.Context(), w)
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string                   `json:"status"`
	Sessions int                      `json:"sessions"`
	Uploads  core.UploadLimiterStatus `json:"uploads"`
	Evidence string                   `json:"evidence_backend"`
}

// handleHealth reports liveness and basic resource usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{
		Status:   "ok",
		Sessions: s.service.Sessions().Len(),
		Uploads:  s.service.UploadStatus(),
		Evidence: s.service.EvidenceBackend(),
	})
}
