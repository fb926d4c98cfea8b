package web

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/checklist/internal/core"
)

// handleListTasks returns the session's current page as JSON.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.service.View(r.Context(), sess))
}

// handleExportTasks downloads the session's filtered and sorted tasks.
func (s *Server) handleExportTasks(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	format, err := parseFormat(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	s.service.View(r.Context(), sess)
	data, err := s.service.ExportTasks(r.Context(), sess, format)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	writeDownload(w, format, core.TaskExportName, data)
}

// ProjectsResponse is the body of GET /api/projects.
type ProjectsResponse struct {
	Search   string         `json:"search"`
	Status   string         `json:"status"`
	Projects []core.Project `json:"projects"`
}

// handleListProjects returns the overview projects matching search and
// status.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	status := r.URL.Query().Get("status")
	if status == "" {
		status = core.StatusFilterAll
	}

	writeJSON(w, ProjectsResponse{
		Search:   search,
		Status:   status,
		Projects: s.service.Projects(search, status),
	})
}

// handleExportProjects downloads the full overview list.
func (s *Server) handleExportProjects(w http.ResponseWriter, r *http.Request) {
	format, err := parseFormat(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	data, err := s.service.ExportProjects(r.Context(), format)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	writeDownload(w, format, core.ProjectExportName, data)
}
