package web

// handlers_mutations.go changes a session's query state. Each handler
// answers with the refreshed table fragment for HTMX or a redirect to the
// checklist page.

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/checklist/internal/core"
)

// handleSearch sets the session's search term.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("parse search form: %w", err), http.StatusBadRequest)
		return
	}

	s.service.View(r.Context(), sess)
	v := sess.Search(r.PostFormValue("search"))
	s.respondChecklist(w, r, v, "")
}

// handleSort toggles sorting on a column.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	column, ok := core.ParseColumn(chi.URLParam(r, "column"))
	if !ok {
		s.respondError(w, r, fmt.Errorf("unknown sort column %q", chi.URLParam(r, "column")), http.StatusBadRequest)
		return
	}

	s.service.View(r.Context(), sess)
	v := sess.Sort(column)
	s.respondChecklist(w, r, v, "")
}

// handlePage applies a pagination control.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	action, ok := core.ParsePageAction(chi.URLParam(r, "action"))
	if !ok {
		s.respondError(w, r, fmt.Errorf("unknown page action %q", chi.URLParam(r, "action")), http.StatusBadRequest)
		return
	}

	s.service.View(r.Context(), sess)
	v := sess.Navigate(action)
	s.respondChecklist(w, r, v, "")
}

// handleReload reloads the configured default task source.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	v := s.service.LoadDefault(r.Context(), sess)
	notice := ""
	if v.Problem == "" {
		notice = fmt.Sprintf("Reloaded %d tasks", v.LoadedCount)
	}
	s.respondChecklist(w, r, v, notice)
}
