package web

// handlers_common.go holds helpers shared by the page, mutation and API
// handlers.

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/checklist/internal/core"
	"github.com/JonMunkholm/checklist/internal/web/templates"
)

// checklistData builds the template input for a session view.
func checklistData(v core.View, notice string) templates.ChecklistData {
	data := templates.ChecklistData{
		View:    v,
		Formats: core.ExportFormats(),
		Notice:  notice,
	}
	if v.Problem != "" {
		msg := core.MapError(errors.New(v.Problem))
		data.Alert = &msg
	}
	return data
}

// respondChecklist answers a checklist mutation: HTMX callers get the
// refreshed table fragment, everyone else is redirected back to the page.
func (s *Server) respondChecklist(w http.ResponseWriter, r *http.Request, v core.View, notice string) {
	if !isHTMX(r) {
		http.Redirect(w, r, "/checklist", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.ChecklistTable(checklistData(v, notice)).Render(r.Context(), w)
}

// loadNotice summarizes a completed load for the banner.
func loadNotice(res core.LoadResult) string {
	if res.Problem != nil {
		return ""
	}
	notice := fmt.Sprintf("Loaded %s tasks from %s", templates.FormatCount(res.Count), res.Source)
	if n := len(res.Rejected); n == 1 {
		notice += ", 1 row skipped"
	} else if n > 1 {
		notice += fmt.Sprintf(", %s rows skipped", templates.FormatCount(n))
	}
	return notice
}

// parseFormat resolves the format query parameter, defaulting to xlsx.
func parseFormat(r *http.Request) (core.ExportFormat, error) {
	return core.ParseExportFormat(r.URL.Query().Get("format"))
}

// writeDownload sends data as an attachment named base with a timestamp.
func writeDownload(w http.ResponseWriter, format core.ExportFormat, base string, data []byte) {
	contentType := "application/octet-stream"
	if e, ok := core.LookupExporter(format); ok {
		contentType = e.ContentType()
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := format.FileName(base + "_" + timestamp)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(data)
}

// currentSession returns the request's session or answers 500 when the
// session middleware did not run.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) (*core.Session, bool) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		s.respondError(w, r, errors.New("no session in request context"), http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}
