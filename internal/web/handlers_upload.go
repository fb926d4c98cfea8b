package web

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/checklist/internal/core"
	"github.com/JonMunkholm/checklist/internal/logging"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 1 << 20

// UploadResponse is the JSON answer to a CSV upload.
type UploadResponse struct {
	Source     string             `json:"source"`
	Count      int                `json:"count"`
	Rejected   []core.RejectedRow `json:"rejected"`
	Problem    string             `json:"problem,omitempty"`
	DurationMS int64              `json:"duration_ms"`
	View       core.View          `json:"view"`
}

// handleUpload replaces the session's tasks with an uploaded CSV. The file
// is streamed into the loader; problems with its content are reported in
// the response rather than as an HTTP error.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.respondError(w, r, fmt.Errorf("parse upload: %w", err), statusForUpload(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, v, err := s.service.LoadUpload(r.Context(), sess, header.Filename, file)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	if isHTMX(r) {
		s.respondChecklist(w, r, v, loadNotice(res))
		return
	}
	writeJSON(w, UploadResponse{
		Source:     res.Source,
		Count:      res.Count,
		Rejected:   res.Rejected,
		Problem:    res.ProblemMessage(),
		DurationMS: res.Duration.Milliseconds(),
		View:       v,
	})
}

// handleUploadEvidence attaches an evidence file to a loaded task.
func (s *Server) handleUploadEvidence(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.respondError(w, r, fmt.Errorf("parse evidence upload: %w", err), statusForUpload(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	s.service.View(r.Context(), sess)
	ref, err := s.service.AttachEvidence(r.Context(), sess, core.EvidenceUpload{
		TaskName:    r.FormValue("task"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	if isHTMX(r) {
		s.respondChecklist(w, r, sess.View(), fmt.Sprintf("Attached %s to %s", ref.FileName, ref.TaskName))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, ref)
}

// handleDownloadEvidence streams a stored evidence file of the session.
func (s *Server) handleDownloadEvidence(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}

	ref, rc, err := s.service.OpenEvidence(r.Context(), sess, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", ref.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, ref.FileName))
	if ref.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(ref.Size, 10))
	}
	if _, err := io.Copy(w, rc); err != nil {
		logging.FromContext(r.Context()).Warn("evidence stream interrupted", "id", ref.ID, "error", err)
	}
}

// statusForUpload distinguishes oversized bodies from malformed forms.
func statusForUpload(err error) int {
	if status := statusForError(err); status == http.StatusRequestEntityTooLarge {
		return status
	}
	return http.StatusBadRequest
}
