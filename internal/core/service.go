package core

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/checklist/internal/config"
	"github.com/JonMunkholm/checklist/internal/logging"
)

// LoadTimeout bounds a single task source load.
var LoadTimeout = 2 * time.Minute

// EvidenceTimeout bounds storing one evidence file.
var EvidenceTimeout = 5 * time.Minute

// Service is the entry point the web layer uses for every checklist
// operation.
type Service struct {
	itemsPath string
	loader    *Loader
	sessions  *SessionStore
	limiter   *UploadLimiter
	evidence  EvidenceStore
	projects  []Project
}

// NewService wires a Service from configuration. projects seeds the
// overview and is never modified.
func NewService(cfg *config.Config, evidence EvidenceStore, projects []Project) *Service {
	return &Service{
		itemsPath: cfg.Data.ItemsPath,
		loader:    NewLoader(),
		sessions:  NewSessionStore(cfg.Session.TTL, cfg.Data.PageSize),
		limiter:   NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		evidence:  evidence,
		projects:  slices.Clone(projects),
	}
}

// Session returns the session for id, creating one if id is unknown or
// expired.
func (s *Service) Session(id string) (*Session, bool) {
	return s.sessions.GetOrCreate(id)
}

// Sessions exposes the session store.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// ItemsPath is the configured default task source.
func (s *Service) ItemsPath() string {
	return s.itemsPath
}

// View returns the session's current view, loading the default task
// source on first use.
func (s *Service) View(ctx context.Context, sess *Session) View {
	if !sess.Loaded() {
		return s.LoadDefault(ctx, sess)
	}
	return sess.View()
}

// LoadDefault (re)loads the configured task source into sess. Load
// problems leave the session with an empty task set and are reported on
// the view.
func (s *Service) LoadDefault(ctx context.Context, sess *Session) View {
	ctx, cancel := context.WithTimeout(ctx, LoadTimeout)
	defer cancel()

	return sess.Replace(s.loader.LoadFile(ctx, s.itemsPath))
}

// LoadUpload replaces the session's tasks with an uploaded CSV. The
// returned error is non-nil only when no upload slot could be obtained;
// problems with the file itself are reported on the result.
func (s *Service) LoadUpload(ctx context.Context, sess *Session, name string, r io.Reader) (LoadResult, View, error) {
	var (
		res  LoadResult
		view View
	)
	err := s.limiter.Do(ctx, func() error {
		ctx, cancel := context.WithTimeout(ctx, LoadTimeout)
		defer cancel()

		res = s.loader.LoadReader(ctx, name, r)
		view = sess.Replace(res)
		return nil
	})
	if err != nil {
		return LoadResult{}, View{}, err
	}
	return res, view, nil
}

// ExportTasks renders the session's filtered and sorted tasks.
func (s *Service) ExportTasks(ctx context.Context, sess *Session, format ExportFormat) ([]byte, error) {
	tasks := sess.Filtered()
	logger := logging.WithFields(ctx, "format", format, "rows", len(tasks))

	data, err := Render(format, TaskSheet(tasks))
	if err != nil {
		logger.Error("task export failed", "error", err)
		return nil, err
	}
	logger.Info("task export rendered", "bytes", len(data))
	return data, nil
}

// Projects returns the overview projects matching the filters.
func (s *Service) Projects(nameSubstring, status string) []Project {
	return FilterProjects(s.projects, nameSubstring, status)
}

// ExportProjects renders the full overview project list.
func (s *Service) ExportProjects(ctx context.Context, format ExportFormat) ([]byte, error) {
	data, err := Render(format, ProjectSheet(s.projects))
	if err != nil {
		logging.FromContext(ctx).Error("project export failed", "format", format, "error", err)
		return nil, err
	}
	return data, nil
}

// EvidenceUpload describes an evidence file received from a client.
type EvidenceUpload struct {
	TaskName    string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AttachEvidence stores an evidence file for a loaded task.
func (s *Service) AttachEvidence(ctx context.Context, sess *Session, up EvidenceUpload) (EvidenceRef, error) {
	if !sess.HasTask(up.TaskName) {
		return EvidenceRef{}, fmt.Errorf("%w: %q", ErrTaskNotFound, up.TaskName)
	}

	var ref EvidenceRef
	err := s.limiter.Do(ctx, func() (err error) {
		ref, err = s.storeEvidence(ctx, sess, up)
		return err
	})
	if err != nil {
		return EvidenceRef{}, err
	}
	return ref, nil
}

// storeEvidence writes one evidence file and records it on sess. The caller
// holds an upload slot.
func (s *Service) storeEvidence(ctx context.Context, sess *Session, up EvidenceUpload) (EvidenceRef, error) {
	ctx, cancel := context.WithTimeout(ctx, EvidenceTimeout)
	defer cancel()

	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id := uuid.NewString()
	ref := EvidenceRef{
		ID:          id,
		TaskName:    up.TaskName,
		FileName:    cleanFileName(up.FileName),
		Key:         EvidenceKey(sess.ID(), up.TaskName, id, up.FileName),
		Size:        up.Size,
		ContentType: contentType,
		UploadedAt:  time.Now().UTC(),
	}

	obj := EvidenceObject{
		Key:         ref.Key,
		ContentType: contentType,
		Size:        up.Size,
		Metadata: map[string]string{
			"task":      up.TaskName,
			"client-ip": ClientIPFromContext(ctx),
		},
	}
	if err := s.evidence.Put(ctx, obj, up.Body); err != nil {
		return EvidenceRef{}, err
	}

	sess.AddEvidence(ref)
	logging.WithFields(ctx, "task", up.TaskName, "key", ref.Key, "backend", s.evidence.Backend()).
		Info("evidence stored", "bytes", up.Size)
	return ref, nil
}

// OpenEvidence returns a stored evidence file of sess.
func (s *Service) OpenEvidence(ctx context.Context, sess *Session, id string) (EvidenceRef, io.ReadCloser, error) {
	ref, ok := sess.Evidence(id)
	if !ok {
		return EvidenceRef{}, nil, fmt.Errorf("%w: %s", ErrEvidenceNotFound, id)
	}
	rc, err := s.evidence.Open(ctx, ref.Key)
	if err != nil {
		return EvidenceRef{}, nil, err
	}
	return ref, rc, nil
}

// EvidenceBackend names the configured evidence store.
func (s *Service) EvidenceBackend() string {
	return s.evidence.Backend()
}

// UploadStatus reports upload slot usage.
func (s *Service) UploadStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// StartSessionJanitor sweeps expired sessions in the background until ctx
// ends.
func (s *Service) StartSessionJanitor(ctx context.Context, interval time.Duration) {
	go s.sessions.RunJanitor(ctx, interval)
}

// WaitForUploads blocks until in-flight uploads finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
