package core

// evidence.go stores files uploaded as proof that a task was done.
//
// Evidence is kept per session and addressed by an object key of the form
// <session>/<task-slug>/<uuid>_<filename>. The bytes live in an
// EvidenceStore (local directory or S3); the session keeps the references.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/JonMunkholm/checklist/internal/config"
)

// EvidenceRef describes one stored evidence file.
type EvidenceRef struct {
	ID          string    `json:"id"`
	TaskName    string    `json:"task_name"`
	FileName    string    `json:"file_name"`
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// EvidenceObject is what a store needs to persist one upload.
type EvidenceObject struct {
	Key         string
	ContentType string
	Size        int64
	Metadata    map[string]string
}

// EvidenceStore persists evidence bytes.
type EvidenceStore interface {
	// Put stores body under obj.Key.
	Put(ctx context.Context, obj EvidenceObject, body io.Reader) error
	// Open returns the stored bytes. A missing key yields ErrEvidenceNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Backend names the store for logs and health output.
	Backend() string
}

// NewEvidenceStore builds the store selected by cfg.Backend.
func NewEvidenceStore(ctx context.Context, cfg config.EvidenceConfig) (EvidenceStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "local":
		return NewLocalEvidenceStore(cfg.Dir)
	case "s3":
		return NewS3EvidenceStore(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown evidence backend %q", cfg.Backend)
	}
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowers s and collapses every run of other characters to '-'.
func slugify(s string) string {
	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "task"
	}
	return slug
}

// cleanFileName strips directories and characters that are unsafe in
// object keys from a client-supplied file name.
func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == '/', r == '"', r == '\'':
			return -1
		case r == ' ':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "evidence"
	}
	return name
}

// EvidenceKey builds the object key for an upload.
func EvidenceKey(sessionID, taskName, id, fileName string) string {
	return path.Join(sessionID, slugify(taskName), id+"_"+cleanFileName(fileName))
}

// LocalEvidenceStore keeps evidence under a directory on disk.
type LocalEvidenceStore struct {
	root string
}

// NewLocalEvidenceStore creates root if needed.
func NewLocalEvidenceStore(root string) (*LocalEvidenceStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create evidence dir: %w", err)
	}
	return &LocalEvidenceStore{root: root}, nil
}

// Backend implements EvidenceStore.
func (s *LocalEvidenceStore) Backend() string { return "local" }

// resolve maps key to a path inside root, refusing anything that escapes it.
func (s *LocalEvidenceStore) resolve(key string) (string, error) {
	if !fs.ValidPath(key) {
		return "", fmt.Errorf("%w: invalid key %q", ErrEvidenceNotFound, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Put implements EvidenceStore. The file appears under its final name only
// once fully written.
func (s *LocalEvidenceStore) Put(ctx context.Context, obj EvidenceObject, body io.Reader) error {
	dest, err := s.resolve(obj.Key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("store evidence: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return fmt.Errorf("store evidence: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, readerWithContext(ctx, body)); err != nil {
		tmp.Close()
		return fmt.Errorf("store evidence: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store evidence: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("store evidence: %w", err)
	}
	return nil
}

// Open implements EvidenceStore.
func (s *LocalEvidenceStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrEvidenceNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("open evidence: %w", err)
	}
	return f, nil
}

// ctxReader stops a copy once its context ends.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
