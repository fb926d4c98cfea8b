package core

// session.go holds per-browser checklist state. Each session owns its task
// set, query state, memoized view and evidence references; nothing mutable
// is shared between sessions. Requests for the same session are
// serialized by the session's mutex.

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session is one browser's checklist state.
type Session struct {
	id       string
	lastSeen atomic.Int64 // unix nanoseconds

	mu         sync.Mutex
	loaded     bool
	tasks      []Task
	generation uint64
	source     string
	problem    error
	rejected   []RejectedRow
	query      QueryState
	cache      QueryCache
	evidence   []EvidenceRef
}

func newSession(id string, pageSize int, now time.Time) *Session {
	s := &Session{
		id:    id,
		query: NewQueryState(pageSize),
		tasks: []Task{},
	}
	s.touch(now)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// View is a consistent snapshot of a session for rendering.
type View struct {
	Page        Page          `json:"page"`
	Query       QueryState    `json:"query"`
	Source      string        `json:"source"`
	LoadedCount int           `json:"loaded_count"`
	Rejected    []RejectedRow `json:"rejected,omitempty"`
	Problem     string        `json:"problem,omitempty"`
	Evidence    []EvidenceRef `json:"evidence,omitempty"`
}

// EvidenceCount returns how many evidence files are attached to task.
func (v View) EvidenceCount(task string) int {
	n := 0
	for _, e := range v.Evidence {
		if e.TaskName == task {
			n++
		}
	}
	return n
}

// Loaded reports whether a task source has been loaded into the session.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Replace swaps in the result of a load. The whole task set is replaced,
// the memoized view is dropped and the offset returns to the first page.
func (s *Session) Replace(res LoadResult) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.tasks = res.Tasks
	if s.tasks == nil {
		s.tasks = []Task{}
	}
	s.generation++
	s.source = res.Source
	s.problem = res.Problem
	s.rejected = res.Rejected
	s.cache.Invalidate()
	s.query = FirstPage(s.query)

	return s.viewLocked()
}

// View returns the current page and state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Search sets the search term.
func (s *Session) Search(term string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = s.query.WithSearch(term)
	return s.viewLocked()
}

// Sort toggles sorting on column.
func (s *Session) Sort(column Column) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = s.query.ToggleSort(column)
	return s.viewLocked()
}

// Navigate applies a pagination control.
func (s *Session) Navigate(action PageAction) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.cache.Get(s.generation, s.tasks, s.query)
	s.query = Navigate(s.query, action, len(view))
	return s.viewLocked()
}

// Filtered returns a copy of the full filtered and sorted view.
func (s *Session) Filtered() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cache.Get(s.generation, s.tasks, s.query))
}

// HasTask reports whether a task with name is loaded.
func (s *Session) HasTask(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.tasks, func(t Task) bool { return t.Name == name })
}

// AddEvidence records an uploaded evidence file.
func (s *Session) AddEvidence(ref EvidenceRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evidence = append(s.evidence, ref)
}

// Evidence looks up an evidence reference by id.
func (s *Session) Evidence(id string) (EvidenceRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.evidence {
		if e.ID == id {
			return e, true
		}
	}
	return EvidenceRef{}, false
}

// viewLocked computes the page for the current state. It also restores the
// offset invariant, since the filtered count may have shrunk.
func (s *Session) viewLocked() View {
	view := s.cache.Get(s.generation, s.tasks, s.query)
	s.query = ClampOffset(s.query, len(view))

	v := View{
		Page:        Paginate(view, s.query.Offset, s.query.PageSize),
		Query:       s.query,
		Source:      s.source,
		LoadedCount: len(s.tasks),
		Rejected:    slices.Clone(s.rejected),
		Evidence:    slices.Clone(s.evidence),
	}
	if s.problem != nil {
		v.Problem = s.problem.Error()
	}
	return v
}

// SessionStore indexes live sessions by id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl      time.Duration
	pageSize int
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl of
// inactivity and page pageSize rows at a time.
func NewSessionStore(ttl time.Duration, pageSize int) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Get returns a live session and marks it used.
func (st *SessionStore) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := st.now()
	if st.ttl > 0 && s.idleSince(now) > st.ttl {
		st.remove(id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Create starts a new session with a random id.
func (st *SessionStore) Create() *Session {
	s := newSession(uuid.NewString(), st.pageSize, st.now())

	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()

	return s
}

// GetOrCreate returns the session for id, creating a new one when id is
// unknown or expired. created reports which happened.
func (st *SessionStore) GetOrCreate(id string) (s *Session, created bool) {
	if s, ok := st.Get(id); ok {
		return s, false
	}
	return st.Create(), true
}

// Len returns the number of sessions held.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *SessionStore) remove(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Sweep drops expired sessions and returns how many were removed.
func (st *SessionStore) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired sessions every interval until ctx ends.
func (st *SessionStore) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Debug("expired sessions removed", "count", n, "remaining", st.Len())
			}
		}
	}
}
