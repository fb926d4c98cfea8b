package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

func loadedSession(t *testing.T, n int) *Session {
	t.Helper()
	s := newSession("test", 12, time.Now())
	s.Replace(LoadResult{Source: "test.csv", Tasks: makeTasks(n), Count: n})
	return s
}

func TestSession_ReplaceResetsState(t *testing.T) {
	s := loadedSession(t, 25)
	s.Navigate(PageLast)
	s.Search("task")

	v := s.Replace(LoadResult{Source: "other.csv", Tasks: makeTasks(5), Count: 5})
	if v.Query.Offset != 0 {
		t.Errorf("Offset = %d, want 0 after reload", v.Query.Offset)
	}
	if v.LoadedCount != 5 || v.Source != "other.csv" {
		t.Errorf("view = %+v", v)
	}
	if v.Query.Search != "task" {
		t.Errorf("search should survive a reload")
	}
}

func TestSession_ProblemLeavesEmptySet(t *testing.T) {
	s := loadedSession(t, 25)
	v := s.Replace(LoadResult{Source: "gone.csv", Problem: ErrSourceNotFound})

	if v.LoadedCount != 0 || len(v.Page.Tasks) != 0 || v.Page.TotalPages != 0 {
		t.Errorf("view = %+v, want empty", v)
	}
	if v.Problem == "" {
		t.Error("Problem should be reported")
	}
}

func TestSession_SearchClampsOffset(t *testing.T) {
	s := loadedSession(t, 25)
	s.Navigate(PageLast)

	// "task 0" matches tasks 00-09: a single page.
	v := s.Search("task 0")
	if v.Page.TotalRows != 10 {
		t.Fatalf("TotalRows = %d, want 10", v.Page.TotalRows)
	}
	if v.Query.Offset != 0 || v.Page.PageNumber != 1 || v.Page.TotalPages != 1 {
		t.Errorf("offset %d page %d/%d, want 0 page 1/1", v.Query.Offset, v.Page.PageNumber, v.Page.TotalPages)
	}
	if len(v.Page.Tasks) != 10 {
		t.Errorf("len(Tasks) = %d, want 10", len(v.Page.Tasks))
	}
}

func TestSession_PagesUseFilteredCount(t *testing.T) {
	s := loadedSession(t, 25)
	v := s.Search("task 1")
	if v.Page.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1 for 10 matches", v.Page.TotalPages)
	}
	if v.LoadedCount != 25 {
		t.Errorf("LoadedCount = %d, want 25", v.LoadedCount)
	}
}

func TestSession_SortAndFiltered(t *testing.T) {
	s := loadedSession(t, 5)
	s.Sort(ColumnPayment)
	v := s.Sort(ColumnPayment)

	if !v.Query.Descending {
		t.Fatal("second Sort should flip to descending")
	}
	filtered := s.Filtered()
	if filtered[0].Payment != 4 || filtered[4].Payment != 0 {
		t.Errorf("Filtered() = %v", payments(filtered))
	}

	filtered[0].Name = "changed"
	if s.View().Page.Tasks[0].Name == "changed" {
		t.Error("Filtered() aliases session state")
	}
}

func TestSession_Evidence(t *testing.T) {
	s := loadedSession(t, 2)
	if !s.HasTask("task 01") || s.HasTask("task 99") {
		t.Fatal("HasTask is wrong")
	}

	s.AddEvidence(EvidenceRef{ID: "e1", TaskName: "task 01"})
	if _, ok := s.Evidence("e1"); !ok {
		t.Error("Evidence(e1) not found")
	}
	if _, ok := s.Evidence("e2"); ok {
		t.Error("Evidence(e2) should not exist")
	}
	if n := s.View().EvidenceCount("task 01"); n != 1 {
		t.Errorf("EvidenceCount = %d, want 1", n)
	}
}

func TestSession_ConcurrentRequests(t *testing.T) {
	s := loadedSession(t, 100)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				s.Search("task")
			case 1:
				s.Sort(ColumnName)
			case 2:
				s.Navigate(PageNext)
			default:
				s.View()
			}
		}(i)
	}
	wg.Wait()

	v := s.View()
	if v.Query.Offset%12 != 0 {
		t.Errorf("offset %d not aligned", v.Query.Offset)
	}
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(time.Minute, 12)
	now := time.Now()
	store.now = func() time.Time { return now }

	a, created := store.GetOrCreate("")
	if !created {
		t.Fatal("expected a new session")
	}
	b, created := store.GetOrCreate(a.ID())
	if created || b != a {
		t.Fatal("expected the existing session")
	}

	c := store.Create()
	if c.ID() == a.ID() {
		t.Fatal("session ids collide")
	}
	a.Replace(LoadResult{Tasks: makeTasks(3), Count: 3})
	if c.View().LoadedCount != 0 {
		t.Error("sessions share state")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(a.ID()); ok {
		t.Error("expired session still returned")
	}
	if removed := store.Sweep(); removed != 1 {
		t.Errorf("Sweep() = %d, want 1", removed)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestSessionStore_RunJanitorStops(t *testing.T) {
	store := NewSessionStore(time.Millisecond, 12)
	store.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for store.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("janitor did not sweep")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
