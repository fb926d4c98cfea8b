package core

import (
	"fmt"
	"testing"
)

func makeTasks(n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{Name: fmt.Sprintf("task %02d", i), Payment: float64(i), Date: "2024-01-01", Status: StatusPending}
	}
	return tasks
}

func TestPaginate_TwentyFiveRows(t *testing.T) {
	view := makeTasks(25)

	tests := []struct {
		offset     int
		wantNumber int
		wantLen    int
	}{
		{0, 1, 12},
		{12, 2, 12},
		{24, 3, 1},
		{36, 4, 0},
		{-12, 1, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("offset %d", tt.offset), func(t *testing.T) {
			p := Paginate(view, tt.offset, 12)
			if p.TotalPages != 3 {
				t.Errorf("TotalPages = %d, want 3", p.TotalPages)
			}
			if p.PageNumber != tt.wantNumber {
				t.Errorf("PageNumber = %d, want %d", p.PageNumber, tt.wantNumber)
			}
			if len(p.Tasks) != tt.wantLen {
				t.Errorf("len(Tasks) = %d, want %d", len(p.Tasks), tt.wantLen)
			}
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate(nil, 0, 12)
	if p.TotalPages != 0 || p.PageNumber != 1 || len(p.Tasks) != 0 {
		t.Errorf("Paginate(nil) = %+v", p)
	}
	if p.Tasks == nil {
		t.Error("Tasks should be non-nil")
	}
	if p.HasPrev() || p.HasNext() {
		t.Error("empty page should have no neighbours")
	}
}

func TestPaginate_PageIsCopy(t *testing.T) {
	view := makeTasks(3)
	p := Paginate(view, 0, 12)
	p.Tasks[0].Name = "changed"
	if view[0].Name == "changed" {
		t.Error("page aliases the view")
	}
}

func TestNavigation(t *testing.T) {
	const count = 25
	q := NewQueryState(12)

	q = PrevPage(q)
	if q.Offset != 0 {
		t.Fatalf("PrevPage from page 1 moved to %d", q.Offset)
	}

	q = NextPage(q, count)
	if q.Offset != 12 {
		t.Fatalf("NextPage = %d, want 12", q.Offset)
	}

	q = LastPage(q, count)
	if q.Offset != 24 {
		t.Fatalf("LastPage = %d, want 24", q.Offset)
	}

	q = NextPage(q, count)
	if q.Offset != 24 {
		t.Fatalf("NextPage from last page moved to %d", q.Offset)
	}

	q = PrevPage(q)
	if q.Offset != 12 {
		t.Fatalf("PrevPage = %d, want 12", q.Offset)
	}

	q = FirstPage(q)
	if q.Offset != 0 {
		t.Fatalf("FirstPage = %d, want 0", q.Offset)
	}
}

func TestLastPage_ExactMultiple(t *testing.T) {
	q := LastPage(NewQueryState(12), 24)
	if q.Offset != 12 {
		t.Errorf("LastPage(24) = %d, want 12", q.Offset)
	}
	q = LastPage(NewQueryState(12), 0)
	if q.Offset != 0 {
		t.Errorf("LastPage(0) = %d, want 0", q.Offset)
	}
}

func TestClampOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		count  int
		want   int
	}{
		{"within range", 12, 25, 12},
		{"past end moves to last page", 24, 13, 12},
		{"no rows", 24, 0, 0},
		{"negative", -5, 25, 0},
		{"unaligned", 15, 25, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueryState(12)
			q.Offset = tt.offset
			if got := ClampOffset(q, tt.count).Offset; got != tt.want {
				t.Errorf("ClampOffset(%d, %d) = %d, want %d", tt.offset, tt.count, got, tt.want)
			}
		})
	}
}

func TestNavigate(t *testing.T) {
	q := NewQueryState(10)
	for _, step := range []struct {
		action PageAction
		want   int
	}{
		{PageNext, 10},
		{PageLast, 40},
		{PagePrev, 30},
		{PageFirst, 0},
		{PageAction("bogus"), 0},
	} {
		q = Navigate(q, step.action, 45)
		if q.Offset != step.want {
			t.Errorf("after %q offset = %d, want %d", step.action, q.Offset, step.want)
		}
	}
}

func TestParsePageAction(t *testing.T) {
	for _, s := range []string{"first", "prev", "next", "last"} {
		if _, ok := ParsePageAction(s); !ok {
			t.Errorf("ParsePageAction(%q) rejected", s)
		}
	}
	if _, ok := ParsePageAction("Next"); ok {
		t.Error("ParsePageAction accepted unknown action")
	}
}
