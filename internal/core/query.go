package core

// query.go derives the visible view of a task set: an optional stable sort
// on one column and a case-insensitive substring filter across every
// column. Queries never modify the loaded tasks.

import (
	"sort"
	"strings"
)

// Column names a sortable task field.
type Column string

const (
	ColumnNone    Column = ""
	ColumnName    Column = "name"
	ColumnPayment Column = "payment"
	ColumnDate    Column = "date"
	ColumnStatus  Column = "status"
)

// Columns lists the task columns in display order.
var Columns = []Column{ColumnName, ColumnPayment, ColumnDate, ColumnStatus}

// columnAccessor extracts a column's search text and, for numeric columns,
// its sort value.
type columnAccessor struct {
	label   string
	text    func(Task) string
	numeric func(Task) float64
}

var columnAccessors = map[Column]columnAccessor{
	ColumnName: {
		label: "Task Name",
		text:  func(t Task) string { return t.Name },
	},
	ColumnPayment: {
		label:   "Payment",
		text:    func(t Task) string { return PaymentSearchText(t.Payment) },
		numeric: func(t Task) float64 { return t.Payment },
	},
	ColumnDate: {
		label: "Date",
		text:  func(t Task) string { return t.Date },
	},
	ColumnStatus: {
		label: "Status",
		text:  func(t Task) string { return string(t.Status) },
	},
}

// ParseColumn resolves a column name case-insensitively.
func ParseColumn(s string) (Column, bool) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	_, ok := columnAccessors[c]
	return c, ok
}

// Label returns the column heading shown to users.
func (c Column) Label() string {
	return columnAccessors[c].label
}

// Text returns the textual representation of the column for t, the same
// form that search matches against.
func (c Column) Text(t Task) string {
	acc, ok := columnAccessors[c]
	if !ok {
		return ""
	}
	return acc.text(t)
}

// Matches reports whether any column of t contains term, ignoring case.
// An empty term matches every task.
func Matches(t Task, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, c := range Columns {
		if strings.Contains(strings.ToLower(c.Text(t)), needle) {
			return true
		}
	}
	return false
}

// Filter returns the tasks matching term, in source order.
func Filter(tasks []Task, term string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, term) {
			out = append(out, t)
		}
	}
	return out
}

// SortTasks sorts tasks in place by column. Payment compares numerically,
// the other columns by their lower-cased text. The sort is stable in both
// directions: tasks with equal keys keep their relative order.
// ColumnNone and unknown columns leave the order untouched.
func SortTasks(tasks []Task, column Column, descending bool) {
	acc, ok := columnAccessors[column]
	if !ok {
		return
	}

	var cmp func(a, b Task) int
	if acc.numeric != nil {
		cmp = func(a, b Task) int {
			x, y := acc.numeric(a), acc.numeric(b)
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	} else {
		cmp = func(a, b Task) int {
			return strings.Compare(strings.ToLower(acc.text(a)), strings.ToLower(acc.text(b)))
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if descending {
			return cmp(tasks[i], tasks[j]) > 0
		}
		return cmp(tasks[i], tasks[j]) < 0
	})
}

// Query returns tasks sorted by column and filtered by search. Because the
// sort is stable and the filter keeps order, filtering first yields the
// same sequence while sorting fewer rows. The returned slice is always
// new; tasks is left untouched.
func Query(tasks []Task, search string, column Column, descending bool) []Task {
	view := Filter(tasks, search)
	SortTasks(view, column, descending)
	return view
}

// QueryState is the per-session view state: search term, sort column and
// direction, and the offset of the first visible row.
type QueryState struct {
	Search     string `json:"search"`
	SortColumn Column `json:"sort_column,omitempty"`
	Descending bool   `json:"descending"`
	Offset     int    `json:"offset"`
	PageSize   int    `json:"page_size"`
}

// NewQueryState returns the initial state: no search, no sort, offset 0.
func NewQueryState(pageSize int) QueryState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return QueryState{PageSize: pageSize}
}

// Apply runs the state's filter and sort over tasks.
func (q QueryState) Apply(tasks []Task) []Task {
	return Query(tasks, q.Search, q.SortColumn, q.Descending)
}

// WithSearch replaces the search term. The offset is kept; callers clamp
// it against the new filtered count.
func (q QueryState) WithSearch(term string) QueryState {
	q.Search = term
	return q
}

// ToggleSort selects column for sorting. Selecting the current column
// flips the direction; selecting a different one sorts it ascending.
func (q QueryState) ToggleSort(column Column) QueryState {
	if q.SortColumn == column {
		q.Descending = !q.Descending
		return q
	}
	q.SortColumn = column
	q.Descending = false
	return q
}

// queryKey identifies a memoized query result.
type queryKey struct {
	generation uint64
	search     string
	column     Column
	descending bool
}

// QueryCache memoizes the last query result for a session. It is not safe
// for concurrent use; the owning Session serializes access.
type QueryCache struct {
	key    queryKey
	valid  bool
	result []Task

	hits, misses int
}

// Get returns the view for q over tasks, recomputing only when the task
// generation, search term or sort has changed since the last call.
func (c *QueryCache) Get(generation uint64, tasks []Task, q QueryState) []Task {
	key := queryKey{
		generation: generation,
		search:     q.Search,
		column:     q.SortColumn,
		descending: q.Descending,
	}
	if c.valid && c.key == key {
		c.hits++
		return c.result
	}

	c.misses++
	c.key = key
	c.result = q.Apply(tasks)
	c.valid = true
	return c.result
}

// Invalidate drops the memoized result.
func (c *QueryCache) Invalidate() {
	c.valid = false
	c.result = nil
}

// Stats reports how many Get calls were served from the memo and how many
// recomputed.
func (c *QueryCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
