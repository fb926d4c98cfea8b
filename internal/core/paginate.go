package core

// paginate.go slices a query view into fixed-size pages and moves the
// offset between them. The offset always points at the first row of a
// page, and the page count is derived from the filtered row count.

import "slices"

// DefaultPageSize is the number of rows per page when none is configured.
const DefaultPageSize = 12

// PageAction names a pagination control.
type PageAction string

const (
	PageFirst PageAction = "first"
	PagePrev  PageAction = "prev"
	PageNext  PageAction = "next"
	PageLast  PageAction = "last"
)

// ParsePageAction resolves a pagination control name.
func ParsePageAction(s string) (PageAction, bool) {
	switch a := PageAction(s); a {
	case PageFirst, PagePrev, PageNext, PageLast:
		return a, true
	}
	return "", false
}

// Page is one page of a query view.
type Page struct {
	Tasks      []Task `json:"tasks"`
	Offset     int    `json:"offset"`
	PageSize   int    `json:"page_size"`
	PageNumber int    `json:"page_number"`
	TotalPages int    `json:"total_pages"`
	TotalRows  int    `json:"total_rows"`
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Offset > 0 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Offset+p.PageSize < p.TotalRows }

// TotalPages is ceil(count / size). Zero rows means zero pages.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// PageNumber is the 1-based page containing offset.
func PageNumber(offset, size int) int {
	if size <= 0 || offset < 0 {
		return 1
	}
	return offset/size + 1
}

// Paginate returns the rows of view starting at offset, at most size of
// them. An offset outside the view yields an empty page.
func Paginate(view []Task, offset, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}

	p := Page{
		Tasks:      []Task{},
		Offset:     offset,
		PageSize:   size,
		PageNumber: PageNumber(offset, size),
		TotalPages: TotalPages(len(view), size),
		TotalRows:  len(view),
	}

	if offset < 0 || offset >= len(view) {
		return p
	}

	end := min(offset+size, len(view))
	p.Tasks = slices.Clone(view[offset:end])
	return p
}

// FirstPage moves to offset 0.
func FirstPage(q QueryState) QueryState {
	q.Offset = 0
	return q
}

// PrevPage moves back one page, stopping at 0.
func PrevPage(q QueryState) QueryState {
	q.Offset = max(q.Offset-q.pageSize(), 0)
	return q
}

// NextPage moves forward one page unless that would pass the last row.
func NextPage(q QueryState, count int) QueryState {
	if next := q.Offset + q.pageSize(); next < count {
		q.Offset = next
	}
	return q
}

// LastPage moves to the start of the final page: (ceil(count/size)-1)*size,
// or 0 when there are no rows.
func LastPage(q QueryState, count int) QueryState {
	pages := TotalPages(count, q.pageSize())
	q.Offset = max(pages-1, 0) * q.pageSize()
	return q
}

// ClampOffset keeps the offset within the view after the filtered count
// changes. An offset past the end moves to the last page.
func ClampOffset(q QueryState, count int) QueryState {
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Offset >= count {
		return LastPage(q, count)
	}
	// Re-align onto a page boundary.
	q.Offset -= q.Offset % q.pageSize()
	return q
}

// Navigate applies a pagination control.
func Navigate(q QueryState, action PageAction, count int) QueryState {
	switch action {
	case PageFirst:
		return FirstPage(q)
	case PagePrev:
		return PrevPage(q)
	case PageNext:
		return NextPage(q, count)
	case PageLast:
		return LastPage(q, count)
	}
	return q
}

func (q QueryState) pageSize() int {
	if q.PageSize <= 0 {
		return DefaultPageSize
	}
	return q.PageSize
}
