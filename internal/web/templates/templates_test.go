package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/checklist/internal/core"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	return sb.String()
}

func TestFormatPayment(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{45.5, "$45.50"},
		{1234.5, "$1,234.50"},
		{1000000, "$1,000,000.00"},
	}
	for _, tt := range tests {
		if got := FormatPayment(tt.in); got != tt.want {
			t.Errorf("FormatPayment(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(12345); got != "12,345" {
		t.Errorf("FormatCount = %q", got)
	}
}

func TestChecklistTable_EscapesTaskText(t *testing.T) {
	v := core.View{
		LoadedCount: 1,
		Source:      "<upload>.csv",
		Page: core.Paginate([]core.Task{
			{Name: `<script>alert("x")</script>`, Payment: 1, Date: "2024", Status: core.StatusPending},
		}, 0, 10),
	}
	got := renderString(t, ChecklistTable(ChecklistData{View: v}))

	if strings.Contains(got, "<script>") {
		t.Error("task name rendered unescaped")
	}
	if !strings.Contains(got, "&lt;script&gt;") || !strings.Contains(got, "&lt;upload&gt;.csv") {
		t.Errorf("escaped text missing: %s", got)
	}
	if !strings.Contains(got, `class="status status-pending"`) {
		t.Error("status badge class missing")
	}
}

func TestChecklistTable_Pagination(t *testing.T) {
	tasks := make([]core.Task, 5)
	for i := range tasks {
		tasks[i] = core.Task{Name: "t", Status: core.StatusPending}
	}

	tests := []struct {
		name         string
		offset       int
		wantDisabled []string
		wantEnabled  []string
		wantPage     string
	}{
		{
			name:         "first page",
			offset:       0,
			wantDisabled: []string{"first", "prev"},
			wantEnabled:  []string{"next", "last"},
			wantPage:     "Page <code>1</code> of 3",
		},
		{
			name:        "middle page",
			offset:      2,
			wantEnabled: []string{"first", "prev", "next", "last"},
			wantPage:    "Page <code>2</code> of 3",
		},
		{
			name:         "last page",
			offset:       4,
			wantDisabled: []string{"next", "last"},
			wantEnabled:  []string{"first", "prev"},
			wantPage:     "Page <code>3</code> of 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := core.View{LoadedCount: 5, Page: core.Paginate(tasks, tt.offset, 2)}
			got := renderString(t, ChecklistTable(ChecklistData{View: v}))

			if !strings.Contains(got, tt.wantPage) {
				t.Errorf("missing %q", tt.wantPage)
			}
			for _, a := range tt.wantDisabled {
				if !strings.Contains(got, `aria-label="`+a+` page" disabled>`) {
					t.Errorf("%s should be disabled", a)
				}
			}
			for _, a := range tt.wantEnabled {
				if !strings.Contains(got, `aria-label="`+a+` page">`) {
					t.Errorf("%s should be enabled", a)
				}
			}
		})
	}
}

func TestChecklistTable_EmptyView(t *testing.T) {
	got := renderString(t, ChecklistTable(ChecklistData{View: core.View{Page: core.Paginate(nil, 0, 10)}}))

	if !strings.Contains(got, "No tasks to show") {
		t.Error("empty state missing")
	}
	if !strings.Contains(got, "Page <code>1</code> of 1") {
		t.Error("an empty view still shows one page")
	}
}

func TestChecklistTable_Alert(t *testing.T) {
	msg := core.MapError(core.ErrSourceNotFound)
	got := renderString(t, ChecklistTable(ChecklistData{View: core.View{}, Alert: &msg, Notice: "hello"}))

	if !strings.Contains(got, "Code: FILE003") {
		t.Errorf("alert code missing: %s", got)
	}
	if !strings.Contains(got, `class="alert alert-info"`) {
		t.Error("notice missing")
	}
}

func TestOverviewPage_SelectsStatus(t *testing.T) {
	got := renderString(t, OverviewPage(OverviewData{
		Search:   `"quoted"`,
		Status:   "In Progress",
		Options:  core.ProjectStatusOptions,
		Projects: core.DefaultProjects,
	}))

	if !strings.Contains(got, `<option value="In Progress" selected>`) {
		t.Error("selected option missing")
	}
	if strings.Contains(got, `<option value="All" selected>`) {
		t.Error("All should not be selected")
	}
	if !strings.Contains(got, `value="&#34;quoted&#34;"`) {
		t.Errorf("search value not escaped: %s", got)
	}
	if !strings.Contains(got, "<!doctype html>") {
		t.Error("page should render inside the layout")
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[string]string{
		"In Progress": "status-in-progress",
		"Completed":   "status-completed",
		" pending ":   "status-pending",
	}
	for in, want := range tests {
		if got := statusClass(in); got != want {
			t.Errorf("statusClass(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLayout_MarksActiveNav(t *testing.T) {
	tests := []struct {
		name   string
		page   templ.Component
		active string
		title  string
	}{
		{"about", AboutPage(), "/about", "<title>About | Checklist</title>"},
		{"overview", OverviewPage(OverviewData{Options: core.ProjectStatusOptions}), "/", "<title>Checklist Overview | Checklist</title>"},
		{"checklist", ChecklistPage(ChecklistData{Formats: core.ExportFormats()}), "/checklist", "<title>Checklist | Checklist</title>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderString(t, tt.page)
			if !strings.HasPrefix(got, "<!doctype html>") {
				t.Errorf("page should start with the doctype: %.40s", got)
			}
			if !strings.Contains(got, tt.title) {
				t.Errorf("missing %q", tt.title)
			}
			if !strings.Contains(got, `<a href="`+tt.active+`" class="active">`) {
				t.Errorf("nav entry %s not marked active", tt.active)
			}
			if strings.Count(got, `class="active"`) != 1 {
				t.Error("exactly one nav entry should be active")
			}
		})
	}
}

func TestChecklistPage_ExportLinks(t *testing.T) {
	got := renderString(t, ChecklistPage(ChecklistData{Formats: []core.ExportFormat{core.FormatXLSX, core.FormatPDF}}))

	for _, want := range []string{
		`href="/api/tasks/export?format=xlsx" download>Export to Excel</a>`,
		`href="/api/tasks/export?format=pdf" download>Export to PDF</a>`,
		`id="checklist-table"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestPageControls(t *testing.T) {
	p := core.Paginate(make([]core.Task, 3), 0, 2)
	got := pageControls(p)
	if len(got) != 4 {
		t.Fatalf("controls = %d, want 4", len(got))
	}
	want := []bool{false, false, true, true}
	for i, c := range got {
		if c.Enabled != want[i] {
			t.Errorf("%s enabled = %v, want %v", c.Action, c.Enabled, want[i])
		}
	}
}
