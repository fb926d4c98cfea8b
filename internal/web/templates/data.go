package templates

import "github.com/JonMunkholm/checklist/internal/core"

// ChecklistData is everything the checklist page and its table fragment
// render from.
type ChecklistData struct {
	View    core.View
	Formats []core.ExportFormat
	Notice  string
	Alert   *core.UserMessage
}

// OverviewData holds the overview filters and the matching projects.
type OverviewData struct {
	Search   string
	Status   string
	Options  []string
	Projects []core.Project
}

const checklistTarget = "#checklist-table"

var navItems = []struct{ Href, Label string }{
	{"/", "Overview"},
	{"/checklist", "Checklist"},
	{"/about", "About"},
}

// htmxConfig lets 4xx/5xx fragments swap in so error alerts render in place.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

var aboutFeatures = []string{
	"Search tasks across every column and sort by any column.",
	"Page through large checklists.",
	"Load tasks from CSV and see which rows were skipped and why.",
	"Attach evidence files to individual tasks.",
	"Export the current view to Excel, CSV or PDF.",
	"Filter the checklist overview by name or status.",
}

type pageControl struct {
	Action  core.PageAction
	Label   string
	Enabled bool
}

// pageControls lists the first/prev/next/last buttons for p.
func pageControls(p core.Page) []pageControl {
	return []pageControl{
		{core.PageFirst, "«", p.HasPrev()},
		{core.PagePrev, "‹", p.HasPrev()},
		{core.PageNext, "›", p.HasNext()},
		{core.PageLast, "»", p.HasNext()},
	}
}
