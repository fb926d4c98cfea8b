package core

import "time"

// TaskStatus is the lifecycle state of a checklist task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses lists every accepted status in display order.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the accepted statuses. Matching is
// exact and case-sensitive.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is one checklist row.
type Task struct {
	Name    string     `json:"name"`
	Payment float64    `json:"payment"`
	Date    string     `json:"date"`
	Status  TaskStatus `json:"status"`
}

// RequiredHeaders are the columns a task source must provide. Additional
// columns are ignored.
var RequiredHeaders = []string{"name", "payment", "date", "status"}

// TaskExportColumns is the header row written by task exports.
var TaskExportColumns = []string{"Task Name", "Payment", "Date", "Status"}

// HeaderIndex maps a column name to its position in the source header.
type HeaderIndex map[string]int

// RejectedRow describes a source row that failed validation.
type RejectedRow struct {
	LineNumber int      `json:"line_number"`
	Reason     string   `json:"reason"`
	Data       []string `json:"data,omitempty"`
}

// LoadResult is the outcome of one load attempt. Problem is set when the
// source could not be read at all; Tasks is then empty and Count is 0.
type LoadResult struct {
	Source   string        `json:"source"`
	Tasks    []Task        `json:"-"`
	Count    int           `json:"count"`
	Rejected []RejectedRow `json:"rejected,omitempty"`
	Problem  error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// ProblemMessage returns the problem text for display, or "".
func (r LoadResult) ProblemMessage() string {
	if r.Problem == nil {
		return ""
	}
	return r.Problem.Error()
}

// StatusFilterAll disables the overview status filter.
const StatusFilterAll = "All"

// ProjectStatusOptions are the choices offered by the overview status filter.
var ProjectStatusOptions = []string{StatusFilterAll, "Completed", "Pending", "In Progress"}

// Project is one row of the checklist overview table.
type Project struct {
	Name     string `json:"name" toml:"name"`
	Owner    string `json:"owner" toml:"owner"`
	Status   string `json:"status" toml:"status"`
	Progress string `json:"progress" toml:"progress"`
}

// ProjectExportColumns is the header row written by overview exports.
var ProjectExportColumns = []string{"Name", "Owner", "Status", "Progress"}
