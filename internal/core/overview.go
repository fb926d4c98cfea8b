package core

// overview.go serves the checklist overview: a small table of projects
// filtered by a name substring and an exact status.

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultProjects seeds the overview when no projects file is configured.
var DefaultProjects = []Project{
	{Name: "Checklist 1", Owner: "Area 1", Status: "Completed", Progress: "100%"},
	{Name: "Checklist 2", Owner: "Area 2", Status: "In Progress", Progress: "50%"},
	{Name: "Checklist 3", Owner: "Area 3", Status: "Pending", Progress: "0%"},
}

// projectsFile is the TOML layout of a projects file:
//
//	[[project]]
//	name = "Month-end close"
//	owner = "Finance"
//	status = "In Progress"
//	progress = "40%"
type projectsFile struct {
	Projects []Project `toml:"project"`
}

// LoadProjects reads projects from a TOML file. An empty path returns a
// copy of DefaultProjects.
func LoadProjects(path string) ([]Project, error) {
	if strings.TrimSpace(path) == "" {
		return slices.Clone(DefaultProjects), nil
	}

	var pf projectsFile
	meta, err := toml.DecodeFile(path, &pf)
	if err != nil {
		return nil, fmt.Errorf("load projects %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load projects %s: unknown keys: %v", path, undecoded)
	}

	for i, p := range pf.Projects {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("load projects %s: project %d has no name", path, i+1)
		}
	}

	if pf.Projects == nil {
		pf.Projects = []Project{}
	}
	return pf.Projects, nil
}

// FilterProjects keeps projects whose name contains nameSubstring, ignoring
// case, and whose status equals statusExact. Only "All" disables the status
// filter; an empty status matches no project. The input is not modified.
func FilterProjects(projects []Project, nameSubstring, statusExact string) []Project {
	needle := strings.ToLower(nameSubstring)
	anyStatus := statusExact == StatusFilterAll

	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if !anyStatus && p.Status != statusExact {
			continue
		}
		out = append(out, p)
	}
	return out
}
