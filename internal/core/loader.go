package core

// loader.go reads task sources into validated record sets.
//
// A load never fails outright: problems that prevent reading the source
// (missing file, missing columns, malformed CSV) are reported on
// LoadResult.Problem with an empty record set, and rows that fail
// validation are skipped with a diagnostic. Concurrent loads of the same
// file share one read.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JonMunkholm/checklist/internal/logging"
)

// ctxCheckInterval is how many rows are parsed between context checks.
const ctxCheckInterval = 1000

// Loader reads task sources.
type Loader struct {
	files singleflight.Group
}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads the CSV file at path. Callers that race on the same path
// share a single read; each receives its own copy of the tasks.
func (l *Loader) LoadFile(ctx context.Context, path string) LoadResult {
	v, _, shared := l.files.Do(path, func() (any, error) {
		return l.loadFile(ctx, path), nil
	})

	res := v.(LoadResult)
	if shared {
		res.Tasks = slices.Clone(res.Tasks)
	}
	return res
}

func (l *Loader) loadFile(ctx context.Context, path string) LoadResult {
	start := time.Now()
	logger := logging.WithFields(ctx, "source", path)

	f, err := os.Open(path)
	if err != nil {
		res := LoadResult{Source: path, Duration: time.Since(start)}
		if errors.Is(err, fs.ErrNotExist) {
			res.Problem = fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		} else {
			res.Problem = fmt.Errorf("open task source: %w", err)
		}
		logger.Warn("task source unavailable", "error", res.Problem)
		return res
	}
	defer f.Close()

	return l.LoadReader(ctx, path, f)
}

// LoadReader parses a CSV task source from r. name identifies the source
// in the result and in log entries.
func (l *Loader) LoadReader(ctx context.Context, name string, r io.Reader) LoadResult {
	start := time.Now()
	logger := logging.WithFields(ctx, "source", name)

	tasks, rejected, err := parseTasks(ctx, r)
	res := LoadResult{
		Source:   name,
		Rejected: rejected,
	}
	if err != nil {
		res.Problem = err
		res.Rejected = nil
		logger.Warn("task source not loaded", "error", err)
	} else {
		res.Tasks = tasks
		res.Count = len(tasks)
	}
	res.Duration = time.Since(start)

	for _, rej := range res.Rejected {
		logger.Warn("task row rejected", "line", rej.LineNumber, "reason", rej.Reason)
	}
	if res.Problem == nil {
		logger.Info("task source loaded",
			"count", res.Count,
			"rejected", len(res.Rejected),
			"duration", res.Duration,
		)
	}

	return res
}

// parseTasks reads a header row followed by task rows. It returns an error
// only when the source as a whole is unusable.
func parseTasks(ctx context.Context, r io.Reader) ([]Task, []RejectedRow, error) {
	cr := csv.NewReader(NewSourceReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("%w: header: %v", ErrInvalidCSV, err)
	}

	idx, err := ValidateHeaders(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		tasks    []Task
		rejected []RejectedRow
		rows     int
	)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}

		rows++
		if rows%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		if isBlankRecord(record) {
			continue
		}

		line, _ := cr.FieldPos(0)

		task, err := ParseTaskRow(record, idx)
		if err == nil {
			err = ValidateTask(task).Err()
		}
		if err != nil {
			rejected = append(rejected, RejectedRow{
				LineNumber: line,
				Reason:     err.Error(),
				Data:       record,
			})
			continue
		}

		tasks = append(tasks, task)
	}

	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, rejected, nil
}

// isBlankRecord reports whether every field is empty after trimming.
func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
