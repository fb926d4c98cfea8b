package core

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Exporter renders a Sheet in one file format.
type Exporter interface {
	// Format is the registry key, e.g. "csv".
	Format() ExportFormat
	// ContentType is the MIME type of the rendered file.
	ContentType() string
	// Write renders sheet to w.
	Write(w io.Writer, sheet Sheet) error
}

var (
	exporters   = make(map[ExportFormat]Exporter)
	exportersMu sync.RWMutex
)

// RegisterExporter adds an exporter to the registry.
// Panics if an exporter for the same format is already registered.
func RegisterExporter(e Exporter) {
	exportersMu.Lock()
	defer exportersMu.Unlock()

	if _, exists := exporters[e.Format()]; exists {
		panic(fmt.Sprintf("exporter already registered: %s", e.Format()))
	}
	exporters[e.Format()] = e
}

// LookupExporter returns the exporter for format.
func LookupExporter(format ExportFormat) (Exporter, bool) {
	exportersMu.RLock()
	defer exportersMu.RUnlock()

	e, ok := exporters[format]
	return e, ok
}

// ExportFormats returns the registered formats, sorted.
func ExportFormats() []ExportFormat {
	exportersMu.RLock()
	defer exportersMu.RUnlock()

	formats := make([]ExportFormat, 0, len(exporters))
	for f := range exporters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
