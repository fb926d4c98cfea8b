package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
)

// ============================================================================
// Conversion Benchmarks
// ============================================================================

// BenchmarkParsePayment covers the currency and accounting forms seen in
// exported spreadsheets.
func BenchmarkParsePayment(b *testing.B) {
	testCases := []string{
		"123",
		"456.78",
		"$1,234.56",
		"(123.45)",
		"  999.99  ",
		"\u20ac1234.56",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParsePayment(tc)
		}
	}
}

// ============================================================================
// Load Benchmarks
// ============================================================================

func benchmarkCSV(rows int) []byte {
	var buf bytes.Buffer
	buf.WriteString("name,payment,date,status\n")
	statuses := []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&buf, "Task %d,%d.50,2024-01-%02d,%s\n", i, i*10, i%28+1, statuses[i%3])
	}
	return buf.Bytes()
}

// BenchmarkLoadReader measures parsing and validating a 10k row source.
func BenchmarkLoadReader(b *testing.B) {
	data := benchmarkCSV(10000)
	loader := NewLoader()
	ctx := context.Background()

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		loader.LoadReader(ctx, "bench.csv", bytes.NewReader(data))
	}
}

// BenchmarkSourceReader measures the BOM and UTF-8 cleanup layer alone.
func BenchmarkSourceReader(b *testing.B) {
	data := "\ufeff" + strings.Repeat("name,payment,date,status\n", 2000)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		io.Copy(io.Discard, NewSourceReader(strings.NewReader(data)))
	}
}

// ============================================================================
// Query Benchmarks
// ============================================================================

// BenchmarkQuery measures search plus sort over 10k tasks.
func BenchmarkQuery(b *testing.B) {
	tasks := makeTasks(10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Query(tasks, "task 1", ColumnName, true)
	}
}

// BenchmarkQueryCache_Hit measures repeated page turns over a memoized view.
func BenchmarkQueryCache_Hit(b *testing.B) {
	tasks := makeTasks(10000)
	var cache QueryCache
	q := NewQueryState(DefaultPageSize).ToggleSort(ColumnPayment)
	cache.Get(1, tasks, q)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Offset = (i * DefaultPageSize) % len(tasks)
		Paginate(cache.Get(1, tasks, q), q.Offset, q.PageSize)
	}
}
