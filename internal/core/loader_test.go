package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeCSV(t, `name,payment,date,status
Pay rent,1200,2024-01-01,Pending
Refund,-5,2024-01-02,Completed
Audit,300.5,2024-01-03,In Progress
Bad status,10,2024-01-04,Done
Bad number,ten,2024-01-05,Pending
Invoice,"$2,000",2024-01-06,Completed
`)

	res := NewLoader().LoadFile(context.Background(), path)
	if res.Problem != nil {
		t.Fatalf("Problem = %v", res.Problem)
	}

	wantNames := []string{"Pay rent", "Audit", "Invoice"}
	if res.Count != len(wantNames) || len(res.Tasks) != res.Count {
		t.Fatalf("Count = %d, len(Tasks) = %d, want %d", res.Count, len(res.Tasks), len(wantNames))
	}
	for i, name := range wantNames {
		if res.Tasks[i].Name != name {
			t.Errorf("Tasks[%d].Name = %q, want %q (source order)", i, res.Tasks[i].Name, name)
		}
	}
	for _, task := range res.Tasks {
		if task.Payment < 0 || !task.Status.Valid() {
			t.Errorf("retained invalid task %+v", task)
		}
	}
	if res.Tasks[2].Payment != 2000 {
		t.Errorf("Invoice payment = %v, want 2000", res.Tasks[2].Payment)
	}

	if len(res.Rejected) != 3 {
		t.Fatalf("len(Rejected) = %d, want 3: %+v", len(res.Rejected), res.Rejected)
	}
	wantLines := []int{3, 5, 6}
	for i, line := range wantLines {
		if res.Rejected[i].LineNumber != line {
			t.Errorf("Rejected[%d].LineNumber = %d, want %d", i, res.Rejected[i].LineNumber, line)
		}
	}
}

func TestLoader_MissingColumn(t *testing.T) {
	path := writeCSV(t, "name,payment,date\nPay rent,1200,2024-01-01\n")

	res := NewLoader().LoadFile(context.Background(), path)
	if !errors.Is(res.Problem, ErrSchemaMismatch) {
		t.Fatalf("Problem = %v, want ErrSchemaMismatch", res.Problem)
	}
	if res.Count != 0 || len(res.Tasks) != 0 {
		t.Errorf("Count = %d, len(Tasks) = %d, want empty", res.Count, len(res.Tasks))
	}
}

func TestLoader_MissingFile(t *testing.T) {
	res := NewLoader().LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(res.Problem, ErrSourceNotFound) {
		t.Fatalf("Problem = %v, want ErrSourceNotFound", res.Problem)
	}
	if res.Count != 0 || len(res.Tasks) != 0 {
		t.Errorf("Count = %d, want 0", res.Count)
	}
}

func TestLoader_LoadReader(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantCount   int
		wantProblem error
	}{
		{
			name:      "BOM and extra columns",
			input:     "\ufeffname,payment,date,status,notes\nA,1,d,Pending,x\n",
			wantCount: 1,
		},
		{
			name:      "blank rows skipped",
			input:     "name,payment,date,status\nA,1,d,Pending\n,,,\n\nB,2,d,Completed\n",
			wantCount: 2,
		},
		{
			name:      "short row rejected",
			input:     "name,payment,date,status\nA,1\nB,2,d,Completed\n",
			wantCount: 1,
		},
		{
			name:        "empty source",
			input:       "",
			wantProblem: ErrSchemaMismatch,
		},
		{
			name:      "header only",
			input:     "name,payment,date,status\n",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewLoader().LoadReader(context.Background(), "upload.csv", strings.NewReader(tt.input))
			if tt.wantProblem != nil {
				if !errors.Is(res.Problem, tt.wantProblem) {
					t.Fatalf("Problem = %v, want %v", res.Problem, tt.wantProblem)
				}
				return
			}
			if res.Problem != nil {
				t.Fatalf("Problem = %v", res.Problem)
			}
			if res.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", res.Count, tt.wantCount)
			}
			if res.Tasks == nil {
				t.Error("Tasks should be non-nil")
			}
		})
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	var b strings.Builder
	b.WriteString("name,payment,date,status\n")
	for i := 0; i < ctxCheckInterval*2; i++ {
		b.WriteString("task,1,d,Pending\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewLoader().LoadReader(ctx, "big.csv", strings.NewReader(b.String()))
	if !errors.Is(res.Problem, context.Canceled) {
		t.Fatalf("Problem = %v, want context.Canceled", res.Problem)
	}
	if res.Count != 0 {
		t.Errorf("Count = %d, want 0", res.Count)
	}
}

func TestLoader_ConcurrentLoadsGetIndependentCopies(t *testing.T) {
	path := writeCSV(t, "name,payment,date,status\nA,1,d,Pending\nB,2,d,Completed\n")
	loader := NewLoader()

	var wg sync.WaitGroup
	results := make([]LoadResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = loader.LoadFile(context.Background(), path)
		}(i)
	}
	wg.Wait()

	results[0].Tasks[0].Name = "mutated"
	for i, res := range results[1:] {
		if res.Count != 2 {
			t.Fatalf("results[%d].Count = %d, want 2", i+1, res.Count)
		}
		if res.Tasks[0].Name != "A" {
			t.Errorf("results[%d] shares its task slice", i+1)
		}
	}
}
