package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/checklist/internal/config"
)

const sampleItems = `name,payment,date,status
Pay rent,1200,2024-01-01,Pending
File taxes,300,2024-04-15,Completed
Buy groceries,45.5,2024-03-01,In Progress
`

func testConfig(t *testing.T, itemsPath string) *config.Config {
	t.Helper()
	return &config.Config{
		Data:    config.DataConfig{ItemsPath: itemsPath, PageSize: 2},
		Upload:  config.UploadConfig{MaxFileSize: 1 << 20, MaxConcurrent: 2, MaxWaitTime: time.Second},
		Session: config.SessionConfig{TTL: time.Hour},
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := NewLocalEvidenceStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewService(testConfig(t, writeCSV(t, sampleItems)), store, DefaultProjects)
}

func TestService_ViewLoadsDefaultOnce(t *testing.T) {
	svc := newTestService(t)
	sess, created := svc.Session("")
	if !created {
		t.Fatal("expected new session")
	}

	v := svc.View(context.Background(), sess)
	if v.LoadedCount != 3 {
		t.Fatalf("LoadedCount = %d, want 3", v.LoadedCount)
	}
	if v.Page.TotalPages != 2 || len(v.Page.Tasks) != 2 {
		t.Errorf("page = %+v, want 2 rows of 2 pages", v.Page)
	}

	sess.Navigate(PageNext)
	v = svc.View(context.Background(), sess)
	if v.Query.Offset != 2 {
		t.Errorf("View reloaded the source: offset = %d", v.Query.Offset)
	}
}

func TestService_MissingSourceIsEmpty(t *testing.T) {
	store, _ := NewLocalEvidenceStore(t.TempDir())
	svc := NewService(testConfig(t, t.TempDir()+"/absent.csv"), store, nil)
	sess, _ := svc.Session("")

	v := svc.View(context.Background(), sess)
	if v.LoadedCount != 0 || v.Problem == "" {
		t.Errorf("view = %+v, want empty with problem", v)
	}
	if MapError(errors.New(v.Problem)).Code != "FILE003" {
		t.Errorf("problem %q does not map to FILE003", v.Problem)
	}
}

func TestService_LoadUploadReplaces(t *testing.T) {
	svc := newTestService(t)
	sess, _ := svc.Session("")
	svc.View(context.Background(), sess)
	sess.Navigate(PageNext)

	upload := "status,name,payment,date\nCompleted,Only task,10,2024-05-05\nBad,Skipped,1,2024-05-06\n"
	res, v, err := svc.LoadUpload(context.Background(), sess, "upload.csv", strings.NewReader(upload))
	if err != nil {
		t.Fatalf("LoadUpload() error = %v", err)
	}
	if res.Count != 1 || len(res.Rejected) != 1 {
		t.Errorf("result = %+v, want 1 accepted and 1 rejected", res)
	}
	if v.LoadedCount != 1 || v.Query.Offset != 0 || v.Source != "upload.csv" {
		t.Errorf("view = %+v", v)
	}
}

func TestService_ExportTasksUsesFilteredView(t *testing.T) {
	svc := newTestService(t)
	sess, _ := svc.Session("")
	svc.View(context.Background(), sess)
	sess.Search("taxes")

	data, err := svc.ExportTasks(context.Background(), sess, FormatCSV)
	if err != nil {
		t.Fatalf("ExportTasks() error = %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[1][0] != "File taxes" {
		t.Errorf("records = %v", records)
	}

	if _, err := svc.ExportTasks(context.Background(), sess, ExportFormat("odt")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("error = %v, want ErrUnknownFormat", err)
	}
}

func TestService_Projects(t *testing.T) {
	svc := newTestService(t)
	if got := svc.Projects("", StatusFilterAll); len(got) != 3 {
		t.Errorf("Projects() = %v", got)
	}
	if got := svc.Projects("", ""); len(got) != 0 {
		t.Errorf("Projects(\"\") = %v, want none", got)
	}
	if got := svc.Projects("", "Completed"); len(got) != 1 || got[0].Name != "Checklist 1" {
		t.Errorf("Projects(Completed) = %v", got)
	}

	data, err := svc.ExportProjects(context.Background(), FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 || records[3][0] != "Checklist 3" {
		t.Errorf("records = %v", records)
	}
}

func TestService_Evidence(t *testing.T) {
	svc := newTestService(t)
	sess, _ := svc.Session("")
	svc.View(context.Background(), sess)
	ctx := ContextWithClientIP(context.Background(), "203.0.113.9")

	_, err := svc.AttachEvidence(ctx, sess, EvidenceUpload{TaskName: "Unknown", FileName: "x.txt", Body: strings.NewReader("x")})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("AttachEvidence(unknown task) = %v, want ErrTaskNotFound", err)
	}

	ref, err := svc.AttachEvidence(ctx, sess, EvidenceUpload{
		TaskName: "Pay rent",
		FileName: "receipt.txt",
		Size:     4,
		Body:     strings.NewReader("paid"),
	})
	if err != nil {
		t.Fatalf("AttachEvidence() error = %v", err)
	}
	if ref.ContentType != "application/octet-stream" || !strings.Contains(ref.Key, "/pay-rent/") {
		t.Errorf("ref = %+v", ref)
	}
	if n := sess.View().EvidenceCount("Pay rent"); n != 1 {
		t.Errorf("EvidenceCount = %d, want 1", n)
	}

	got, rc, err := svc.OpenEvidence(context.Background(), sess, ref.ID)
	if err != nil {
		t.Fatalf("OpenEvidence() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "paid" || got.FileName != "receipt.txt" {
		t.Errorf("opened %q (%+v)", data, got)
	}

	other, _ := svc.Session("")
	if _, _, err := svc.OpenEvidence(context.Background(), other, ref.ID); !errors.Is(err, ErrEvidenceNotFound) {
		t.Errorf("evidence leaked across sessions: %v", err)
	}
}

func TestService_UploadStatusAndDrain(t *testing.T) {
	svc := newTestService(t)
	if got := svc.UploadStatus(); got.MaxConcurrent != 2 || got.Active != 0 {
		t.Errorf("UploadStatus() = %+v", got)
	}
	if err := svc.WaitForUploads(context.Background()); err != nil {
		t.Errorf("WaitForUploads() = %v", err)
	}

	sess, _ := svc.Session("")
	if _, _, err := svc.LoadUpload(context.Background(), sess, "late.csv", strings.NewReader("a,1,2024,Pending\n")); !errors.Is(err, ErrTooManyUploads) {
		t.Errorf("LoadUpload() after drain = %v, want ErrTooManyUploads", err)
	}
	if svc.EvidenceBackend() != "local" {
		t.Errorf("EvidenceBackend() = %q", svc.EvidenceBackend())
	}
}
