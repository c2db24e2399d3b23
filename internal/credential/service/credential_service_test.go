package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/credential/entity"
	"github.com/dssolutions-mx/mtto-server/internal/credential/repository"
	"github.com/dssolutions-mx/mtto-server/internal/storage"
	"github.com/dssolutions-mx/mtto-server/internal/testutil"
)

// flakyRenderer fails the first failures[employeeNo] calls for each employee,
// then renders a one-byte document
type flakyRenderer struct {
	failures map[string]int
	calls    map[string]int
}

func (r *flakyRenderer) Render(_ context.Context, emp *entity.Employee) ([]byte, string, string, error) {
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[emp.EmployeeNo]++
	if r.calls[emp.EmployeeNo] <= r.failures[emp.EmployeeNo] {
		return nil, "", "", fmt.Errorf("renderer unavailable")
	}
	return []byte("x"), "image/svg+xml", ".svg", nil
}

func setupCredentialTest(t *testing.T, renderer Renderer) (*CredentialService, *storage.MemoryStore) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := storage.NewMemoryStore()
	svc := NewCredentialService(
		repository.NewCredentialRepository(db),
		renderer,
		store,
		GenerateConfig{MaxAttempts: 3, RetryBackoff: time.Millisecond},
	)
	return svc, store
}

func seedEmployees(t *testing.T, svc *CredentialService, nos ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(nos))
	for _, no := range nos {
		e, err := svc.CreateEmployee(context.Background(), &CreateEmployeeRequest{
			EmployeeNo: no,
			FullName:   "Employee " + no,
			Position:   "Mechanic",
			Department: "Maintenance",
		})
		if err != nil {
			t.Fatalf("CreateEmployee %s: %v", no, err)
		}
		ids = append(ids, e.ID)
	}
	return ids
}

func TestGenerateBatchRetriesAndSucceeds(t *testing.T) {
	renderer := &flakyRenderer{failures: map[string]int{"E-002": 1}}
	svc, store := setupCredentialTest(t, renderer)
	ctx := context.Background()

	ids := seedEmployees(t, svc, "E-001", "E-002")
	batch, err := svc.GenerateBatch(ctx, "user-1", &GenerateBatchRequest{EmployeeIDs: ids})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}

	if batch.Status != entity.BatchStatusDone {
		t.Errorf("status = %q, want %q", batch.Status, entity.BatchStatusDone)
	}
	if batch.Succeeded != 2 || batch.Failed != 0 {
		t.Errorf("succeeded/failed = %d/%d, want 2/0", batch.Succeeded, batch.Failed)
	}
	if batch.CompletedAt == nil {
		t.Error("completed batch must carry a completion time")
	}
	if len(batch.Credentials) != 2 {
		t.Fatalf("credentials = %d, want 2", len(batch.Credentials))
	}

	byNo := make(map[string]entity.Credential)
	for _, c := range batch.Credentials {
		if c.Employee == nil {
			t.Fatal("credential must preload its employee")
		}
		byNo[c.Employee.EmployeeNo] = c
	}
	if c := byNo["E-001"]; c.Status != entity.CredentialStatusDone || c.Attempts != 1 {
		t.Errorf("E-001 = (%q, %d), want (DONE, 1)", c.Status, c.Attempts)
	}
	c := byNo["E-002"]
	if c.Status != entity.CredentialStatusDone || c.Attempts != 2 {
		t.Errorf("E-002 = (%q, %d), want (DONE, 2) after one retry", c.Status, c.Attempts)
	}
	if ok, _ := store.Exists(ctx, c.FilePath); !ok {
		t.Errorf("rendered file %q missing from the store", c.FilePath)
	}
}

func TestGenerateBatchRecordsExhaustedFailures(t *testing.T) {
	renderer := &flakyRenderer{failures: map[string]int{"E-002": 99}}
	svc, _ := setupCredentialTest(t, renderer)
	ctx := context.Background()

	ids := seedEmployees(t, svc, "E-001", "E-002", "E-003")
	batch, err := svc.GenerateBatch(ctx, "user-1", &GenerateBatchRequest{EmployeeIDs: ids})
	if err != nil {
		t.Fatalf("one bad employee must not fail the batch: %v", err)
	}

	if batch.Status != entity.BatchStatusDoneWithErrors {
		t.Errorf("status = %q, want %q", batch.Status, entity.BatchStatusDoneWithErrors)
	}
	if batch.Succeeded != 2 || batch.Failed != 1 {
		t.Errorf("succeeded/failed = %d/%d, want 2/1", batch.Succeeded, batch.Failed)
	}
	if renderer.calls["E-002"] != 3 {
		t.Errorf("render calls for E-002 = %d, want the full attempt budget of 3", renderer.calls["E-002"])
	}

	for _, c := range batch.Credentials {
		if c.Employee != nil && c.Employee.EmployeeNo == "E-002" {
			if c.Status != entity.CredentialStatusFailed {
				t.Errorf("E-002 status = %q, want FAILED", c.Status)
			}
			if c.Attempts != 3 || c.Error == "" {
				t.Errorf("failed credential = (attempts %d, error %q), want attempts 3 with an error", c.Attempts, c.Error)
			}
			if c.FilePath != "" {
				t.Errorf("failed credential must not claim a file, got %q", c.FilePath)
			}
		}
	}
}

func TestGenerateBatchRejectsUnknownEmployee(t *testing.T) {
	svc, _ := setupCredentialTest(t, &flakyRenderer{})
	ids := seedEmployees(t, svc, "E-001")

	_, err := svc.GenerateBatch(context.Background(), "user-1", &GenerateBatchRequest{
		EmployeeIDs: append(ids, "66666666-6666-6666-6666-666666666666"),
	})
	if err == nil {
		t.Fatal("batch with an unknown employee id must be rejected before any work")
	}
}

func TestExportRosterListsEveryCredential(t *testing.T) {
	svc, _ := setupCredentialTest(t, &flakyRenderer{failures: map[string]int{"E-002": 99}})
	ctx := context.Background()

	ids := seedEmployees(t, svc, "E-001", "E-002")
	batch, err := svc.GenerateBatch(ctx, "user-1", &GenerateBatchRequest{EmployeeIDs: ids})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}

	f, filename, err := svc.ExportRoster(ctx, batch.ID)
	if err != nil {
		t.Fatalf("ExportRoster: %v", err)
	}
	defer f.Close()

	if filename == "" {
		t.Error("export must name the workbook")
	}
	rows, err := f.GetRows("Roster")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// Header plus one row per credential.
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "Employee No" {
		t.Errorf("header = %q", rows[0][0])
	}
}

func TestSVGRendererProducesCard(t *testing.T) {
	r := NewSVGRenderer("DS Solutions")
	data, contentType, ext, err := r.Render(context.Background(), &entity.Employee{
		EmployeeNo: "E-100",
		FullName:   "Marta Olvera",
		Position:   "Plant Supervisor",
		Department: "Operations",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if contentType != "image/svg+xml" || ext != ".svg" {
		t.Errorf("content type/ext = %q/%q", contentType, ext)
	}
	svg := string(data)
	for _, want := range []string{"E-100", "Marta Olvera", "DS Solutions", "<svg"} {
		if !strings.Contains(svg, want) {
			t.Errorf("rendered card missing %q", want)
		}
	}
}
