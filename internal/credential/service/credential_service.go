package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/credential/entity"
	"github.com/dssolutions-mx/mtto-server/internal/credential/repository"
	"github.com/dssolutions-mx/mtto-server/internal/storage"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Renderer produces the printable credential document for one employee
type Renderer interface {
	Render(ctx context.Context, employee *entity.Employee) (data []byte, contentType string, ext string, err error)
}

// GenerateConfig retry tunables for one employee's credential
type GenerateConfig struct {
	// MaxAttempts counts the first try plus retries
	MaxAttempts  int
	RetryBackoff time.Duration
}

func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{MaxAttempts: 3, RetryBackoff: 500 * time.Millisecond}
}

type CredentialService struct {
	repo     *repository.CredentialRepository
	renderer Renderer
	store    storage.Store
	cfg      GenerateConfig
}

func NewCredentialService(repo *repository.CredentialRepository, renderer Renderer, store storage.Store, cfg GenerateConfig) *CredentialService {
	return &CredentialService{repo: repo, renderer: renderer, store: store, cfg: cfg}
}

// --- Employees ---

type CreateEmployeeRequest struct {
	EmployeeNo string     `json:"employee_no" binding:"required"`
	FullName   string     `json:"full_name" binding:"required"`
	Position   string     `json:"position"`
	Department string     `json:"department"`
	PlantID    *string    `json:"plant_id"`
	HiredAt    *time.Time `json:"hired_at"`
}

func (s *CredentialService) CreateEmployee(ctx context.Context, req *CreateEmployeeRequest) (*entity.Employee, error) {
	e := &entity.Employee{
		ID:         uuid.New().String(),
		EmployeeNo: req.EmployeeNo,
		FullName:   req.FullName,
		Position:   req.Position,
		Department: req.Department,
		PlantID:    req.PlantID,
		HiredAt:    req.HiredAt,
		Status:     "active",
	}
	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return e, nil
}

func (s *CredentialService) ListEmployees(ctx context.Context, keyword string, page, size int) ([]entity.Employee, int64, error) {
	return s.repo.ListEmployees(ctx, keyword, page, size)
}

// --- Batch generation ---

type GenerateBatchRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1"`
}

// GenerateBatch renders credentials for the requested employees one at a
// time. An employee that keeps failing after the retries is recorded as a
// FAILED credential; the batch keeps going and finishes DONE_WITH_ERRORS.
func (s *CredentialService) GenerateBatch(ctx context.Context, userID string, req *GenerateBatchRequest) (*entity.CredentialBatch, error) {
	employees, err := s.repo.FindEmployeesByIDs(ctx, req.EmployeeIDs)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	if len(employees) != len(req.EmployeeIDs) {
		return nil, fmt.Errorf("requested %d employees but only %d exist", len(req.EmployeeIDs), len(employees))
	}

	batch := &entity.CredentialBatch{
		ID:        uuid.New().String(),
		Status:    entity.BatchStatusRunning,
		Total:     len(employees),
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	for i := range employees {
		emp := &employees[i]
		cred := s.generateOne(ctx, batch.ID, emp)
		if err := s.repo.CreateCredential(ctx, cred); err != nil {
			log.Printf("[credential] failed to record credential for %s: %v", emp.EmployeeNo, err)
			continue
		}
		if cred.Status == entity.CredentialStatusDone {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
	}

	now := time.Now()
	batch.CompletedAt = &now
	if batch.Failed > 0 {
		batch.Status = entity.BatchStatusDoneWithErrors
	} else {
		batch.Status = entity.BatchStatusDone
	}
	if err := s.repo.UpdateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("finish batch: %w", err)
	}

	return s.repo.FindBatchByID(ctx, batch.ID)
}

// generateOne renders and uploads a single credential, retrying within the
// configured attempt budget
func (s *CredentialService) generateOne(ctx context.Context, batchID string, emp *entity.Employee) *entity.Credential {
	cred := &entity.Credential{
		ID:         uuid.New().String(),
		BatchID:    batchID,
		EmployeeID: emp.ID,
		CreatedAt:  time.Now(),
	}

	attempts := s.cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		cred.Attempts = attempt
		filePath, err := s.renderAndUpload(ctx, batchID, emp)
		if err == nil {
			cred.Status = entity.CredentialStatusDone
			cred.FilePath = filePath
			return cred
		}
		lastErr = err
		log.Printf("[credential] attempt %d/%d for %s failed: %v", attempt, attempts, emp.EmployeeNo, err)
		if attempt < attempts {
			select {
			case <-ctx.Done():
				cred.Status = entity.CredentialStatusFailed
				cred.Error = ctx.Err().Error()
				return cred
			case <-time.After(s.cfg.RetryBackoff * time.Duration(attempt)):
			}
		}
	}

	cred.Status = entity.CredentialStatusFailed
	cred.Error = lastErr.Error()
	return cred
}

func (s *CredentialService) renderAndUpload(ctx context.Context, batchID string, emp *entity.Employee) (string, error) {
	data, contentType, ext, err := s.renderer.Render(ctx, emp)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	objectName := fmt.Sprintf("credentials/%s/%s%s", batchID, emp.EmployeeNo, ext)
	if err := s.store.Put(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return objectName, nil
}

func (s *CredentialService) GetBatch(ctx context.Context, id string) (*entity.CredentialBatch, error) {
	return s.repo.FindBatchByID(ctx, id)
}

func (s *CredentialService) ListBatches(ctx context.Context, page, size int) ([]entity.CredentialBatch, int64, error) {
	return s.repo.ListBatches(ctx, page, size)
}

func (s *CredentialService) CredentialFileURL(ctx context.Context, batchID, credentialID string) (string, error) {
	batch, err := s.repo.FindBatchByID(ctx, batchID)
	if err != nil {
		return "", fmt.Errorf("batch not found: %w", err)
	}
	for _, cred := range batch.Credentials {
		if cred.ID == credentialID {
			if cred.FilePath == "" {
				return "", fmt.Errorf("credential has no rendered file")
			}
			return s.store.PresignedGet(ctx, cred.FilePath, 15*time.Minute)
		}
	}
	return "", fmt.Errorf("credential not found")
}

var rosterHeaders = []string{"Employee No", "Full Name", "Position", "Department", "Status", "Attempts", "File"}

// ExportRoster writes the batch outcome per employee to an xlsx workbook
func (s *CredentialService) ExportRoster(ctx context.Context, batchID string) (*excelize.File, string, error) {
	batch, err := s.repo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, "", fmt.Errorf("batch not found: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Roster"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range rosterHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, cred := range batch.Credentials {
		row := rowIdx + 2
		if cred.Employee != nil {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), cred.Employee.EmployeeNo)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), cred.Employee.FullName)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), cred.Employee.Position)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), cred.Employee.Department)
		}
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), cred.Status)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), cred.Attempts)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), cred.FilePath)
	}

	colWidths := []float64{14, 28, 22, 22, 12, 10, 48}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("credential_roster_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
