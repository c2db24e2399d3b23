package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/inspection/entity"
	"github.com/dssolutions-mx/mtto-server/internal/inspection/repository"
	"github.com/google/uuid"
)

type InspectionService struct {
	repo *repository.InspectionRepository
}

func NewInspectionService(repo *repository.InspectionRepository) *InspectionService {
	return &InspectionService{repo: repo}
}

// --- Equipment ---

type CreateEquipmentRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
	PlantID      string `json:"plant_id" binding:"required"`
}

func (s *InspectionService) CreateEquipment(ctx context.Context, req *CreateEquipmentRequest) (*entity.Equipment, error) {
	eq := &entity.Equipment{
		ID:           uuid.New().String(),
		Code:         req.Code,
		Name:         req.Name,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		PlantID:      req.PlantID,
		Status:       "active",
	}
	if err := s.repo.CreateEquipment(ctx, eq); err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}
	return eq, nil
}

func (s *InspectionService) ListEquipment(ctx context.Context, plantID, keyword string, page, size int) ([]entity.Equipment, int64, error) {
	return s.repo.ListEquipment(ctx, plantID, keyword, page, size)
}

// --- Checklists ---

type ChecklistItemInput struct {
	Label    string `json:"label" binding:"required"`
	Required *bool  `json:"required"`
}

type CreateChecklistRequest struct {
	Name        string               `json:"name" binding:"required"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	Items       []ChecklistItemInput `json:"items" binding:"required,min=1"`
}

func (s *InspectionService) CreateChecklist(ctx context.Context, userID string, req *CreateChecklistRequest) (*entity.Checklist, error) {
	cl := &entity.Checklist{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Status:      "active",
		CreatedBy:   userID,
	}
	for i, item := range req.Items {
		required := true
		if item.Required != nil {
			required = *item.Required
		}
		cl.Items = append(cl.Items, entity.ChecklistItem{
			ID:          uuid.New().String(),
			ChecklistID: cl.ID,
			Label:       item.Label,
			Required:    required,
			SortOrder:   i + 1,
		})
	}
	if err := s.repo.CreateChecklist(ctx, cl); err != nil {
		return nil, fmt.Errorf("create checklist: %w", err)
	}
	return cl, nil
}

func (s *InspectionService) GetChecklist(ctx context.Context, id string) (*entity.Checklist, error) {
	return s.repo.FindChecklistByID(ctx, id)
}

func (s *InspectionService) ListChecklists(ctx context.Context, keyword string, page, size int) ([]entity.Checklist, int64, error) {
	return s.repo.ListChecklists(ctx, keyword, page, size)
}

// --- Inspections ---

type AnswerInput struct {
	ChecklistItemID string `json:"checklist_item_id" binding:"required"`
	Answer          string `json:"answer" binding:"required"`
	Comment         string `json:"comment"`
}

type SubmitInspectionRequest struct {
	EquipmentID string        `json:"equipment_id" binding:"required"`
	ChecklistID string        `json:"checklist_id" binding:"required"`
	Notes       string        `json:"notes"`
	Answers     []AnswerInput `json:"answers" binding:"required,min=1"`
}

// ComputeResult folds answers into the overall verdict. One FAIL fails the
// whole inspection; NA answers never do.
func ComputeResult(answers []entity.InspectionAnswer) (result string, failCount int) {
	for _, a := range answers {
		if a.Answer == entity.AnswerFail {
			failCount++
		}
	}
	if failCount > 0 {
		return entity.ResultFailed, failCount
	}
	return entity.ResultPassed, 0
}

// SubmitInspection validates answers against the checklist, computes the
// verdict and persists the inspection with its answers
func (s *InspectionService) SubmitInspection(ctx context.Context, userID string, req *SubmitInspectionRequest) (*entity.Inspection, error) {
	if _, err := s.repo.FindEquipmentByID(ctx, req.EquipmentID); err != nil {
		return nil, fmt.Errorf("equipment not found: %w", err)
	}
	cl, err := s.repo.FindChecklistByID(ctx, req.ChecklistID)
	if err != nil {
		return nil, fmt.Errorf("checklist not found: %w", err)
	}

	itemsByID := make(map[string]entity.ChecklistItem, len(cl.Items))
	for _, item := range cl.Items {
		itemsByID[item.ID] = item
	}

	answered := make(map[string]bool, len(req.Answers))
	var answers []entity.InspectionAnswer
	for _, input := range req.Answers {
		item, ok := itemsByID[input.ChecklistItemID]
		if !ok {
			return nil, fmt.Errorf("answer references item %s which is not on checklist %q", input.ChecklistItemID, cl.Name)
		}
		if answered[input.ChecklistItemID] {
			return nil, fmt.Errorf("item %q answered more than once", item.Label)
		}
		answered[input.ChecklistItemID] = true

		switch input.Answer {
		case entity.AnswerOK, entity.AnswerFail, entity.AnswerNA:
		default:
			return nil, fmt.Errorf("invalid answer %q for item %q, must be OK, FAIL or NA", input.Answer, item.Label)
		}

		answers = append(answers, entity.InspectionAnswer{
			ID:              uuid.New().String(),
			ChecklistItemID: item.ID,
			Label:           item.Label,
			Answer:          input.Answer,
			Comment:         input.Comment,
			SortOrder:       item.SortOrder,
		})
	}

	for _, item := range cl.Items {
		if item.Required && !answered[item.ID] {
			return nil, fmt.Errorf("required item %q was not answered", item.Label)
		}
	}

	result, failCount := ComputeResult(answers)
	ins := &entity.Inspection{
		ID:          uuid.New().String(),
		EquipmentID: req.EquipmentID,
		ChecklistID: req.ChecklistID,
		Result:      result,
		FailCount:   failCount,
		Notes:       req.Notes,
		InspectedBy: userID,
		InspectedAt: time.Now(),
	}
	for i := range answers {
		answers[i].InspectionID = ins.ID
	}
	ins.Answers = answers

	if err := s.repo.CreateInspection(ctx, ins); err != nil {
		return nil, fmt.Errorf("create inspection: %w", err)
	}
	return ins, nil
}

func (s *InspectionService) GetInspection(ctx context.Context, id string) (*entity.Inspection, error) {
	return s.repo.FindInspectionByID(ctx, id)
}

func (s *InspectionService) ListInspections(ctx context.Context, params repository.InspectionListParams) ([]entity.Inspection, int64, error) {
	return s.repo.ListInspections(ctx, params)
}
