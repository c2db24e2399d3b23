package service

import (
	"context"
	"strings"
	"testing"

	"github.com/dssolutions-mx/mtto-server/internal/inspection/entity"
	"github.com/dssolutions-mx/mtto-server/internal/inspection/repository"
	"github.com/dssolutions-mx/mtto-server/internal/testutil"
)

func TestComputeResult(t *testing.T) {
	mk := func(answers ...string) []entity.InspectionAnswer {
		out := make([]entity.InspectionAnswer, len(answers))
		for i, a := range answers {
			out[i] = entity.InspectionAnswer{Answer: a}
		}
		return out
	}

	tests := []struct {
		name      string
		answers   []entity.InspectionAnswer
		want      string
		wantFails int
	}{
		{"all ok", mk("OK", "OK", "OK"), entity.ResultPassed, 0},
		{"na does not fail", mk("OK", "NA", "NA"), entity.ResultPassed, 0},
		{"one fail fails all", mk("OK", "FAIL", "OK"), entity.ResultFailed, 1},
		{"multiple fails counted", mk("FAIL", "FAIL", "NA"), entity.ResultFailed, 2},
		{"empty passes", nil, entity.ResultPassed, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, fails := ComputeResult(tt.answers)
			if result != tt.want || fails != tt.wantFails {
				t.Errorf("ComputeResult = (%q, %d), want (%q, %d)", result, fails, tt.want, tt.wantFails)
			}
		})
	}
}

func setupInspectionTest(t *testing.T) (*InspectionService, *entity.Equipment, *entity.Checklist) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewInspectionService(repository.NewInspectionRepository(db))
	ctx := context.Background()

	eq, err := svc.CreateEquipment(ctx, &CreateEquipmentRequest{
		Code:    "EQ-001",
		Name:    "Concrete mixer 3",
		PlantID: "11111111-1111-1111-1111-111111111111",
	})
	if err != nil {
		t.Fatalf("CreateEquipment: %v", err)
	}

	optional := false
	cl, err := svc.CreateChecklist(ctx, "user-1", &CreateChecklistRequest{
		Name: "Daily mixer walkaround",
		Items: []ChecklistItemInput{
			{Label: "Hydraulic oil level"},
			{Label: "Drum rotation"},
			{Label: "Cabin radio", Required: &optional},
		},
	})
	if err != nil {
		t.Fatalf("CreateChecklist: %v", err)
	}
	return svc, eq, cl
}

func TestSubmitInspectionPassAndFail(t *testing.T) {
	svc, eq, cl := setupInspectionTest(t)
	ctx := context.Background()

	answersFor := func(values ...string) []AnswerInput {
		out := make([]AnswerInput, len(values))
		for i, v := range values {
			out[i] = AnswerInput{ChecklistItemID: cl.Items[i].ID, Answer: v}
		}
		return out
	}

	ins, err := svc.SubmitInspection(ctx, "user-1", &SubmitInspectionRequest{
		EquipmentID: eq.ID,
		ChecklistID: cl.ID,
		Answers:     answersFor("OK", "OK", "NA"),
	})
	if err != nil {
		t.Fatalf("SubmitInspection: %v", err)
	}
	if ins.Result != entity.ResultPassed {
		t.Errorf("result = %q, want PASSED", ins.Result)
	}
	if len(ins.Answers) != 3 {
		t.Errorf("answers = %d, want 3", len(ins.Answers))
	}

	failed, err := svc.SubmitInspection(ctx, "user-1", &SubmitInspectionRequest{
		EquipmentID: eq.ID,
		ChecklistID: cl.ID,
		Answers:     answersFor("OK", "FAIL", "OK"),
	})
	if err != nil {
		t.Fatalf("SubmitInspection: %v", err)
	}
	if failed.Result != entity.ResultFailed || failed.FailCount != 1 {
		t.Errorf("result = (%q, %d), want (FAILED, 1)", failed.Result, failed.FailCount)
	}

	loaded, err := svc.GetInspection(ctx, failed.ID)
	if err != nil {
		t.Fatalf("GetInspection: %v", err)
	}
	if loaded.Result != entity.ResultFailed {
		t.Errorf("persisted result = %q, want FAILED", loaded.Result)
	}
}

func TestSubmitInspectionAnswerValidation(t *testing.T) {
	svc, eq, cl := setupInspectionTest(t)
	ctx := context.Background()

	// Unknown answer value.
	_, err := svc.SubmitInspection(ctx, "user-1", &SubmitInspectionRequest{
		EquipmentID: eq.ID,
		ChecklistID: cl.ID,
		Answers: []AnswerInput{
			{ChecklistItemID: cl.Items[0].ID, Answer: "MAYBE"},
			{ChecklistItemID: cl.Items[1].ID, Answer: "OK"},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "invalid answer") {
		t.Errorf("want invalid answer error, got %v", err)
	}

	// Missing a required item.
	_, err = svc.SubmitInspection(ctx, "user-1", &SubmitInspectionRequest{
		EquipmentID: eq.ID,
		ChecklistID: cl.ID,
		Answers: []AnswerInput{
			{ChecklistItemID: cl.Items[0].ID, Answer: "OK"},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "was not answered") {
		t.Errorf("want unanswered item error, got %v", err)
	}

	// The optional item may be skipped.
	_, err = svc.SubmitInspection(ctx, "user-1", &SubmitInspectionRequest{
		EquipmentID: eq.ID,
		ChecklistID: cl.ID,
		Answers: []AnswerInput{
			{ChecklistItemID: cl.Items[0].ID, Answer: "OK"},
			{ChecklistItemID: cl.Items[1].ID, Answer: "OK"},
		},
	})
	if err != nil {
		t.Errorf("optional items must be skippable: %v", err)
	}

	// Duplicate answers for the same item.
	_, err = svc.SubmitInspection(ctx, "user-1", &SubmitInspectionRequest{
		EquipmentID: eq.ID,
		ChecklistID: cl.ID,
		Answers: []AnswerInput{
			{ChecklistItemID: cl.Items[0].ID, Answer: "OK"},
			{ChecklistItemID: cl.Items[0].ID, Answer: "FAIL"},
			{ChecklistItemID: cl.Items[1].ID, Answer: "OK"},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "answered more than once") {
		t.Errorf("want duplicate answer error, got %v", err)
	}

	// Answer for an item of a different checklist.
	_, err = svc.SubmitInspection(ctx, "user-1", &SubmitInspectionRequest{
		EquipmentID: eq.ID,
		ChecklistID: cl.ID,
		Answers: []AnswerInput{
			{ChecklistItemID: "99999999-9999-9999-9999-999999999999", Answer: "OK"},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "not on checklist") {
		t.Errorf("want foreign item error, got %v", err)
	}
}
