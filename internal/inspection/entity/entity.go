package entity

import "time"

// Answer values for a checklist item
const (
	AnswerOK   = "OK"
	AnswerFail = "FAIL"
	AnswerNA   = "NA"
)

// Inspection results
const (
	ResultPassed = "PASSED"
	ResultFailed = "FAILED"
)

// Equipment maintained asset registered at a plant
type Equipment struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code         string     `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"size:128;not null"`
	Model        string     `json:"model" gorm:"size:128"`
	SerialNumber string     `json:"serial_number" gorm:"size:128"`
	PlantID      string     `json:"plant_id" gorm:"type:uuid;not null;index"`
	Status       string     `json:"status" gorm:"size:20;not null;default:active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`
}

func (Equipment) TableName() string {
	return "mtto_equipment"
}

// Checklist reusable inspection template
type Checklist struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string     `json:"name" gorm:"size:128;not null"`
	Category    string     `json:"category" gorm:"size:50"`
	Description string     `json:"description" gorm:"type:text"`
	Status      string     `json:"status" gorm:"size:20;not null;default:active"`
	CreatedBy   string     `json:"created_by" gorm:"size:64"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`

	Items []ChecklistItem `json:"items,omitempty" gorm:"foreignKey:ChecklistID"`
}

func (Checklist) TableName() string {
	return "mtto_checklists"
}

// ChecklistItem one point to verify
type ChecklistItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ChecklistID string    `json:"checklist_id" gorm:"type:uuid;not null;index"`
	Label       string    `json:"label" gorm:"size:256;not null"`
	Required    bool      `json:"required" gorm:"not null;default:true"`
	SortOrder   int       `json:"sort_order" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ChecklistItem) TableName() string {
	return "mtto_checklist_items"
}

// Inspection one completed walkthrough of a checklist against a piece of
// equipment. Result is PASSED only when no answer is FAIL.
type Inspection struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EquipmentID string    `json:"equipment_id" gorm:"type:uuid;not null;index"`
	ChecklistID string    `json:"checklist_id" gorm:"type:uuid;not null;index"`
	Result      string    `json:"result" gorm:"size:20;not null"`
	FailCount   int       `json:"fail_count" gorm:"default:0"`
	Notes       string    `json:"notes" gorm:"type:text"`
	InspectedBy string    `json:"inspected_by" gorm:"size:64"`
	InspectedAt time.Time `json:"inspected_at"`
	CreatedAt   time.Time `json:"created_at"`

	Equipment *Equipment         `json:"equipment,omitempty" gorm:"foreignKey:EquipmentID"`
	Answers   []InspectionAnswer `json:"answers,omitempty" gorm:"foreignKey:InspectionID"`
}

func (Inspection) TableName() string {
	return "mtto_inspections"
}

// InspectionAnswer recorded answer for one checklist item
type InspectionAnswer struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	InspectionID    string    `json:"inspection_id" gorm:"type:uuid;not null;index"`
	ChecklistItemID string    `json:"checklist_item_id" gorm:"type:uuid;not null"`
	Label           string    `json:"label" gorm:"size:256;not null"`
	Answer          string    `json:"answer" gorm:"size:10;not null"`
	Comment         string    `json:"comment" gorm:"size:512"`
	SortOrder       int       `json:"sort_order" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at"`
}

func (InspectionAnswer) TableName() string {
	return "mtto_inspection_answers"
}
