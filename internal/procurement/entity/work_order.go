package entity

import (
	"time"
)

// WorkOrderStatus values
const (
	WOStatusOpen       = "OPEN"
	WOStatusInProgress = "IN_PROGRESS"
	WOStatusCompleted  = "COMPLETED"
	WOStatusCancelled  = "CANCELLED"
)

// WorkOrder upstream maintenance task. Its required parts pre-seed the
// items of purchase order drafts raised against it.
type WorkOrder struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WOCode      string     `json:"wo_code" gorm:"size:50;not null;uniqueIndex"`
	Title       string     `json:"title" gorm:"size:256;not null"`
	EquipmentID *string    `json:"equipment_id" gorm:"type:uuid;index"`
	PlantID     string     `json:"plant_id" gorm:"type:uuid;not null;index"`
	Status      string     `json:"status" gorm:"size:20;not null;default:OPEN"`
	Priority    string     `json:"priority" gorm:"size:20;default:normal"`
	Description string     `json:"description" gorm:"type:text"`
	AssignedTo  string     `json:"assigned_to" gorm:"size:64"`
	CreatedBy   string     `json:"created_by" gorm:"size:64"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`

	RequiredParts []WorkOrderPart `json:"required_parts,omitempty" gorm:"foreignKey:WorkOrderID"`
}

func (WorkOrder) TableName() string {
	return "mtto_work_orders"
}

// WorkOrderPart part requirement attached to a work order
type WorkOrderPart struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WorkOrderID string    `json:"work_order_id" gorm:"type:uuid;not null;index"`
	PartID      *string   `json:"part_id" gorm:"type:uuid"`
	Description string    `json:"description" gorm:"size:256;not null"`
	Quantity    float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Unit        string    `json:"unit" gorm:"size:20;not null;default:pcs"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (WorkOrderPart) TableName() string {
	return "mtto_work_order_parts"
}
