package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier purchasing supplier catalog entry
type Supplier struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code      string     `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name      string     `json:"name" gorm:"size:128;not null"`
	Category  string     `json:"category" gorm:"size:50"`
	Contact   string     `json:"contact" gorm:"size:128"`
	Phone     string     `json:"phone" gorm:"size:32"`
	Email     string     `json:"email" gorm:"size:128"`
	Status    string     `json:"status" gorm:"size:20;not null;default:active"`
	CreatedBy string     `json:"created_by" gorm:"size:64"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`
}

func (Supplier) TableName() string {
	return "mtto_suppliers"
}

// Plant operating site. A purchase order is raised either against a work
// order or directly against a plant.
type Plant struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code      string    `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Location  string    `json:"location" gorm:"size:256"`
	Status    string    `json:"status" gorm:"size:20;not null;default:active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Plant) TableName() string {
	return "mtto_plants"
}

// Warehouse storage location inside a plant
type Warehouse struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PlantID   string    `json:"plant_id" gorm:"type:uuid;not null;index"`
	Code      string    `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Plant *Plant `json:"plant,omitempty" gorm:"foreignKey:PlantID"`
}

func (Warehouse) TableName() string {
	return "mtto_warehouses"
}

// Part maintenance spare part catalog entry
type Part struct {
	ID        string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code      string          `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name      string          `json:"name" gorm:"size:128;not null"`
	Category  string          `json:"category" gorm:"size:50"`
	Unit      string          `json:"unit" gorm:"size:20;not null;default:pcs"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,4);default:0"`
	Status    string          `json:"status" gorm:"size:20;not null;default:active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at" gorm:"index"`
}

func (Part) TableName() string {
	return "mtto_parts"
}

// Stock on-hand quantity of a part in a warehouse
type Stock struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PartID       string     `json:"part_id" gorm:"type:uuid;not null;index:idx_stock_part_wh,unique"`
	WarehouseID  string     `json:"warehouse_id" gorm:"type:uuid;not null;index:idx_stock_part_wh,unique"`
	Quantity     float64    `json:"quantity" gorm:"type:decimal(12,4);not null;default:0"`
	AvailableQty float64    `json:"available_qty" gorm:"type:decimal(12,4);not null;default:0"`
	ReservedQty  float64    `json:"reserved_qty" gorm:"type:decimal(12,4);not null;default:0"`
	LastMovedAt  *time.Time `json:"last_moved_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Warehouse *Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
}

func (Stock) TableName() string {
	return "mtto_stock"
}
