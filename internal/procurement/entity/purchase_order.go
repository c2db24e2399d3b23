package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType values
const (
	OrderTypeDirectPurchase = "DIRECT_PURCHASE"
	OrderTypeDirectService  = "DIRECT_SERVICE"
	OrderTypeSpecialOrder   = "SPECIAL_ORDER"
)

// Purpose values, derived from the fulfillment sources of the order's items
const (
	PurposeCash                 = "CASH"
	PurposeInventoryFulfillment = "INVENTORY_FULFILLMENT"
	PurposeMixed                = "MIXED"
	PurposeInventoryRestock     = "INVENTORY_RESTOCK"
)

// PurchaseOrderStatus values. QUOTATIONS_PENDING marks an order that was
// created but whose quotations could not all be saved; they must be added
// manually afterward.
const (
	POStatusCreated           = "CREATED"
	POStatusQuotationsPending = "CREATED_QUOTATIONS_PENDING"
	POStatusCancelled         = "CANCELLED"
)

// PaymentMethod values
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCard     = "CARD"
)

// FulfillmentSource values for a PO item
const (
	FulfillInventory = "inventory"
	FulfillPurchase  = "purchase"
)

// Supplier sentinels resolved at submission time
const (
	SupplierInternalInventory = "INTERNAL-INVENTORY"
	SupplierToBeDetermined    = "TO-BE-DETERMINED"
)

// PurchaseOrder persisted purchase order
type PurchaseOrder struct {
	ID             string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	POCode         string          `json:"po_code" gorm:"size:50;not null;uniqueIndex"`
	OrderType      string          `json:"order_type" gorm:"size:30;not null"`
	Purpose        string          `json:"purpose" gorm:"size:30;not null"`
	Status         string          `json:"status" gorm:"size:30;not null;default:CREATED"`
	SupplierName   string          `json:"supplier_name" gorm:"size:128;not null"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	PaymentMethod  string          `json:"payment_method" gorm:"size:20;not null"`
	PurchaseDate   *time.Time      `json:"purchase_date"`
	MaxPaymentDate *time.Time      `json:"max_payment_date"`
	WorkOrderID    *string         `json:"work_order_id" gorm:"type:uuid;index"`
	PlantID        *string         `json:"plant_id" gorm:"type:uuid;index"`
	Notes          string          `json:"notes" gorm:"type:text"`
	CreatedBy      string          `json:"created_by" gorm:"size:64;not null"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      *time.Time      `json:"deleted_at" gorm:"index"`

	Items      []POItem    `json:"items,omitempty" gorm:"foreignKey:POID"`
	Quotations []Quotation `json:"quotations,omitempty" gorm:"foreignKey:POID"`
}

func (PurchaseOrder) TableName() string {
	return "mtto_purchase_orders"
}

// POItem purchase order line item
type POItem struct {
	ID                string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	POID              string          `json:"po_id" gorm:"type:uuid;not null;index"`
	PartID            *string         `json:"part_id" gorm:"type:uuid;index"`
	Description       string          `json:"description" gorm:"size:256;not null"`
	Quantity          float64         `json:"quantity" gorm:"type:decimal(12,4);not null"`
	UnitPrice         decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,4);not null"`
	Amount            decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	FulfillmentSource string          `json:"fulfillment_source" gorm:"size:20"`
	SortOrder         int             `json:"sort_order"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (POItem) TableName() string {
	return "mtto_po_items"
}
