package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quotation supplier price offer attached to a purchase order
type Quotation struct {
	ID           string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	POID         string          `json:"po_id" gorm:"type:uuid;not null;index"`
	SupplierID   *string         `json:"supplier_id" gorm:"type:uuid"`
	SupplierName string          `json:"supplier_name" gorm:"size:128;not null"`
	QuotedAmount decimal.Decimal `json:"quoted_amount" gorm:"type:decimal(12,2);not null"`
	DeliveryDays int             `json:"delivery_days"`
	PaymentTerms string          `json:"payment_terms" gorm:"size:128"`
	ValidUntil   *time.Time      `json:"valid_until"`
	FilePath     string          `json:"file_path" gorm:"size:256"`
	Notes        string          `json:"notes" gorm:"type:text"`
	SortOrder    int             `json:"sort_order"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Items []QuotationItem `json:"items,omitempty" gorm:"foreignKey:QuotationID"`
}

func (Quotation) TableName() string {
	return "mtto_quotations"
}

// QuotationItem line item inside a quotation. Same shape as POItem plus brand.
type QuotationItem struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	QuotationID string          `json:"quotation_id" gorm:"type:uuid;not null;index"`
	PartID      *string         `json:"part_id" gorm:"type:uuid"`
	Description string          `json:"description" gorm:"size:256;not null"`
	Brand       string          `json:"brand" gorm:"size:64"`
	Quantity    float64         `json:"quantity" gorm:"type:decimal(12,4);not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,4);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Notes       string          `json:"notes" gorm:"size:256"`
	SortOrder   int             `json:"sort_order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (QuotationItem) TableName() string {
	return "mtto_quotation_items"
}
