package service

import (
	"fmt"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Draft in-progress purchase order held server side. One draft per client
// tab; no cross-draft coordination. All money math goes through decimal so
// item totals never drift from quantity * unit price.
type Draft struct {
	ID             string      `json:"id"`
	OrderType      string      `json:"order_type"`
	SupplierName   string      `json:"supplier_name"`
	PaymentMethod  string      `json:"payment_method"`
	PurchaseDate   *time.Time  `json:"purchase_date"`
	MaxPaymentDate *time.Time  `json:"max_payment_date"`
	Notes          string      `json:"notes"`
	WorkOrderID    *string     `json:"work_order_id"`
	PlantID        *string     `json:"plant_id"`
	Items          []DraftItem `json:"items"`

	// Comparison set of committed quotations plus the one being composed.
	Quotations     []DraftQuotation `json:"quotations"`
	QuotationDraft *DraftQuotation  `json:"quotation_draft,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DraftItem one purchasable line in the accumulator
type DraftItem struct {
	ID                string                `json:"id"`
	PartID            *string               `json:"part_id,omitempty"`
	Description       string                `json:"description"`
	Quantity          float64               `json:"quantity"`
	UnitPrice         decimal.Decimal       `json:"unit_price"`
	Amount            decimal.Decimal       `json:"amount"`
	FulfillmentSource string                `json:"fulfillment_source,omitempty"`
	Availability      *AvailabilitySnapshot `json:"availability,omitempty"`
}

// AvailabilitySnapshot last known stock position for a catalog-linked item
type AvailabilitySnapshot struct {
	Sufficient     bool           `json:"sufficient"`
	TotalAvailable float64        `json:"total_available"`
	ByWarehouse    []WarehouseQty `json:"by_warehouse"`
	CheckedAt      time.Time      `json:"checked_at"`
}

// WarehouseQty available quantity in one warehouse
type WarehouseQty struct {
	WarehouseID   string  `json:"warehouse_id"`
	WarehouseName string  `json:"warehouse_name"`
	Available     float64 `json:"available"`
}

// DraftQuotation candidate supplier quotation in the comparison set
type DraftQuotation struct {
	SupplierID   *string              `json:"supplier_id,omitempty"`
	SupplierName string               `json:"supplier_name"`
	QuotedAmount decimal.Decimal      `json:"quoted_amount"`
	DeliveryDays int                  `json:"delivery_days"`
	PaymentTerms string               `json:"payment_terms"`
	ValidUntil   *time.Time           `json:"valid_until,omitempty"`
	FilePath     string               `json:"file_path,omitempty"`
	Notes        string               `json:"notes"`
	Items        []DraftQuotationItem `json:"items"`
}

// DraftQuotationItem quotation line item
type DraftQuotationItem struct {
	ID          string          `json:"id"`
	PartID      *string         `json:"part_id,omitempty"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Quantity    float64         `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
}

// NewDraft creates an empty draft of the given order type
func NewDraft(orderType, userID string) *Draft {
	now := time.Now()
	return &Draft{
		ID:        uuid.New().String(),
		OrderType: orderType,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func lineAmount(quantity float64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromFloat(quantity)).Round(2)
}

// --- Line-item accumulator ---

// AddItem appends a line item with a computed amount
func (d *Draft) AddItem(description string, quantity float64, unitPrice decimal.Decimal, partID *string) (*DraftItem, error) {
	if description == "" {
		return nil, fmt.Errorf("item description is required")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("item quantity must be greater than zero")
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("item unit price cannot be negative")
	}
	item := DraftItem{
		ID:          uuid.New().String(),
		PartID:      partID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      lineAmount(quantity, unitPrice),
	}
	d.Items = append(d.Items, item)
	d.UpdatedAt = time.Now()
	return &d.Items[len(d.Items)-1], nil
}

// UpdateItemRequest patch for a draft item. Nil fields are left untouched.
type UpdateItemRequest struct {
	Description       *string          `json:"description"`
	Quantity          *float64         `json:"quantity"`
	UnitPrice         *decimal.Decimal `json:"unit_price"`
	FulfillmentSource *string          `json:"fulfillment_source"`
}

// UpdateItem mutates a line item and recomputes its amount. Returns the item
// and whether the quantity changed, which callers use to refresh the
// availability snapshot of catalog-linked items.
func (d *Draft) UpdateItem(itemID string, req UpdateItemRequest) (*DraftItem, bool, error) {
	item := d.findItem(itemID)
	if item == nil {
		return nil, false, fmt.Errorf("item %s not found", itemID)
	}

	qtyChanged := false
	if req.Description != nil {
		if *req.Description == "" {
			return nil, false, fmt.Errorf("item description is required")
		}
		item.Description = *req.Description
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, false, fmt.Errorf("item quantity must be greater than zero")
		}
		qtyChanged = item.Quantity != *req.Quantity
		item.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, false, fmt.Errorf("item unit price cannot be negative")
		}
		item.UnitPrice = *req.UnitPrice
	}
	if req.FulfillmentSource != nil {
		switch *req.FulfillmentSource {
		case entity.FulfillInventory, entity.FulfillPurchase, "":
			item.FulfillmentSource = *req.FulfillmentSource
		default:
			return nil, false, fmt.Errorf("invalid fulfillment source %q", *req.FulfillmentSource)
		}
	}

	item.Amount = lineAmount(item.Quantity, item.UnitPrice)
	d.UpdatedAt = time.Now()
	return item, qtyChanged, nil
}

// RemoveItem deletes a line item
func (d *Draft) RemoveItem(itemID string) error {
	for i := range d.Items {
		if d.Items[i].ID == itemID {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			d.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("item %s not found", itemID)
}

func (d *Draft) findItem(itemID string) *DraftItem {
	for i := range d.Items {
		if d.Items[i].ID == itemID {
			return &d.Items[i]
		}
	}
	return nil
}

// ApplyAvailability records a stock snapshot on a line item. When stock is
// sufficient and the user has not chosen a source yet, inventory is suggested;
// an explicit choice is never overwritten.
func (d *Draft) ApplyAvailability(itemID string, snap AvailabilitySnapshot) error {
	item := d.findItem(itemID)
	if item == nil {
		return fmt.Errorf("item %s not found", itemID)
	}
	item.Availability = &snap
	if snap.Sufficient && item.FulfillmentSource == "" {
		item.FulfillmentSource = entity.FulfillInventory
	}
	d.UpdatedAt = time.Now()
	return nil
}

// TotalAmount aggregate of the accumulator, or the lowest quoted amount when
// quotations supersede the item list.
func (d *Draft) TotalAmount() decimal.Decimal {
	if len(d.Items) > 0 {
		total := decimal.Zero
		for _, item := range d.Items {
			total = total.Add(item.Amount)
		}
		return total
	}
	if len(d.Quotations) > 0 {
		lowest := d.Quotations[0].QuotedAmount
		for _, q := range d.Quotations[1:] {
			if q.QuotedAmount.LessThan(lowest) {
				lowest = q.QuotedAmount
			}
		}
		return lowest
	}
	return decimal.Zero
}

// --- Purpose classifier ---

// ClassifyPurpose derives the order purpose from the fulfillment sources of
// the item list. Empty list and all-purchase (or unset) both classify as cash.
func ClassifyPurpose(items []DraftItem) string {
	if len(items) == 0 {
		return entity.PurposeCash
	}
	inventory, purchase := 0, 0
	for _, item := range items {
		if item.FulfillmentSource == entity.FulfillInventory {
			inventory++
		} else {
			purchase++
		}
	}
	switch {
	case inventory == 0:
		return entity.PurposeCash
	case purchase == 0:
		return entity.PurposeInventoryFulfillment
	default:
		return entity.PurposeMixed
	}
}

// --- Quotation comparison set ---

// BeginQuotation starts composing a quotation, replacing any half-composed one
func (d *Draft) BeginQuotation(q DraftQuotation) {
	q.Items = nil
	d.QuotationDraft = &q
	d.UpdatedAt = time.Now()
}

// AddQuotationItem appends a line item to the quotation being composed and
// re-derives its quoted amount from the item sum
func (d *Draft) AddQuotationItem(description, brand string, quantity float64, unitPrice decimal.Decimal, partID *string) (*DraftQuotationItem, error) {
	if d.QuotationDraft == nil {
		return nil, fmt.Errorf("no quotation is being composed")
	}
	if description == "" {
		return nil, fmt.Errorf("quotation item description is required")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quotation item quantity must be greater than zero")
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("quotation item unit price cannot be negative")
	}
	item := DraftQuotationItem{
		ID:          uuid.New().String(),
		PartID:      partID,
		Description: description,
		Brand:       brand,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      lineAmount(quantity, unitPrice),
	}
	d.QuotationDraft.Items = append(d.QuotationDraft.Items, item)
	d.QuotationDraft.deriveAmount()
	d.UpdatedAt = time.Now()
	return &d.QuotationDraft.Items[len(d.QuotationDraft.Items)-1], nil
}

// UpdateQuotationItem mutates a line of the quotation being composed
func (d *Draft) UpdateQuotationItem(itemID string, quantity *float64, unitPrice *decimal.Decimal) error {
	if d.QuotationDraft == nil {
		return fmt.Errorf("no quotation is being composed")
	}
	for i := range d.QuotationDraft.Items {
		item := &d.QuotationDraft.Items[i]
		if item.ID != itemID {
			continue
		}
		if quantity != nil {
			if *quantity <= 0 {
				return fmt.Errorf("quotation item quantity must be greater than zero")
			}
			item.Quantity = *quantity
		}
		if unitPrice != nil {
			if unitPrice.IsNegative() {
				return fmt.Errorf("quotation item unit price cannot be negative")
			}
			item.UnitPrice = *unitPrice
		}
		item.Amount = lineAmount(item.Quantity, item.UnitPrice)
		d.QuotationDraft.deriveAmount()
		d.UpdatedAt = time.Now()
		return nil
	}
	return fmt.Errorf("quotation item %s not found", itemID)
}

// RemoveQuotationItem deletes a line of the quotation being composed
func (d *Draft) RemoveQuotationItem(itemID string) error {
	if d.QuotationDraft == nil {
		return fmt.Errorf("no quotation is being composed")
	}
	for i := range d.QuotationDraft.Items {
		if d.QuotationDraft.Items[i].ID == itemID {
			d.QuotationDraft.Items = append(d.QuotationDraft.Items[:i], d.QuotationDraft.Items[i+1:]...)
			d.QuotationDraft.deriveAmount()
			d.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("quotation item %s not found", itemID)
}

// deriveAmount keeps the quoted amount equal to the item sum whenever the
// quotation has items; with no items the manually entered amount stands.
func (q *DraftQuotation) deriveAmount() {
	if len(q.Items) == 0 {
		return
	}
	total := decimal.Zero
	for _, item := range q.Items {
		total = total.Add(item.Amount)
	}
	q.QuotedAmount = total
}

// CommitQuotation validates the quotation being composed and snapshots it
// into the comparison set. Committed quotations are immutable; remove and
// re-add is the only edit path.
func (d *Draft) CommitQuotation() (*DraftQuotation, error) {
	if d.QuotationDraft == nil {
		return nil, fmt.Errorf("no quotation is being composed")
	}
	q := d.QuotationDraft
	if q.SupplierName == "" {
		return nil, fmt.Errorf("quotation supplier name is required")
	}
	if len(q.Items) == 0 {
		return nil, fmt.Errorf("quotation must have at least one line item")
	}
	q.deriveAmount()
	if !q.QuotedAmount.IsPositive() {
		return nil, fmt.Errorf("quoted amount must be greater than zero")
	}

	snapshot := *q
	snapshot.Items = make([]DraftQuotationItem, len(q.Items))
	copy(snapshot.Items, q.Items)

	d.Quotations = append(d.Quotations, snapshot)
	d.QuotationDraft = nil
	d.UpdatedAt = time.Now()
	return &d.Quotations[len(d.Quotations)-1], nil
}

// RemoveQuotation deletes a committed quotation by position
func (d *Draft) RemoveQuotation(index int) error {
	if index < 0 || index >= len(d.Quotations) {
		return fmt.Errorf("quotation index %d out of range", index)
	}
	d.Quotations = append(d.Quotations[:index], d.Quotations[index+1:]...)
	d.UpdatedAt = time.Now()
	return nil
}

// --- Validation ---

// Validate collects every violation at once instead of failing fast. An empty
// slice means the draft may be submitted. today is injected for testability.
func (d *Draft) Validate(today time.Time) []string {
	var errs []string

	if _, ok := QuoteRuleTable[d.OrderType]; !ok {
		errs = append(errs, fmt.Sprintf("unknown order type %q", d.OrderType))
	}

	total := d.TotalAmount()
	if !total.IsPositive() {
		errs = append(errs, "total amount must be greater than zero")
	}

	if d.PaymentMethod == "" {
		errs = append(errs, "payment method is required")
	}
	if d.PaymentMethod == entity.PaymentMethodTransfer {
		if d.MaxPaymentDate == nil {
			errs = append(errs, "max payment date is required for transfer payments")
		} else {
			day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
			if d.MaxPaymentDate.Before(day) {
				errs = append(errs, "max payment date cannot precede today")
			}
		}
	}

	if d.WorkOrderID == nil && d.PlantID == nil {
		errs = append(errs, "plant is required when no work order is linked")
	}

	purpose := d.resolvePurpose()
	req := EvaluateQuoteRequirement(d.OrderType, total, purpose)
	if req.RequiresQuote && len(d.Quotations) == 0 {
		errs = append(errs, fmt.Sprintf("a quotation is required: %s", req.Reason))
	}

	if len(d.Quotations) == 0 && d.SupplierName == "" && purpose != entity.PurposeInventoryFulfillment {
		errs = append(errs, "supplier is required")
	}

	return errs
}

// resolvePurpose applies the submission rules: drafts without a work order
// restock inventory; drafts with a work order and items classify by
// fulfillment source; a work order with no items is a cash order.
func (d *Draft) resolvePurpose() string {
	if d.WorkOrderID == nil {
		return entity.PurposeInventoryRestock
	}
	if len(d.Items) > 0 {
		return ClassifyPurpose(d.Items)
	}
	return entity.PurposeCash
}
