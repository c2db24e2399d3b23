package service

import (
	"strings"
	"testing"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDraftItemAccumulation(t *testing.T) {
	d := NewDraft(entity.OrderTypeDirectPurchase, "user-1")

	first, err := d.AddItem("hydraulic hose", 3, dec("120.50"), nil)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if got := first.Amount.String(); got != "361.5" {
		t.Errorf("first item amount = %s, want 361.5", got)
	}

	second, err := d.AddItem("clamp set", 2, dec("19.99"), nil)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if got := d.TotalAmount().String(); got != "401.48" {
		t.Errorf("total = %s, want 401.48", got)
	}

	if err := d.RemoveItem(second.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if got := d.TotalAmount().String(); got != "361.5" {
		t.Errorf("total after removal = %s, want 361.5", got)
	}

	if err := d.RemoveItem("missing"); err == nil {
		t.Error("removing an unknown item must fail")
	}
}

func TestDraftAddItemValidation(t *testing.T) {
	d := NewDraft(entity.OrderTypeDirectPurchase, "user-1")

	if _, err := d.AddItem("", 1, dec("1"), nil); err == nil {
		t.Error("empty description must be rejected")
	}
	if _, err := d.AddItem("bolt", 0, dec("1"), nil); err == nil {
		t.Error("zero quantity must be rejected")
	}
	if _, err := d.AddItem("bolt", -2, dec("1"), nil); err == nil {
		t.Error("negative quantity must be rejected")
	}
	if _, err := d.AddItem("bolt", 1, dec("-0.01"), nil); err == nil {
		t.Error("negative unit price must be rejected")
	}
	if _, err := d.AddItem("bolt", 1, decimal.Zero, nil); err != nil {
		t.Errorf("zero unit price must be allowed: %v", err)
	}
}

func TestDraftUpdateItemRecomputesAmount(t *testing.T) {
	d := NewDraft(entity.OrderTypeDirectPurchase, "user-1")
	item, _ := d.AddItem("filter", 4, dec("25.00"), nil)

	qty := 10.0
	updated, qtyChanged, err := d.UpdateItem(item.ID, UpdateItemRequest{Quantity: &qty})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if !qtyChanged {
		t.Error("quantity change must be reported")
	}
	if got := updated.Amount.String(); got != "250" {
		t.Errorf("amount = %s, want 250", got)
	}

	// Same quantity again is not a change.
	_, qtyChanged, err = d.UpdateItem(item.ID, UpdateItemRequest{Quantity: &qty})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if qtyChanged {
		t.Error("identical quantity must not be reported as changed")
	}

	bad := "warehouse-magic"
	if _, _, err := d.UpdateItem(item.ID, UpdateItemRequest{FulfillmentSource: &bad}); err == nil {
		t.Error("invalid fulfillment source must be rejected")
	}
}

func TestClassifyPurpose(t *testing.T) {
	inv := entity.FulfillInventory
	buy := entity.FulfillPurchase

	mk := func(sources ...string) []DraftItem {
		items := make([]DraftItem, len(sources))
		for i, s := range sources {
			items[i] = DraftItem{Description: "x", Quantity: 1, FulfillmentSource: s}
		}
		return items
	}

	tests := []struct {
		name  string
		items []DraftItem
		want  string
	}{
		{"empty", nil, entity.PurposeCash},
		{"all inventory", mk(inv, inv), entity.PurposeInventoryFulfillment},
		{"all purchase", mk(buy, buy), entity.PurposeCash},
		{"all unset", mk("", ""), entity.PurposeCash},
		{"mixed", mk(inv, buy), entity.PurposeMixed},
		{"inventory and unset", mk(inv, ""), entity.PurposeMixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyPurpose(tt.items); got != tt.want {
				t.Errorf("ClassifyPurpose = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyAvailabilitySuggestsInventoryOnlyWhenUnset(t *testing.T) {
	d := NewDraft(entity.OrderTypeDirectPurchase, "user-1")
	item, _ := d.AddItem("bearing", 2, dec("30"), nil)

	if err := d.ApplyAvailability(item.ID, AvailabilitySnapshot{Sufficient: true, TotalAvailable: 5}); err != nil {
		t.Fatalf("ApplyAvailability: %v", err)
	}
	if d.Items[0].FulfillmentSource != entity.FulfillInventory {
		t.Error("sufficient stock must suggest inventory fulfillment on an unset item")
	}

	// An explicit choice survives the next snapshot.
	src := entity.FulfillPurchase
	if _, _, err := d.UpdateItem(item.ID, UpdateItemRequest{FulfillmentSource: &src}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if err := d.ApplyAvailability(item.ID, AvailabilitySnapshot{Sufficient: true, TotalAvailable: 9}); err != nil {
		t.Fatalf("ApplyAvailability: %v", err)
	}
	if d.Items[0].FulfillmentSource != entity.FulfillPurchase {
		t.Error("an explicit fulfillment choice must never be overwritten")
	}
}

func TestQuotationComposition(t *testing.T) {
	d := NewDraft(entity.OrderTypeSpecialOrder, "user-1")

	if _, err := d.AddQuotationItem("pump", "", 1, dec("10"), nil); err == nil {
		t.Error("adding items without a quotation in progress must fail")
	}

	d.BeginQuotation(DraftQuotation{SupplierName: "Acme Industrial", QuotedAmount: dec("25.00")})

	item, err := d.AddQuotationItem("pump seal kit", "SKF", 2, dec("10.00"), nil)
	if err != nil {
		t.Fatalf("AddQuotationItem: %v", err)
	}
	// Once items exist, the quoted amount is the item sum, not the manual 25.
	if got := d.QuotationDraft.QuotedAmount.String(); got != "20" {
		t.Errorf("derived amount = %s, want 20", got)
	}

	qty := 3.0
	if err := d.UpdateQuotationItem(item.ID, &qty, nil); err != nil {
		t.Fatalf("UpdateQuotationItem: %v", err)
	}
	if got := d.QuotationDraft.QuotedAmount.String(); got != "30" {
		t.Errorf("derived amount after update = %s, want 30", got)
	}

	committed, err := d.CommitQuotation()
	if err != nil {
		t.Fatalf("CommitQuotation: %v", err)
	}
	if committed.SupplierName != "Acme Industrial" || len(committed.Items) != 1 {
		t.Errorf("unexpected committed quotation: %+v", committed)
	}
	if d.QuotationDraft != nil {
		t.Error("commit must reset the quotation being composed")
	}
	if len(d.Quotations) != 1 {
		t.Fatalf("comparison set size = %d, want 1", len(d.Quotations))
	}

	if err := d.RemoveQuotation(5); err == nil {
		t.Error("out of range removal must fail")
	}
	if err := d.RemoveQuotation(0); err != nil {
		t.Fatalf("RemoveQuotation: %v", err)
	}
	if len(d.Quotations) != 0 {
		t.Error("quotation was not removed")
	}
}

func TestCommitQuotationValidation(t *testing.T) {
	d := NewDraft(entity.OrderTypeSpecialOrder, "user-1")

	if _, err := d.CommitQuotation(); err == nil {
		t.Error("commit without a quotation in progress must fail")
	}

	d.BeginQuotation(DraftQuotation{SupplierName: ""})
	if _, err := d.CommitQuotation(); err == nil {
		t.Error("commit without supplier name must fail")
	}

	d.BeginQuotation(DraftQuotation{SupplierName: "Acme"})
	if _, err := d.CommitQuotation(); err == nil {
		t.Error("commit without line items must fail")
	}

	d.BeginQuotation(DraftQuotation{SupplierName: "Acme"})
	if _, err := d.AddQuotationItem("inspection visit", "", 1, decimal.Zero, nil); err != nil {
		t.Fatalf("AddQuotationItem: %v", err)
	}
	if _, err := d.CommitQuotation(); err == nil {
		t.Error("commit with a zero quoted amount must fail")
	}
}

func TestTotalAmountFallsBackToLowestQuotation(t *testing.T) {
	d := NewDraft(entity.OrderTypeSpecialOrder, "user-1")

	addQuote := func(supplier, amount string) {
		d.BeginQuotation(DraftQuotation{SupplierName: supplier})
		if _, err := d.AddQuotationItem("turbine blade", "", 1, dec(amount), nil); err != nil {
			t.Fatalf("AddQuotationItem: %v", err)
		}
		if _, err := d.CommitQuotation(); err != nil {
			t.Fatalf("CommitQuotation: %v", err)
		}
	}
	addQuote("Supplier A", "9800.00")
	addQuote("Supplier B", "9100.00")
	addQuote("Supplier C", "9650.00")

	if got := d.TotalAmount().String(); got != "9100" {
		t.Errorf("total = %s, want the lowest quoted amount 9100", got)
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	d := NewDraft("BOGUS_TYPE", "user-1")
	errs := d.Validate(time.Now())

	wantFragments := []string{
		"unknown order type",
		"total amount",
		"payment method",
		"plant is required",
	}
	for _, fragment := range wantFragments {
		found := false
		for _, e := range errs {
			if strings.Contains(e, fragment) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected an error containing %q, got %v", fragment, errs)
		}
	}
}

func TestValidateTransferPaymentDate(t *testing.T) {
	today := time.Date(2025, 8, 15, 14, 30, 0, 0, time.UTC)
	plant := "plant-1"

	base := func() *Draft {
		d := NewDraft(entity.OrderTypeDirectPurchase, "user-1")
		d.PlantID = &plant
		d.SupplierName = "Acme"
		d.PaymentMethod = entity.PaymentMethodTransfer
		d.AddItem("grease", 1, dec("50"), nil)
		return d
	}

	hasDateError := func(errs []string) bool {
		for _, e := range errs {
			if strings.Contains(e, "max payment date") {
				return true
			}
		}
		return false
	}

	d := base()
	if !hasDateError(d.Validate(today)) {
		t.Error("transfer without a max payment date must be rejected")
	}

	yesterday := today.AddDate(0, 0, -1)
	d = base()
	d.MaxPaymentDate = &yesterday
	if !hasDateError(d.Validate(today)) {
		t.Error("a past max payment date must be rejected")
	}

	// Same calendar day, earlier clock time, still valid.
	sameDay := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	d = base()
	d.MaxPaymentDate = &sameDay
	if errs := d.Validate(today); hasDateError(errs) {
		t.Errorf("today must be an acceptable max payment date, got %v", errs)
	}
}

func TestValidateQuoteRequirementBlocksSubmission(t *testing.T) {
	plant := "plant-1"
	d := NewDraft(entity.OrderTypeSpecialOrder, "user-1")
	d.PlantID = &plant
	d.SupplierName = "Acme"
	d.PaymentMethod = entity.PaymentMethodCash
	d.AddItem("custom shaft", 1, dec("1200"), nil)

	errs := d.Validate(time.Now())
	found := false
	for _, e := range errs {
		if strings.Contains(e, "quotation is required") {
			found = true
		}
	}
	if !found {
		t.Errorf("special order without quotations must be blocked, got %v", errs)
	}

	// With a quotation attached the same draft passes.
	d.BeginQuotation(DraftQuotation{SupplierName: "Acme"})
	if _, err := d.AddQuotationItem("custom shaft", "", 1, dec("1200"), nil); err != nil {
		t.Fatalf("AddQuotationItem: %v", err)
	}
	if _, err := d.CommitQuotation(); err != nil {
		t.Fatalf("CommitQuotation: %v", err)
	}
	if errs := d.Validate(time.Now()); len(errs) != 0 {
		t.Errorf("expected a clean validation, got %v", errs)
	}
}

func TestValidateSupplierRules(t *testing.T) {
	plant := "plant-1"
	wo := "wo-1"

	// Inventory fulfillment drafts need no supplier.
	d := NewDraft(entity.OrderTypeDirectPurchase, "user-1")
	d.WorkOrderID = &wo
	d.PlantID = &plant
	d.PaymentMethod = entity.PaymentMethodCash
	item, _ := d.AddItem("v-belt", 2, dec("80"), nil)
	src := entity.FulfillInventory
	if _, _, err := d.UpdateItem(item.ID, UpdateItemRequest{FulfillmentSource: &src}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if errs := d.Validate(time.Now()); len(errs) != 0 {
		t.Errorf("inventory fulfillment draft should validate cleanly, got %v", errs)
	}

	// The same draft sourced from purchase does need a supplier.
	buy := entity.FulfillPurchase
	if _, _, err := d.UpdateItem(item.ID, UpdateItemRequest{FulfillmentSource: &buy}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	errs := d.Validate(time.Now())
	found := false
	for _, e := range errs {
		if strings.Contains(e, "supplier is required") {
			found = true
		}
	}
	if !found {
		t.Errorf("purchase-sourced draft without supplier must be rejected, got %v", errs)
	}
}

func TestResolvePurpose(t *testing.T) {
	wo := "wo-1"

	d := NewDraft(entity.OrderTypeDirectPurchase, "user-1")
	if got := d.resolvePurpose(); got != entity.PurposeInventoryRestock {
		t.Errorf("no work order: purpose = %q, want %q", got, entity.PurposeInventoryRestock)
	}

	d.WorkOrderID = &wo
	if got := d.resolvePurpose(); got != entity.PurposeCash {
		t.Errorf("work order with no items: purpose = %q, want %q", got, entity.PurposeCash)
	}

	item, _ := d.AddItem("oil filter", 1, dec("45"), nil)
	src := entity.FulfillInventory
	d.UpdateItem(item.ID, UpdateItemRequest{FulfillmentSource: &src})
	if got := d.resolvePurpose(); got != entity.PurposeInventoryFulfillment {
		t.Errorf("all-inventory items: purpose = %q, want %q", got, entity.PurposeInventoryFulfillment)
	}
}
