package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"github.com/google/uuid"
)

// SubmitConfig tunables for the quotation settling poll
type SubmitConfig struct {
	// SettleAttempts bounds the read-back poll after copying a quotation
	// file under the order. The external store is eventually consistent;
	// dependent quotation rows must not reference an object that is not
	// readable yet.
	SettleAttempts int
	SettleInterval time.Duration
}

// DefaultSubmitConfig production defaults
func DefaultSubmitConfig() SubmitConfig {
	return SubmitConfig{SettleAttempts: 5, SettleInterval: 200 * time.Millisecond}
}

// ValidationError carries the full list of form violations
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "draft validation failed: " + strings.Join(e.Errors, "; ")
}

// SubmitResult outcome of a submission. Warnings are non-fatal: the order
// exists even when some quotations could not be saved.
type SubmitResult struct {
	Order             *entity.PurchaseOrder `json:"order"`
	QuotationsCreated int                   `json:"quotations_created"`
	Warnings          []string              `json:"warnings,omitempty"`
}

// Submit assembles exactly one purchase order from the draft and persists it,
// then saves the quotations one by one. Order creation is the critical path:
// a failure there aborts everything, while quotation failures mark the order
// CREATED_QUOTATIONS_PENDING and surface as warnings. No rollback of the
// order on quotation failure.
func (s *ProcurementService) Submit(ctx context.Context, draftID string) (*SubmitResult, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if errs := draft.Validate(time.Now()); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	po := s.assembleOrder(draft)
	if err := s.orderRepo.Create(ctx, po); err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}
	if po.ID == "" {
		return nil, fmt.Errorf("order creation returned no identifier")
	}

	result := &SubmitResult{Order: po}

	// Quotations are saved strictly after the order, serialized to bound
	// upload load and keep error attribution per quotation.
	for i, q := range draft.Quotations {
		if err := s.saveQuotation(ctx, po, i, q); err != nil {
			log.Printf("[procurement] quotation %d for %s failed: %v", i+1, po.POCode, err)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("order %s was created, but quotation %d (%s) could not be saved and must be added manually: %v",
					po.POCode, i+1, q.SupplierName, err))
			continue
		}
		result.QuotationsCreated++
	}

	if len(result.Warnings) > 0 {
		po.Status = entity.POStatusQuotationsPending
		if err := s.orderRepo.UpdateStatus(ctx, po.ID, po.Status); err != nil {
			log.Printf("[procurement] failed to flag %s as quotations pending: %v", po.POCode, err)
		}
	}

	// The draft is spent either way; keep it only if the order itself failed.
	if err := s.drafts.Delete(ctx, draftID); err != nil {
		log.Printf("[procurement] failed to drop draft %s: %v", draftID, err)
	}

	return result, nil
}

// assembleOrder resolves purpose, supplier and items per the submission rules
func (s *ProcurementService) assembleOrder(draft *Draft) *entity.PurchaseOrder {
	purpose := draft.resolvePurpose()

	supplier := draft.SupplierName
	switch {
	case purpose == entity.PurposeInventoryFulfillment:
		supplier = entity.SupplierInternalInventory
	case len(draft.Quotations) > 0:
		// The authoritative supplier is picked later from the winning
		// quotation.
		supplier = entity.SupplierToBeDetermined
	}

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:             uuid.New().String(),
		POCode:         generatePOCode(),
		OrderType:      draft.OrderType,
		Purpose:        purpose,
		Status:         entity.POStatusCreated,
		SupplierName:   supplier,
		TotalAmount:    draft.TotalAmount(),
		PaymentMethod:  draft.PaymentMethod,
		PurchaseDate:   draft.PurchaseDate,
		MaxPaymentDate: draft.MaxPaymentDate,
		WorkOrderID:    draft.WorkOrderID,
		PlantID:        draft.PlantID,
		Notes:          draft.Notes,
		CreatedBy:      draft.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if po.PurchaseDate == nil {
		po.PurchaseDate = &now
	}

	// Items live inside the quotations when a comparison set exists.
	if len(draft.Quotations) == 0 {
		for i, item := range draft.Items {
			po.Items = append(po.Items, entity.POItem{
				ID:                uuid.New().String(),
				POID:              po.ID,
				PartID:            item.PartID,
				Description:       item.Description,
				Quantity:          item.Quantity,
				UnitPrice:         item.UnitPrice,
				Amount:            item.Amount,
				FulfillmentSource: item.FulfillmentSource,
				SortOrder:         i + 1,
			})
		}
	}

	return po
}

// saveQuotation moves the staged attachment under the order, waits for the
// copy to become readable, then persists the quotation row
func (s *ProcurementService) saveQuotation(ctx context.Context, po *entity.PurchaseOrder, index int, q DraftQuotation) error {
	filePath := ""
	if q.FilePath != "" {
		dst := fmt.Sprintf("purchase-orders/%s/quotations/%02d%s", po.ID, index+1, filepath.Ext(q.FilePath))
		if err := s.store.Copy(ctx, q.FilePath, dst); err != nil {
			return fmt.Errorf("store quotation file: %w", err)
		}
		if err := s.waitForObject(ctx, dst); err != nil {
			return err
		}
		filePath = dst
	}

	quotation := &entity.Quotation{
		ID:           uuid.New().String(),
		POID:         po.ID,
		SupplierID:   q.SupplierID,
		SupplierName: q.SupplierName,
		QuotedAmount: q.QuotedAmount,
		DeliveryDays: q.DeliveryDays,
		PaymentTerms: q.PaymentTerms,
		ValidUntil:   q.ValidUntil,
		FilePath:     filePath,
		Notes:        q.Notes,
		SortOrder:    index + 1,
	}
	for i, item := range q.Items {
		quotation.Items = append(quotation.Items, entity.QuotationItem{
			ID:          uuid.New().String(),
			QuotationID: quotation.ID,
			PartID:      item.PartID,
			Description: item.Description,
			Brand:       item.Brand,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			Notes:       item.Notes,
			SortOrder:   i + 1,
		})
	}

	if err := s.orderRepo.CreateQuotation(ctx, quotation); err != nil {
		return fmt.Errorf("create quotation: %w", err)
	}
	return nil
}

// waitForObject polls until the copied object is readable, bounded by the
// configured attempts with a doubling interval
func (s *ProcurementService) waitForObject(ctx context.Context, objectName string) error {
	attempts := s.submitCfg.SettleAttempts
	if attempts <= 0 {
		attempts = 1
	}
	interval := s.submitCfg.SettleInterval

	for i := 0; i < attempts; i++ {
		ok, err := s.store.Exists(ctx, objectName)
		if err == nil && ok {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
		interval *= 2
	}
	return fmt.Errorf("quotation file %s did not become readable", objectName)
}

func generatePOCode() string {
	return fmt.Sprintf("PO-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000)
}

func stagingObjectName(draftID, fileName string) string {
	return fmt.Sprintf("staging/%s/%s%s", draftID, uuid.New().String()[:8], filepath.Ext(fileName))
}
