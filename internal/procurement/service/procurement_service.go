package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"github.com/dssolutions-mx/mtto-server/internal/procurement/repository"
	"github.com/dssolutions-mx/mtto-server/internal/storage"
	"github.com/shopspring/decimal"
)

// ProcurementService purchase order draft workflow
type ProcurementService struct {
	drafts    DraftStore
	orderRepo *repository.OrderRepository
	stockRepo *repository.StockRepository
	catalog   *repository.CatalogRepository
	woRepo    *repository.WorkOrderRepository
	validator QuoteValidator
	store     storage.Store
	submitCfg SubmitConfig
}

func NewProcurementService(
	drafts DraftStore,
	repos *repository.Repositories,
	validator QuoteValidator,
	store storage.Store,
	submitCfg SubmitConfig,
) *ProcurementService {
	return &ProcurementService{
		drafts:    drafts,
		orderRepo: repos.Order,
		stockRepo: repos.Stock,
		catalog:   repos.Catalog,
		woRepo:    repos.WorkOrder,
		validator: validator,
		store:     store,
		submitCfg: submitCfg,
	}
}

// CreateDraftRequest starts a new purchase order draft
type CreateDraftRequest struct {
	OrderType   string  `json:"order_type" binding:"required"`
	WorkOrderID *string `json:"work_order_id"`
	PlantID     *string `json:"plant_id"`
}

// CreateDraft opens a draft, pre-seeding items from the work order's
// required parts when one is linked
func (s *ProcurementService) CreateDraft(ctx context.Context, userID string, req *CreateDraftRequest) (*Draft, error) {
	draft := NewDraft(req.OrderType, userID)
	draft.PlantID = req.PlantID

	if req.WorkOrderID != nil {
		wo, err := s.woRepo.FindByID(ctx, *req.WorkOrderID)
		if err != nil {
			return nil, fmt.Errorf("work order not found: %w", err)
		}
		draft.WorkOrderID = &wo.ID
		if draft.PlantID == nil {
			draft.PlantID = &wo.PlantID
		}

		for _, part := range wo.RequiredParts {
			price := decimal.Zero
			if part.PartID != nil {
				if catalogPart, err := s.catalog.FindPartByID(ctx, *part.PartID); err == nil {
					price = catalogPart.UnitPrice
				}
			}
			if _, err := draft.AddItem(part.Description, part.Quantity, price, part.PartID); err != nil {
				return nil, fmt.Errorf("seed item from work order: %w", err)
			}
		}
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *ProcurementService) GetDraft(ctx context.Context, id string) (*Draft, error) {
	return s.drafts.Get(ctx, id)
}

func (s *ProcurementService) DiscardDraft(ctx context.Context, id string) error {
	return s.drafts.Delete(ctx, id)
}

// UpdateDraftRequest header-level form fields. Nil fields are left untouched.
type UpdateDraftRequest struct {
	OrderType      *string    `json:"order_type"`
	SupplierName   *string    `json:"supplier_name"`
	PaymentMethod  *string    `json:"payment_method"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	MaxPaymentDate *time.Time `json:"max_payment_date"`
	Notes          *string    `json:"notes"`
	PlantID        *string    `json:"plant_id"`
}

func (s *ProcurementService) UpdateDraft(ctx context.Context, id string, req *UpdateDraftRequest) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.OrderType != nil {
		draft.OrderType = *req.OrderType
	}
	if req.SupplierName != nil {
		draft.SupplierName = *req.SupplierName
	}
	if req.PaymentMethod != nil {
		draft.PaymentMethod = *req.PaymentMethod
	}
	if req.PurchaseDate != nil {
		draft.PurchaseDate = req.PurchaseDate
	}
	if req.MaxPaymentDate != nil {
		draft.MaxPaymentDate = req.MaxPaymentDate
	}
	if req.Notes != nil {
		draft.Notes = *req.Notes
	}
	if req.PlantID != nil {
		draft.PlantID = req.PlantID
	}
	draft.UpdatedAt = time.Now()

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddItemRequest new line item
type AddItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    float64         `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	PartID      *string         `json:"part_id"`
}

// AddItem appends a line item; catalog-linked items get an immediate
// availability check against the draft's plant
func (s *ProcurementService) AddItem(ctx context.Context, draftID string, req *AddItemRequest) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	item, err := draft.AddItem(req.Description, req.Quantity, req.UnitPrice, req.PartID)
	if err != nil {
		return nil, err
	}

	s.refreshAvailability(ctx, draft, item)

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// UpdateItem mutates a line item; a quantity change on a catalog-linked item
// refreshes its availability snapshot
func (s *ProcurementService) UpdateItem(ctx context.Context, draftID, itemID string, req UpdateItemRequest) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	item, qtyChanged, err := draft.UpdateItem(itemID, req)
	if err != nil {
		return nil, err
	}
	if qtyChanged {
		s.refreshAvailability(ctx, draft, item)
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *ProcurementService) RemoveItem(ctx context.Context, draftID, itemID string) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := draft.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// refreshAvailability checks stock for a catalog-linked item. Lookup failures
// only drop the snapshot; the draft stays editable.
func (s *ProcurementService) refreshAvailability(ctx context.Context, draft *Draft, item *DraftItem) {
	if item.PartID == nil || draft.PlantID == nil {
		return
	}
	total, byWarehouse, err := s.stockRepo.GetAvailabilityByPlant(ctx, *item.PartID, *draft.PlantID)
	if err != nil {
		item.Availability = nil
		return
	}

	snap := AvailabilitySnapshot{
		Sufficient:     total >= item.Quantity,
		TotalAvailable: total,
		CheckedAt:      time.Now(),
	}
	for _, row := range byWarehouse {
		snap.ByWarehouse = append(snap.ByWarehouse, WarehouseQty{
			WarehouseID:   row.WarehouseID,
			WarehouseName: row.WarehouseName,
			Available:     row.Available,
		})
	}
	draft.ApplyAvailability(item.ID, snap)
}

// Evaluate runs the quotation requirement check for the draft's current
// total, consulting the remote validator with local fallback
func (s *ProcurementService) Evaluate(ctx context.Context, draftID string) (*QuoteRequirement, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	req := s.validator.Check(ctx, draft.OrderType, draft.TotalAmount(), draft.resolvePurpose())
	return &req, nil
}

// --- Quotation composition ---

// BeginQuotationRequest header of the quotation being composed
type BeginQuotationRequest struct {
	SupplierID   *string         `json:"supplier_id"`
	SupplierName string          `json:"supplier_name" binding:"required"`
	QuotedAmount decimal.Decimal `json:"quoted_amount"`
	DeliveryDays int             `json:"delivery_days"`
	PaymentTerms string          `json:"payment_terms"`
	ValidUntil   *time.Time      `json:"valid_until"`
	Notes        string          `json:"notes"`
}

func (s *ProcurementService) BeginQuotation(ctx context.Context, draftID string, req *BeginQuotationRequest) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	draft.BeginQuotation(DraftQuotation{
		SupplierID:   req.SupplierID,
		SupplierName: req.SupplierName,
		QuotedAmount: req.QuotedAmount,
		DeliveryDays: req.DeliveryDays,
		PaymentTerms: req.PaymentTerms,
		ValidUntil:   req.ValidUntil,
		Notes:        req.Notes,
	})
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddQuotationItemRequest line item for the quotation being composed
type AddQuotationItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Brand       string          `json:"brand"`
	Quantity    float64         `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	PartID      *string         `json:"part_id"`
}

func (s *ProcurementService) AddQuotationItem(ctx context.Context, draftID string, req *AddQuotationItemRequest) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if _, err := draft.AddQuotationItem(req.Description, req.Brand, req.Quantity, req.UnitPrice, req.PartID); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *ProcurementService) RemoveQuotationItem(ctx context.Context, draftID, itemID string) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := draft.RemoveQuotationItem(itemID); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AttachQuotationFile stages an uploaded quotation document for the
// quotation being composed. The object is copied under the order at submit.
func (s *ProcurementService) AttachQuotationFile(ctx context.Context, draftID, fileName string, r io.Reader, size int64, contentType string) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.QuotationDraft == nil {
		return nil, fmt.Errorf("no quotation is being composed")
	}

	objectName := stagingObjectName(draftID, fileName)
	if err := s.store.Put(ctx, objectName, r, size, contentType); err != nil {
		return nil, err
	}
	draft.QuotationDraft.FilePath = objectName
	draft.UpdatedAt = time.Now()

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *ProcurementService) CommitQuotation(ctx context.Context, draftID string) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if _, err := draft.CommitQuotation(); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *ProcurementService) RemoveQuotation(ctx context.Context, draftID string, index int) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := draft.RemoveQuotation(index); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// --- Read side ---

func (s *ProcurementService) GetOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *ProcurementService) ListOrders(ctx context.Context, params repository.OrderListParams) ([]entity.PurchaseOrder, int64, error) {
	return s.orderRepo.List(ctx, params)
}

func (s *ProcurementService) QuotationFileURL(ctx context.Context, orderID, quotationID string) (string, error) {
	po, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("purchase order not found: %w", err)
	}
	for _, q := range po.Quotations {
		if q.ID == quotationID {
			if q.FilePath == "" {
				return "", fmt.Errorf("quotation has no attached file")
			}
			return s.store.PresignedGet(ctx, q.FilePath, 15*time.Minute)
		}
	}
	return "", fmt.Errorf("quotation not found")
}
