package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"github.com/dssolutions-mx/mtto-server/internal/procurement/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService suppliers, parts, plants, stock and work orders
type CatalogService struct {
	catalog   *repository.CatalogRepository
	stockRepo *repository.StockRepository
	woRepo    *repository.WorkOrderRepository
}

func NewCatalogService(repos *repository.Repositories) *CatalogService {
	return &CatalogService{
		catalog:   repos.Catalog,
		stockRepo: repos.Stock,
		woRepo:    repos.WorkOrder,
	}
}

// --- Suppliers ---

type CreateSupplierRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Contact  string `json:"contact"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

func (s *CatalogService) CreateSupplier(ctx context.Context, userID string, req *CreateSupplierRequest) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		Code:      req.Code,
		Name:      req.Name,
		Category:  req.Category,
		Contact:   req.Contact,
		Phone:     req.Phone,
		Email:     req.Email,
		Status:    "active",
		CreatedBy: userID,
	}
	if err := s.catalog.CreateSupplier(ctx, supplier); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return supplier, nil
}

func (s *CatalogService) ListSuppliers(ctx context.Context, keyword string, page, size int) ([]entity.Supplier, int64, error) {
	return s.catalog.ListSuppliers(ctx, keyword, page, size)
}

// --- Parts ---

type CreatePartRequest struct {
	Code      string          `json:"code" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (s *CatalogService) CreatePart(ctx context.Context, req *CreatePartRequest) (*entity.Part, error) {
	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	part := &entity.Part{
		ID:        uuid.New().String(),
		Code:      req.Code,
		Name:      req.Name,
		Category:  req.Category,
		Unit:      unit,
		UnitPrice: req.UnitPrice,
		Status:    "active",
	}
	if err := s.catalog.CreatePart(ctx, part); err != nil {
		return nil, fmt.Errorf("create part: %w", err)
	}
	return part, nil
}

func (s *CatalogService) ListParts(ctx context.Context, keyword string, page, size int) ([]entity.Part, int64, error) {
	return s.catalog.ListParts(ctx, keyword, page, size)
}

// AvailabilityResult stock position of a part at a plant
type AvailabilityResult struct {
	PartID         string                             `json:"part_id"`
	PlantID        string                             `json:"plant_id"`
	Requested      float64                            `json:"requested"`
	Sufficient     bool                               `json:"sufficient"`
	TotalAvailable float64                            `json:"total_available"`
	ByWarehouse    []repository.WarehouseAvailability `json:"by_warehouse"`
}

// CheckAvailability answers whether the requested quantity of a part can be
// fulfilled from stock at a plant
func (s *CatalogService) CheckAvailability(ctx context.Context, partID, plantID string, quantity float64) (*AvailabilityResult, error) {
	if _, err := s.catalog.FindPartByID(ctx, partID); err != nil {
		return nil, fmt.Errorf("part not found: %w", err)
	}
	total, byWarehouse, err := s.stockRepo.GetAvailabilityByPlant(ctx, partID, plantID)
	if err != nil {
		return nil, fmt.Errorf("availability lookup: %w", err)
	}
	return &AvailabilityResult{
		PartID:         partID,
		PlantID:        plantID,
		Requested:      quantity,
		Sufficient:     total >= quantity,
		TotalAvailable: total,
		ByWarehouse:    byWarehouse,
	}, nil
}

// --- Plants ---

func (s *CatalogService) ListPlants(ctx context.Context) ([]entity.Plant, error) {
	return s.catalog.ListPlants(ctx)
}

// --- Work orders ---

type CreateWorkOrderRequest struct {
	Title       string               `json:"title" binding:"required"`
	EquipmentID *string              `json:"equipment_id"`
	PlantID     string               `json:"plant_id" binding:"required"`
	Priority    string               `json:"priority"`
	Description string               `json:"description"`
	Parts       []WorkOrderPartInput `json:"parts"`
}

type WorkOrderPartInput struct {
	PartID      *string `json:"part_id"`
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Unit        string  `json:"unit"`
}

func (s *CatalogService) CreateWorkOrder(ctx context.Context, userID string, req *CreateWorkOrderRequest) (*entity.WorkOrder, error) {
	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}
	wo := &entity.WorkOrder{
		ID:          uuid.New().String(),
		WOCode:      fmt.Sprintf("WO-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		Title:       req.Title,
		EquipmentID: req.EquipmentID,
		PlantID:     req.PlantID,
		Status:      entity.WOStatusOpen,
		Priority:    priority,
		Description: req.Description,
		CreatedBy:   userID,
	}
	for i, part := range req.Parts {
		unit := part.Unit
		if unit == "" {
			unit = "pcs"
		}
		wo.RequiredParts = append(wo.RequiredParts, entity.WorkOrderPart{
			ID:          uuid.New().String(),
			WorkOrderID: wo.ID,
			PartID:      part.PartID,
			Description: part.Description,
			Quantity:    part.Quantity,
			Unit:        unit,
			SortOrder:   i + 1,
		})
	}
	if err := s.woRepo.Create(ctx, wo); err != nil {
		return nil, fmt.Errorf("create work order: %w", err)
	}
	return wo, nil
}

func (s *CatalogService) GetWorkOrder(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return s.woRepo.FindByID(ctx, id)
}

func (s *CatalogService) ListWorkOrders(ctx context.Context, params repository.WorkOrderListParams) ([]entity.WorkOrder, int64, error) {
	return s.woRepo.List(ctx, params)
}
