package repository

import (
	"context"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order together with its items in one transaction
func (r *OrderRepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Quotations").Preload("Quotations.Items").
		Where("id = ? AND deleted_at IS NULL", id).First(&po).Error
	return &po, err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).
		Where("id = ?", id).Update("status", status).Error
}

// CreateQuotation inserts one quotation with its items
func (r *OrderRepository) CreateQuotation(ctx context.Context, q *entity.Quotation) error {
	return r.db.WithContext(ctx).Create(q).Error
}

type OrderListParams struct {
	Status      string
	OrderType   string
	Purpose     string
	WorkOrderID string
	PlantID     string
	Keyword     string
	Page        int
	Size        int
}

func (r *OrderRepository) List(ctx context.Context, params OrderListParams) ([]entity.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.OrderType != "" {
		query = query.Where("order_type = ?", params.OrderType)
	}
	if params.Purpose != "" {
		query = query.Where("purpose = ?", params.Purpose)
	}
	if params.WorkOrderID != "" {
		query = query.Where("work_order_id = ?", params.WorkOrderID)
	}
	if params.PlantID != "" {
		query = query.Where("plant_id = ?", params.PlantID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("po_code ILIKE ? OR supplier_name ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var pos []entity.PurchaseOrder
	err := query.Preload("Items").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&pos).Error
	return pos, total, err
}
