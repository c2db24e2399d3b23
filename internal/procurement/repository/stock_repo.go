package repository

import (
	"context"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"gorm.io/gorm"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// WarehouseAvailability available quantity of a part in one warehouse
type WarehouseAvailability struct {
	WarehouseID   string  `json:"warehouse_id"`
	WarehouseName string  `json:"warehouse_name"`
	Available     float64 `json:"available"`
}

// GetAvailabilityByPlant returns the total available quantity of a part at a
// plant plus the per-warehouse breakdown
func (r *StockRepository) GetAvailabilityByPlant(ctx context.Context, partID, plantID string) (float64, []WarehouseAvailability, error) {
	var rows []WarehouseAvailability
	err := r.db.WithContext(ctx).Raw(`
		SELECT w.id as warehouse_id, w.name as warehouse_name, COALESCE(s.available_qty, 0) as available
		FROM mtto_warehouses w
		LEFT JOIN mtto_stock s ON s.warehouse_id = w.id AND s.part_id = ?
		WHERE w.plant_id = ?
		ORDER BY w.code
	`, partID, plantID).Scan(&rows).Error
	if err != nil {
		return 0, nil, err
	}

	var total float64
	for _, row := range rows {
		total += row.Available
	}
	return total, rows, nil
}

func (r *StockRepository) GetByPartAndWarehouse(ctx context.Context, partID, warehouseID string) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).
		Where("part_id = ? AND warehouse_id = ?", partID, warehouseID).
		First(&stock).Error
	return &stock, err
}

func (r *StockRepository) Upsert(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

type StockListParams struct {
	PartID      string
	WarehouseID string
	Page        int
	Size        int
}

func (r *StockRepository) List(ctx context.Context, params StockListParams) ([]entity.Stock, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Stock{})
	if params.PartID != "" {
		query = query.Where("part_id = ?", params.PartID)
	}
	if params.WarehouseID != "" {
		query = query.Where("warehouse_id = ?", params.WarehouseID)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.Stock
	err := query.Preload("Warehouse").Order("updated_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}
