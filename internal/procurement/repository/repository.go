package repository

import (
	"gorm.io/gorm"
)

// Repositories procurement data access collection
type Repositories struct {
	Order     *OrderRepository
	Stock     *StockRepository
	Catalog   *CatalogRepository
	WorkOrder *WorkOrderRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Order:     NewOrderRepository(db),
		Stock:     NewStockRepository(db),
		Catalog:   NewCatalogRepository(db),
		WorkOrder: NewWorkOrderRepository(db),
	}
}
