package repository

import (
	"context"

	"github.com/dssolutions-mx/mtto-server/internal/procurement/entity"
	"gorm.io/gorm"
)

// CatalogRepository suppliers, parts and plants
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// --- Suppliers ---

func (r *CatalogRepository) CreateSupplier(ctx context.Context, s *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogRepository) FindSupplierByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.db.WithContext(ctx).Where("id = ? AND deleted_at IS NULL", id).First(&s).Error
	return &s, err
}

func (r *CatalogRepository) ListSuppliers(ctx context.Context, keyword string, page, size int) ([]entity.Supplier, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Supplier{}).Where("deleted_at IS NULL")
	if keyword != "" {
		kw := "%" + keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var suppliers []entity.Supplier
	err := query.Order("name").Offset((page - 1) * size).Limit(size).Find(&suppliers).Error
	return suppliers, total, err
}

// --- Parts ---

func (r *CatalogRepository) CreatePart(ctx context.Context, p *entity.Part) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *CatalogRepository) FindPartByID(ctx context.Context, id string) (*entity.Part, error) {
	var p entity.Part
	err := r.db.WithContext(ctx).Where("id = ? AND deleted_at IS NULL", id).First(&p).Error
	return &p, err
}

func (r *CatalogRepository) ListParts(ctx context.Context, keyword string, page, size int) ([]entity.Part, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Part{}).Where("deleted_at IS NULL")
	if keyword != "" {
		kw := "%" + keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var parts []entity.Part
	err := query.Order("code").Offset((page - 1) * size).Limit(size).Find(&parts).Error
	return parts, total, err
}

// --- Plants ---

func (r *CatalogRepository) FindPlantByID(ctx context.Context, id string) (*entity.Plant, error) {
	var p entity.Plant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *CatalogRepository) ListPlants(ctx context.Context) ([]entity.Plant, error) {
	var plants []entity.Plant
	err := r.db.WithContext(ctx).Where("status = ?", "active").Order("code").Find(&plants).Error
	return plants, err
}
