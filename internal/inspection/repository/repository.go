package repository

import (
	"context"

	"github.com/dssolutions-mx/mtto-server/internal/inspection/entity"
	"gorm.io/gorm"
)

type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// --- Equipment ---

func (r *InspectionRepository) CreateEquipment(ctx context.Context, eq *entity.Equipment) error {
	return r.db.WithContext(ctx).Create(eq).Error
}

func (r *InspectionRepository) FindEquipmentByID(ctx context.Context, id string) (*entity.Equipment, error) {
	var eq entity.Equipment
	err := r.db.WithContext(ctx).Where("id = ? AND deleted_at IS NULL", id).First(&eq).Error
	return &eq, err
}

func (r *InspectionRepository) ListEquipment(ctx context.Context, plantID, keyword string, page, size int) ([]entity.Equipment, int64, error) {
	var items []entity.Equipment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Equipment{}).Where("deleted_at IS NULL")
	if plantID != "" {
		query = query.Where("plant_id = ?", plantID)
	}
	if keyword != "" {
		query = query.Where("code ILIKE ? OR name ILIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&items).Error
	return items, total, err
}

// --- Checklists ---

func (r *InspectionRepository) CreateChecklist(ctx context.Context, cl *entity.Checklist) error {
	return r.db.WithContext(ctx).Create(cl).Error
}

func (r *InspectionRepository) FindChecklistByID(ctx context.Context, id string) (*entity.Checklist, error) {
	var cl entity.Checklist
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ? AND deleted_at IS NULL", id).First(&cl).Error
	return &cl, err
}

func (r *InspectionRepository) ListChecklists(ctx context.Context, keyword string, page, size int) ([]entity.Checklist, int64, error) {
	var items []entity.Checklist
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Checklist{}).Where("deleted_at IS NULL")
	if keyword != "" {
		query = query.Where("name ILIKE ?", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&items).Error
	return items, total, err
}

// --- Inspections ---

func (r *InspectionRepository) CreateInspection(ctx context.Context, ins *entity.Inspection) error {
	return r.db.WithContext(ctx).Create(ins).Error
}

func (r *InspectionRepository) FindInspectionByID(ctx context.Context, id string) (*entity.Inspection, error) {
	var ins entity.Inspection
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).First(&ins).Error
	return &ins, err
}

type InspectionListParams struct {
	EquipmentID string
	Result      string
	Page        int
	Size        int
}

func (r *InspectionRepository) ListInspections(ctx context.Context, params InspectionListParams) ([]entity.Inspection, int64, error) {
	var items []entity.Inspection
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Inspection{})
	if params.EquipmentID != "" {
		query = query.Where("equipment_id = ?", params.EquipmentID)
	}
	if params.Result != "" {
		query = query.Where("result = ?", params.Result)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("inspected_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&items).Error
	return items, total, err
}
