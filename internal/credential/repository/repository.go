package repository

import (
	"context"

	"github.com/dssolutions-mx/mtto-server/internal/credential/entity"
	"gorm.io/gorm"
)

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// --- Employees ---

func (r *CredentialRepository) CreateEmployee(ctx context.Context, e *entity.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *CredentialRepository) FindEmployeeByID(ctx context.Context, id string) (*entity.Employee, error) {
	var e entity.Employee
	err := r.db.WithContext(ctx).Where("id = ? AND deleted_at IS NULL", id).First(&e).Error
	return &e, err
}

func (r *CredentialRepository) FindEmployeesByIDs(ctx context.Context, ids []string) ([]entity.Employee, error) {
	var items []entity.Employee
	err := r.db.WithContext(ctx).
		Where("id IN ? AND deleted_at IS NULL", ids).
		Order("employee_no ASC").
		Find(&items).Error
	return items, err
}

func (r *CredentialRepository) ListEmployees(ctx context.Context, keyword string, page, size int) ([]entity.Employee, int64, error) {
	var items []entity.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Employee{}).Where("deleted_at IS NULL")
	if keyword != "" {
		query = query.Where("employee_no ILIKE ? OR full_name ILIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("employee_no ASC").Offset((page - 1) * size).Limit(size).Find(&items).Error
	return items, total, err
}

// --- Batches ---

func (r *CredentialRepository) CreateBatch(ctx context.Context, b *entity.CredentialBatch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *CredentialRepository) UpdateBatch(ctx context.Context, b *entity.CredentialBatch) error {
	return r.db.WithContext(ctx).Model(&entity.CredentialBatch{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"status":       b.Status,
			"succeeded":    b.Succeeded,
			"failed":       b.Failed,
			"completed_at": b.CompletedAt,
		}).Error
}

func (r *CredentialRepository) FindBatchByID(ctx context.Context, id string) (*entity.CredentialBatch, error) {
	var b entity.CredentialBatch
	err := r.db.WithContext(ctx).
		Preload("Credentials", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Credentials.Employee").
		Where("id = ?", id).First(&b).Error
	return &b, err
}

func (r *CredentialRepository) ListBatches(ctx context.Context, page, size int) ([]entity.CredentialBatch, int64, error) {
	var items []entity.CredentialBatch
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CredentialBatch{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&items).Error
	return items, total, err
}

// --- Credentials ---

func (r *CredentialRepository) CreateCredential(ctx context.Context, c *entity.Credential) error {
	return r.db.WithContext(ctx).Create(c).Error
}
