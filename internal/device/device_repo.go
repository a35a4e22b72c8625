package device

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=device_repo.go -destination=mock/device_repo_mock.go -package=mock

type Repository interface {
	Create(ctx context.Context, d *Device) error
	GetByID(ctx context.Context, id uuid.UUID) (*Device, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, d *Device) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Device, error) {
	var d Device
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}
