package worker

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=worker_repo.go -destination=mock/worker_repo_mock.go -package=mock

// Repository is the identity store contract the batch engine resolves
// external ids against.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, w *Worker) error
	FindByExternalID(ctx context.Context, externalID string) (*Worker, error)
	FindByID(ctx context.Context, id string) (*Worker, error)
	FindAll(ctx context.Context) ([]Worker, error)
	FindOptions(ctx context.Context) ([]Worker, error)
	Update(ctx context.Context, w *Worker) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the repository onto an already-open transaction so a write
// can commit atomically with its outbox row.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, w *Worker) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *repository) FindByExternalID(ctx context.Context, externalID string) (*Worker, error) {
	var w Worker
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&w).Error
	return &w, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Worker, error) {
	var w Worker
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	return &w, err
}

func (r *repository) FindAll(ctx context.Context) ([]Worker, error) {
	var rows []Worker
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Worker, error) {
	var rows []Worker
	err := r.db.WithContext(ctx).
		Select("id", "external_id", "name").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, w *Worker) error {
	return r.db.WithContext(ctx).Save(w).Error
}
