package attendance

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// QueryFilter narrows the event log query. All fields are optional; the
// worker filter matches the device-assigned external id.
type QueryFilter struct {
	WorkerExternalID string
	From             *time.Time
	To               *time.Time
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock

// Repository is the event log contract: insert and filtered query, nothing
// else. There is no update or delete.
type Repository interface {
	Create(ctx context.Context, a *Attendance) error
	FindFiltered(ctx context.Context, f QueryFilter) ([]Attendance, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindFiltered(ctx context.Context, f QueryFilter) ([]Attendance, error) {
	q := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Preload("Worker")

	if f.WorkerExternalID != "" {
		q = q.Joins("JOIN workers ON workers.id = attendance.worker_id").
			Where("workers.external_id = ?", f.WorkerExternalID)
	}
	if f.From != nil {
		q = q.Where("attendance.occurred_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("attendance.occurred_at <= ?", *f.To)
	}

	var rows []Attendance
	err := q.Order("attendance.occurred_at DESC").Find(&rows).Error
	return rows, err
}
