package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is one clock-in/out occurrence. Rows are append-only: they are
// written exactly once by a successful sync item and never updated.
type Attendance struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerID   uuid.UUID  `gorm:"column:worker_id;type:uuid;not null;index"`
	OccurredAt time.Time  `gorm:"column:occurred_at;type:timestamptz;not null;index"`
	EventType  *string    `gorm:"column:event_type;type:varchar(10)"`
	Location   *string    `gorm:"column:location;type:varchar(100)"`
	SyncedAt   time.Time  `gorm:"column:synced_at;type:timestamptz"`
	Worker     *WorkerRef `gorm:"foreignKey:WorkerID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendance"
}

type WorkerRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalID string    `gorm:"column:external_id"`
	Name       string    `gorm:"column:name"`
}

func (WorkerRef) TableName() string {
	return "workers"
}
