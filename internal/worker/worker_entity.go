package worker

import (
	"time"

	"github.com/google/uuid"
)

// Worker is one tracked individual. ID is the store-assigned identity that
// attendance rows reference; ExternalID is the device-assigned correlation
// key and never changes once assigned.
type Worker struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ExternalID   string    `gorm:"column:external_id;type:varchar(50);not null;uniqueIndex:uq_workers_external_id"`
	Name         string    `gorm:"column:name;type:varchar(100);not null"`
	Email        *string   `gorm:"column:email;type:varchar(100)"`
	Phone        *string   `gorm:"column:phone;type:varchar(20)"`
	FaceEncoding *string   `gorm:"column:face_encoding;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Worker) TableName() string {
	return "workers"
}
