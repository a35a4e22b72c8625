package device

import (
	"time"

	"github.com/google/uuid"
)

// Device is one sync client (kiosk, handheld) allowed to push batches. The
// API key is stored hashed; the plaintext is shown once at enrollment.
type Device struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"column:name;type:varchar(100);not null"`
	APIKeyHash string    `gorm:"column:api_key_hash;type:varchar(255);not null"`
	IsActive   bool      `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Device) TableName() string {
	return "devices"
}
