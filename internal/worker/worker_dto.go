package worker

import "encoding/json"

type CreateWorkerRequest struct {
	WorkerID     string    `json:"worker_id" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	Email        *string   `json:"email"`
	Phone        *string   `json:"phone"`
	FaceEncoding []float64 `json:"face_encoding"`
}

// UpdateWorkerRequest carries partial updates: nil pointers mean "leave
// unchanged". FaceEncoding is raw so an explicit null (clear) can be told
// apart from an omitted field.
type UpdateWorkerRequest struct {
	Name         *string         `json:"name"`
	Email        *string         `json:"email"`
	Phone        *string         `json:"phone"`
	FaceEncoding json.RawMessage `json:"face_encoding"`
}

// WorkerItem is one entry of a bulk upsert batch. FaceEncoding keeps the
// omitted/null distinction; FaceImage is a base64 image for the biometric
// adapter when the device could not compute the vector itself.
type WorkerItem struct {
	WorkerID     string          `json:"worker_id"`
	Name         string          `json:"name"`
	Email        *string         `json:"email"`
	Phone        *string         `json:"phone"`
	FaceEncoding json.RawMessage `json:"face_encoding,omitempty"`
	FaceImage    string          `json:"face_image,omitempty"`
}

type BulkUpsertRequest struct {
	Workers []WorkerItem `json:"workers"`
}

type BulkUpsertResponse struct {
	Success bool     `json:"success"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

type WorkerResponse struct {
	ID           string    `json:"id"`
	WorkerID     string    `json:"worker_id"`
	Name         string    `json:"name"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	FaceEncoding []float64 `json:"face_encoding,omitempty"`
	CreatedAt    string    `json:"created_at"`
}

type WorkerOptionResponse struct {
	ID       string `json:"id"`
	WorkerID string `json:"worker_id"`
	Name     string `json:"name"`
}
