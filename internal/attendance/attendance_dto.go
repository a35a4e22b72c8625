package attendance

// SyncRecord is one offline-captured event as submitted by a device. The
// timestamp is the moment the physical event happened, not the sync time.
type SyncRecord struct {
	WorkerID  string  `json:"worker_id"`
	Timestamp string  `json:"timestamp"`
	EventType string  `json:"event_type"`
	Location  *string `json:"location"`
}

type SyncRequest struct {
	Records []SyncRecord `json:"records"`
}

type SyncResponse struct {
	Success bool     `json:"success"`
	Synced  int      `json:"synced"`
	Errors  []string `json:"errors"`
}

type QueryRequest struct {
	WorkerID  string
	StartDate string
	EndDate   string
}

type AttendanceResponse struct {
	ID               string  `json:"id"`
	WorkerID         string  `json:"worker_id"`
	WorkerExternalID string  `json:"worker_external_id,omitempty"`
	WorkerName       string  `json:"worker_name,omitempty"`
	Timestamp        string  `json:"timestamp"`
	EventType        *string `json:"event_type,omitempty"`
	Location         *string `json:"location,omitempty"`
	SyncedAt         string  `json:"synced_at"`
}
