package events

import "time"

const AttendanceSyncTopic = "workforce.attendance.sync.v1"

// SyncCompletedEvent summarizes one batch sync so downstream consumers
// (reporting, alerting) can react without re-reading the event log.
type SyncCompletedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	DeviceID   string    `json:"device_id,omitempty"`
	Synced     int       `json:"synced"`
	Failed     int       `json:"failed"`
	OccurredAt time.Time `json:"occurred_at"`
}
