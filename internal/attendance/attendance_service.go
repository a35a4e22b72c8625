package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	attendanceerrors "github.com/Bdavid117/sioma-app/internal/attendance/errors"
	"github.com/Bdavid117/sioma-app/internal/events"
	"github.com/Bdavid117/sioma-app/internal/messaging/kafka"
	"github.com/Bdavid117/sioma-app/internal/shared/contextutil"
	"github.com/Bdavid117/sioma-app/internal/worker"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Layouts accepted for device timestamps. Offline clients usually send
// naive local timestamps, so the offset-less forms come after the RFC ones.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Sync(ctx context.Context, deviceID string, records []SyncRecord) (SyncResponse, error)
	Query(ctx context.Context, req QueryRequest) ([]AttendanceResponse, error)
}

type service struct {
	repo    Repository
	workers worker.Repository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(repo Repository, workers worker.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(repo, workers, nil, logger...)
}

func NewServiceWithOutbox(
	repo Repository,
	workers worker.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, workers: workers, outbox: outboxRepo, logger: l}
}

// Sync appends a batch of offline-captured events to the log. Items are
// processed in order; each failure is recorded as a message and the batch
// moves on. Rejected items are not buffered for retry here, re-submission
// is the device's responsibility.
func (s *service) Sync(ctx context.Context, deviceID string, records []SyncRecord) (SyncResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("attendance sync requested",
		zap.String("request_id", rid),
		zap.String("device_id", deviceID),
		zap.Int("records", len(records)),
	)

	res := SyncResponse{Success: true, Errors: []string{}}

	for _, record := range records {
		if record.WorkerID == "" {
			res.Errors = append(res.Errors, "Registro sin worker_id")
			continue
		}

		w, err := s.workers.FindByExternalID(ctx, record.WorkerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Errors = append(res.Errors, fmt.Sprintf("Trabajador %s no encontrado", record.WorkerID))
			} else {
				res.Errors = append(res.Errors, fmt.Sprintf("Trabajador %s: %v", record.WorkerID, err))
			}
			continue
		}

		occurredAt, err := parseTimestamp(record.Timestamp)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Timestamp inválido para worker %s", record.WorkerID))
			continue
		}

		row := &Attendance{
			ID:         uuid.New(),
			WorkerID:   w.ID,
			OccurredAt: occurredAt,
			EventType:  optional(record.EventType),
			Location:   record.Location,
			SyncedAt:   time.Now().UTC(),
		}

		if err := s.repo.Create(ctx, row); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Trabajador %s: %v", record.WorkerID, err))
			continue
		}
		res.Synced++
	}

	s.publishSyncCompleted(ctx, rid, deviceID, res)

	s.logger.Info("attendance sync finished",
		zap.String("request_id", rid),
		zap.String("device_id", deviceID),
		zap.Int("synced", res.Synced),
		zap.Int("errors", len(res.Errors)),
	)

	return res, nil
}

func (s *service) Query(ctx context.Context, req QueryRequest) ([]AttendanceResponse, error) {
	filter := QueryFilter{WorkerExternalID: req.WorkerID}

	if req.StartDate != "" {
		from, err := parseTimestamp(req.StartDate)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDateFilter
		}
		filter.From = &from
	}
	if req.EndDate != "" {
		to, err := parseTimestamp(req.EndDate)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDateFilter
		}
		filter.To = &to
	}

	rows, err := s.repo.FindFiltered(ctx, filter)
	if err != nil {
		s.logger.Error("attendance query failed", zap.Error(err))
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) publishSyncCompleted(ctx context.Context, rid, deviceID string, res SyncResponse) {
	if s.outbox == nil {
		return
	}

	event := events.SyncCompletedEvent{
		EventType:  "sync_completed",
		RequestID:  rid,
		DeviceID:   deviceID,
		Synced:     res.Synced,
		Failed:     len(res.Errors),
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal sync event failed", zap.Error(err))
		return
	}

	if err := s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "attendance_sync",
		AggregateID:   deviceID,
		EventType:     event.EventType,
		Topic:         events.AttendanceSyncTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		// Reporting is best-effort; the synced rows are already durable.
		s.logger.Error("sync outbox persist failed", zap.Error(err))
	}
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", value)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:        a.ID.String(),
		WorkerID:  a.WorkerID.String(),
		Timestamp: a.OccurredAt.Format(time.RFC3339),
		EventType: a.EventType,
		Location:  a.Location,
		SyncedAt:  a.SyncedAt.Format(time.RFC3339),
	}
	if a.Worker != nil {
		resp.WorkerExternalID = a.Worker.ExternalID
		resp.WorkerName = a.Worker.Name
	}
	return resp
}
