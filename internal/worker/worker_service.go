package worker

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Bdavid117/sioma-app/internal/biometric"
	"github.com/Bdavid117/sioma-app/internal/events"
	"github.com/Bdavid117/sioma-app/internal/messaging/kafka"
	"github.com/Bdavid117/sioma-app/internal/shared/contextutil"
	workererrors "github.com/Bdavid117/sioma-app/internal/worker/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const WorkerOptionsKey = "workers:options"

//go:generate mockgen -source=worker_service.go -destination=mock/worker_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateWorkerRequest) (WorkerResponse, error)
	GetAll(ctx context.Context) ([]WorkerResponse, error)
	GetOptions(ctx context.Context) ([]WorkerOptionResponse, error)
	GetByID(ctx context.Context, id string) (WorkerResponse, error)
	UpdateByExternalID(ctx context.Context, externalID string, req UpdateWorkerRequest) (WorkerResponse, error)
	BulkUpsert(ctx context.Context, items []WorkerItem) (BulkUpsertResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	encoder biometric.Encoder
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, encoder biometric.Encoder, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, encoder, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	encoder biometric.Encoder,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("worker.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("worker.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		encoder: encoder,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

// BulkUpsert reconciles a batch of externally-identified workers against the
// store, one item at a time and in input order. Failed items are collected
// as messages; they never abort or roll back their siblings. Each write
// commits on its own, so a late failure cannot undo earlier successes.
func (s *service) BulkUpsert(ctx context.Context, items []WorkerItem) (BulkUpsertResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("bulk upsert requested",
		zap.String("request_id", rid),
		zap.Int("items", len(items)),
	)

	res := BulkUpsertResponse{Success: true, Errors: []string{}}

	for idx, item := range items {
		if item.WorkerID == "" || item.Name == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Item %d: faltan worker_id o name", idx))
			continue
		}

		existing, err := s.repo.FindByExternalID(ctx, item.WorkerID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			res.Errors = append(res.Errors, fmt.Sprintf("Item %d: %v", idx, err))
			continue
		}

		encoding, included, encErr := s.resolveFingerprint(ctx, item)
		if encErr != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Item %d: %v", idx, encErr))
			continue
		}

		if err == nil {
			// Update path: name and contact are overwritten with whatever the
			// item carries; the fingerprint only when explicitly included.
			existing.Name = item.Name
			existing.Email = item.Email
			existing.Phone = item.Phone
			if included {
				existing.FaceEncoding = encoding
			}
			if err := s.repo.Update(ctx, existing); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Item %d: %v", idx, mapRepositoryError(err)))
				continue
			}
			res.Updated++
		} else {
			row := &Worker{
				ID:           uuid.New(),
				ExternalID:   item.WorkerID,
				Name:         item.Name,
				Email:        item.Email,
				Phone:        item.Phone,
				FaceEncoding: encoding,
			}
			if err := s.repo.Create(ctx, row); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Item %d: %v", idx, mapRepositoryError(err)))
				continue
			}
			res.Created++
		}
	}

	if res.Created > 0 || res.Updated > 0 {
		s.invalidateOptionsCache(ctx)
	}

	s.logger.Info("bulk upsert finished",
		zap.String("request_id", rid),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("errors", len(res.Errors)),
	)

	return res, nil
}

func (s *service) Create(ctx context.Context, req CreateWorkerRequest) (WorkerResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create worker requested",
		zap.String("request_id", rid),
		zap.String("external_id", req.WorkerID),
	)

	_, err := s.repo.FindByExternalID(ctx, req.WorkerID)
	if err == nil {
		return WorkerResponse{}, workererrors.ErrWorkerAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return WorkerResponse{}, mapRepositoryError(err)
	}

	row := &Worker{
		ID:         uuid.New(),
		ExternalID: req.WorkerID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
	}
	if req.FaceEncoding != nil {
		encoded, err := encodeVector(req.FaceEncoding)
		if err != nil {
			return WorkerResponse{}, workererrors.ErrInvalidFaceEncoding
		}
		row.FaceEncoding = encoded
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create worker begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return WorkerResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create worker persist failed", zap.Error(err))
		return WorkerResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.WorkerCreatedEvent{
			EventType:  "worker_created",
			RequestID:  rid,
			WorkerID:   row.ID.String(),
			ExternalID: row.ExternalID,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return WorkerResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "worker",
			AggregateID:   row.ID.String(),
			EventType:     event.EventType,
			Topic:         events.WorkerLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create worker outbox persist failed",
				zap.String("worker_id", row.ID.String()),
				zap.Error(err),
			)
			return WorkerResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create worker commit failed", zap.String("request_id", rid), zap.Error(err))
		return WorkerResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("create worker success",
		zap.String("request_id", rid),
		zap.String("worker_id", row.ID.String()),
		zap.String("external_id", row.ExternalID),
	)

	return mapToResponse(*row), nil
}

func (s *service) UpdateByExternalID(ctx context.Context, externalID string, req UpdateWorkerRequest) (WorkerResponse, error) {
	s.logger.Debug("update worker requested", zap.String("external_id", externalID))

	row, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return WorkerResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		row.Name = *req.Name
	}
	if req.Email != nil {
		row.Email = req.Email
	}
	if req.Phone != nil {
		row.Phone = req.Phone
	}
	if len(req.FaceEncoding) > 0 {
		encoding, err := parseRawEncoding(req.FaceEncoding)
		if err != nil {
			return WorkerResponse{}, err
		}
		row.FaceEncoding = encoding
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("update worker persist failed", zap.Error(err))
		return WorkerResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("update worker success", zap.String("external_id", externalID))
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context) ([]WorkerResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all workers failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]WorkerResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (WorkerResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return WorkerResponse{}, workererrors.ErrInvalidWorkerID
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return WorkerResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

// GetOptions serves the id/name pairs devices need for provisioning. The
// list is hot during fleet rollouts, so it is cached in Redis and reads are
// collapsed with singleflight.
func (s *service) GetOptions(ctx context.Context) ([]WorkerOptionResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, WorkerOptionsKey).Result(); err == nil {
			var resp []WorkerOptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(WorkerOptionsKey, func() (interface{}, error) {
		rows, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]WorkerOptionResponse, len(rows))
		for i, r := range rows {
			resp[i] = WorkerOptionResponse{
				ID:       r.ID.String(),
				WorkerID: r.ExternalID,
				Name:     r.Name,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, WorkerOptionsKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]WorkerOptionResponse), nil
}

// resolveFingerprint decides what the item contributes to the stored
// fingerprint. included reports whether the item addressed the field at all:
// an explicit null clears it, a vector replaces it, a raw image is sent
// through the biometric adapter, and an absent field leaves it untouched.
func (s *service) resolveFingerprint(ctx context.Context, item WorkerItem) (encoding *string, included bool, err error) {
	if len(item.FaceEncoding) > 0 {
		encoding, err = parseRawEncoding(item.FaceEncoding)
		return encoding, true, err
	}

	if item.FaceImage != "" {
		raw, err := base64.StdEncoding.DecodeString(item.FaceImage)
		if err != nil {
			return nil, true, workererrors.ErrInvalidFaceImage
		}
		vector, err := s.encoder.ComputeFingerprint(ctx, raw)
		if err != nil {
			return nil, true, err
		}
		encoded, err := encodeVector(vector)
		return encoded, true, err
	}

	return nil, false, nil
}

func parseRawEncoding(raw json.RawMessage) (*string, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var vector []float64
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, workererrors.ErrInvalidFaceEncoding
	}
	return encodeVector(vector)
}

func encodeVector(vector []float64) (*string, error) {
	data, err := json.Marshal(vector)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

func decodeVector(encoding *string) []float64 {
	if encoding == nil {
		return nil
	}
	var vector []float64
	if err := json.Unmarshal([]byte(*encoding), &vector); err != nil {
		return nil
	}
	return vector
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, WorkerOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate worker options cache",
			zap.Error(err),
			zap.String("key", WorkerOptionsKey),
		)
	}
}

func mapToResponse(w Worker) WorkerResponse {
	return WorkerResponse{
		ID:           w.ID.String(),
		WorkerID:     w.ExternalID,
		Name:         w.Name,
		Email:        w.Email,
		Phone:        w.Phone,
		FaceEncoding: decodeVector(w.FaceEncoding),
		CreatedAt:    w.CreatedAt.Format(time.RFC3339),
	}
}
