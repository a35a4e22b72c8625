package worker

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Bdavid117/sioma-app/internal/messaging/kafka"
	workererrors "github.com/Bdavid117/sioma-app/internal/worker/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn           func(tx *sql.Tx) Repository
	createFn           func(ctx context.Context, w *Worker) error
	findByExternalIDFn func(ctx context.Context, externalID string) (*Worker, error)
	findByIDFn         func(ctx context.Context, id string) (*Worker, error)
	findAllFn          func(ctx context.Context) ([]Worker, error)
	findOptionsFn      func(ctx context.Context) ([]Worker, error)
	updateFn           func(ctx context.Context, w *Worker) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository            { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, w *Worker) error { return f.createFn(ctx, w) }
func (f *fakeRepo) FindByExternalID(ctx context.Context, externalID string) (*Worker, error) {
	return f.findByExternalIDFn(ctx, externalID)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Worker, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]Worker, error)     { return f.findAllFn(ctx) }
func (f *fakeRepo) FindOptions(ctx context.Context) ([]Worker, error) { return f.findOptionsFn(ctx) }
func (f *fakeRepo) Update(ctx context.Context, w *Worker) error       { return f.updateFn(ctx, w) }

// memoryRepo backs most engine tests: a map keyed by external id with
// store-like not-found semantics.
func newMemoryRepo() (*fakeRepo, map[string]*Worker) {
	store := make(map[string]*Worker)
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, w *Worker) error {
		store[w.ExternalID] = w
		return nil
	}
	repo.findByExternalIDFn = func(ctx context.Context, externalID string) (*Worker, error) {
		if w, ok := store[externalID]; ok {
			copied := *w
			return &copied, nil
		}
		return &Worker{}, gorm.ErrRecordNotFound
	}
	repo.updateFn = func(ctx context.Context, w *Worker) error {
		store[w.ExternalID] = w
		return nil
	}
	return repo, store
}

type fakeEncoder struct {
	computeFn func(ctx context.Context, image []byte) ([]float64, error)
}

func (f *fakeEncoder) ComputeFingerprint(ctx context.Context, image []byte) ([]float64, error) {
	return f.computeFn(ctx, image)
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error                { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func TestService_BulkUpsert_CreateThenUpdate(t *testing.T) {
	repo, store := newMemoryRepo()
	svc := NewService(nil, repo, &fakeEncoder{}, nil)
	ctx := context.Background()

	res, err := svc.BulkUpsert(ctx, []WorkerItem{{WorkerID: "W1", Name: "Ana"}})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Empty(t, res.Errors)

	res, err = svc.BulkUpsert(ctx, []WorkerItem{{WorkerID: "W1", Name: "Ana Garcia"}})
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Empty(t, res.Errors)

	assert.Len(t, store, 1)
	assert.Equal(t, "Ana Garcia", store["W1"].Name)
}

func TestService_BulkUpsert_FingerprintOmittedVsNull(t *testing.T) {
	repo, store := newMemoryRepo()
	svc := NewService(nil, repo, &fakeEncoder{}, nil)
	ctx := context.Background()

	res, _ := svc.BulkUpsert(ctx, []WorkerItem{{
		WorkerID:     "W1",
		Name:         "Ana",
		FaceEncoding: json.RawMessage(`[0.1, 0.2, 0.3]`),
	}})
	assert.Equal(t, 1, res.Created)
	assert.NotNil(t, store["W1"].FaceEncoding)

	// Omitted field leaves the stored fingerprint untouched
	res, _ = svc.BulkUpsert(ctx, []WorkerItem{{WorkerID: "W1", Name: "Ana"}})
	assert.Equal(t, 1, res.Updated)
	assert.NotNil(t, store["W1"].FaceEncoding)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, decodeVector(store["W1"].FaceEncoding))

	// Explicit null clears it
	res, _ = svc.BulkUpsert(ctx, []WorkerItem{{
		WorkerID:     "W1",
		Name:         "Ana",
		FaceEncoding: json.RawMessage(`null`),
	}})
	assert.Equal(t, 1, res.Updated)
	assert.Nil(t, store["W1"].FaceEncoding)
}

func TestService_BulkUpsert_ErrorIsolation(t *testing.T) {
	repo, store := newMemoryRepo()
	svc := NewService(nil, repo, &fakeEncoder{}, nil)

	res, err := svc.BulkUpsert(context.Background(), []WorkerItem{
		{WorkerID: "W1", Name: "Ana"},
		{WorkerID: "W2"}, // missing name
		{WorkerID: "W3", Name: "Carlos"},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, "Item 1: faltan worker_id o name", res.Errors[0])
	assert.Len(t, store, 2)
}

func TestService_BulkUpsert_AdapterFailure(t *testing.T) {
	repo, store := newMemoryRepo()
	encoder := &fakeEncoder{
		computeFn: func(ctx context.Context, image []byte) ([]float64, error) {
			return nil, errors.New("face service timeout")
		},
	}
	svc := NewService(nil, repo, encoder, nil)

	res, err := svc.BulkUpsert(context.Background(), []WorkerItem{
		{WorkerID: "W1", Name: "Ana", FaceImage: base64.StdEncoding.EncodeToString([]byte("jpeg"))},
		{WorkerID: "W2", Name: "Luis"},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Item 0")
	assert.Contains(t, res.Errors[0], "face service timeout")
	assert.NotContains(t, store, "W1")
	assert.Contains(t, store, "W2")
}

func TestService_BulkUpsert_ComputesFingerprintFromImage(t *testing.T) {
	repo, store := newMemoryRepo()
	encoder := &fakeEncoder{
		computeFn: func(ctx context.Context, image []byte) ([]float64, error) {
			assert.Equal(t, []byte("jpeg"), image)
			return []float64{1, 2, 3}, nil
		},
	}
	svc := NewService(nil, repo, encoder, nil)

	res, _ := svc.BulkUpsert(context.Background(), []WorkerItem{
		{WorkerID: "W1", Name: "Ana", FaceImage: base64.StdEncoding.EncodeToString([]byte("jpeg"))},
	})
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, []float64{1, 2, 3}, decodeVector(store["W1"].FaceEncoding))
}

func TestService_BulkUpsert_StoreConflictIsItemLevel(t *testing.T) {
	// A concurrent batch can win the insert race; the unique constraint
	// violation must surface as one item error, not abort the batch.
	repo, _ := newMemoryRepo()
	repo.createFn = func(ctx context.Context, w *Worker) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_workers_external_id"}
	}
	svc := NewService(nil, repo, &fakeEncoder{}, nil)

	res, err := svc.BulkUpsert(context.Background(), []WorkerItem{{WorkerID: "W1", Name: "Ana"}})
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Trabajador ya existe")
}

func TestService_Create_Duplicate(t *testing.T) {
	repo, store := newMemoryRepo()
	store["W1"] = &Worker{ID: uuid.New(), ExternalID: "W1", Name: "Ana"}
	svc := NewService(nil, repo, &fakeEncoder{}, nil)

	_, err := svc.Create(context.Background(), CreateWorkerRequest{WorkerID: "W1", Name: "Ana"})
	assert.True(t, errors.Is(err, workererrors.ErrWorkerAlreadyExists))
}

func TestService_Create_WithOutbox(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, store := newMemoryRepo()
	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, &fakeEncoder{}, outbox, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), CreateWorkerRequest{
		WorkerID:     "W1",
		Name:         "Ana",
		FaceEncoding: []float64{0.5},
	})
	assert.NoError(t, err)
	assert.Equal(t, "W1", resp.WorkerID)
	assert.Contains(t, store, "W1")

	assert.Len(t, outbox.events, 1)
	assert.Equal(t, "worker_created", outbox.events[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateByExternalID_Partial(t *testing.T) {
	email := "ana@example.com"
	encoding := `[0.1]`
	repo, store := newMemoryRepo()
	store["W1"] = &Worker{ID: uuid.New(), ExternalID: "W1", Name: "Ana", Email: &email, FaceEncoding: &encoding}
	svc := NewService(nil, repo, &fakeEncoder{}, nil)

	name := "Ana Garcia"
	resp, err := svc.UpdateByExternalID(context.Background(), "W1", UpdateWorkerRequest{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, "Ana Garcia", resp.Name)
	assert.Equal(t, &email, store["W1"].Email)
	assert.NotNil(t, store["W1"].FaceEncoding)

	_, err = svc.UpdateByExternalID(context.Background(), "W1", UpdateWorkerRequest{
		FaceEncoding: json.RawMessage(`null`),
	})
	assert.NoError(t, err)
	assert.Nil(t, store["W1"].FaceEncoding)

	_, err = svc.UpdateByExternalID(context.Background(), "GHOST", UpdateWorkerRequest{Name: &name})
	assert.True(t, errors.Is(err, workererrors.ErrWorkerNotFound))
}

func TestService_GetOptions_CachesInRedis(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()

	rows := []Worker{{ID: uuid.New(), ExternalID: "W1", Name: "Ana"}}
	calls := 0
	repo := &fakeRepo{
		findOptionsFn: func(ctx context.Context) ([]Worker, error) {
			calls++
			return rows, nil
		},
	}
	svc := NewService(nil, repo, &fakeEncoder{}, rdb)

	expected := []WorkerOptionResponse{{ID: rows[0].ID.String(), WorkerID: "W1", Name: "Ana"}}
	cached, _ := json.Marshal(expected)

	rmock.ExpectGet(WorkerOptionsKey).RedisNil()
	rmock.ExpectSet(WorkerOptionsKey, cached, 1*time.Hour).SetVal("OK")

	resp, err := svc.GetOptions(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, expected, resp)
	assert.Equal(t, 1, calls)

	rmock.ExpectGet(WorkerOptionsKey).SetVal(string(cached))
	resp, err = svc.GetOptions(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, expected, resp)
	assert.Equal(t, 1, calls)

	assert.NoError(t, rmock.ExpectationsWereMet())
}
