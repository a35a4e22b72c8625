package worker_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Bdavid117/sioma-app/internal/worker"
	workererrors "github.com/Bdavid117/sioma-app/internal/worker/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	createFn     func(ctx context.Context, req worker.CreateWorkerRequest) (worker.WorkerResponse, error)
	bulkUpsertFn func(ctx context.Context, items []worker.WorkerItem) (worker.BulkUpsertResponse, error)
	getAllFn     func(ctx context.Context) ([]worker.WorkerResponse, error)
	getOptionsFn func(ctx context.Context) ([]worker.WorkerOptionResponse, error)
	getByIDFn    func(ctx context.Context, id string) (worker.WorkerResponse, error)
	updateFn     func(ctx context.Context, externalID string, req worker.UpdateWorkerRequest) (worker.WorkerResponse, error)
}

func (f *fakeService) Create(ctx context.Context, req worker.CreateWorkerRequest) (worker.WorkerResponse, error) {
	return f.createFn(ctx, req)
}
func (f *fakeService) BulkUpsert(ctx context.Context, items []worker.WorkerItem) (worker.BulkUpsertResponse, error) {
	return f.bulkUpsertFn(ctx, items)
}
func (f *fakeService) GetAll(ctx context.Context) ([]worker.WorkerResponse, error) {
	return f.getAllFn(ctx)
}
func (f *fakeService) GetOptions(ctx context.Context) ([]worker.WorkerOptionResponse, error) {
	return f.getOptionsFn(ctx)
}
func (f *fakeService) GetByID(ctx context.Context, id string) (worker.WorkerResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeService) UpdateByExternalID(ctx context.Context, externalID string, req worker.UpdateWorkerRequest) (worker.WorkerResponse, error) {
	return f.updateFn(ctx, externalID, req)
}

func performJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_BulkUpsert(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		bulkUpsertFn: func(ctx context.Context, items []worker.WorkerItem) (worker.BulkUpsertResponse, error) {
			assert.Len(t, items, 2)
			return worker.BulkUpsertResponse{
				Success: true,
				Created: 1,
				Updated: 1,
				Errors:  []string{},
			}, nil
		},
	}
	h := worker.NewHandler(svc)

	r := gin.New()
	r.POST("/workers/bulk_upsert", h.BulkUpsert)

	w := performJSON(r, http.MethodPost, "/workers/bulk_upsert", `{
		"workers": [
			{"worker_id": "W1", "name": "Ana"},
			{"worker_id": "W2", "name": "Luis"}
		]
	}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"created":1`)
	assert.Contains(t, w.Body.String(), `"updated":1`)
	assert.Contains(t, w.Body.String(), `"errors":[]`)
}

func TestHandler_BulkUpsert_EmptyBatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := worker.NewHandler(&fakeService{})

	r := gin.New()
	r.POST("/workers/bulk_upsert", h.BulkUpsert)

	for _, body := range []string{`{}`, `{"workers": []}`, `not json`} {
		w := performJSON(r, http.MethodPost, "/workers/bulk_upsert", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), "No hay trabajadores para procesar", body)
	}
}

func TestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		createFn: func(ctx context.Context, req worker.CreateWorkerRequest) (worker.WorkerResponse, error) {
			return worker.WorkerResponse{ID: "abc", WorkerID: req.WorkerID, Name: req.Name}, nil
		},
	}
	h := worker.NewHandler(svc)

	r := gin.New()
	r.POST("/workers", h.Create)

	w := performJSON(r, http.MethodPost, "/workers", `{"worker_id": "W1", "name": "Ana"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"worker_id":"W1"`)

	// binding rejects a missing name before the service is reached
	w = performJSON(r, http.MethodPost, "/workers", `{"worker_id": "W1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Create_Duplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		createFn: func(ctx context.Context, req worker.CreateWorkerRequest) (worker.WorkerResponse, error) {
			return worker.WorkerResponse{}, workererrors.ErrWorkerAlreadyExists
		},
	}
	h := worker.NewHandler(svc)

	r := gin.New()
	r.POST("/workers", h.Create)

	w := performJSON(r, http.MethodPost, "/workers", `{"worker_id": "W1", "name": "Ana"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Trabajador ya existe")
}

func TestHandler_GetAll_Paginates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		getAllFn: func(ctx context.Context) ([]worker.WorkerResponse, error) {
			return []worker.WorkerResponse{
				{WorkerID: "W1", Name: "Ana"},
				{WorkerID: "W2", Name: "Luis"},
				{WorkerID: "W3", Name: "Carlos"},
			}, nil
		},
	}
	h := worker.NewHandler(svc)

	r := gin.New()
	r.GET("/workers", h.GetAll)

	w := performJSON(r, http.MethodGet, "/workers?page=2&page_size=2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"W3"`)
	assert.NotContains(t, w.Body.String(), `"W1"`)
	assert.Contains(t, w.Body.String(), `"total":3`)
}

func TestHandler_GetById_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		getByIDFn: func(ctx context.Context, id string) (worker.WorkerResponse, error) {
			return worker.WorkerResponse{}, workererrors.ErrWorkerNotFound
		},
	}
	h := worker.NewHandler(svc)

	r := gin.New()
	r.GET("/workers/:id", h.GetById)

	w := performJSON(r, http.MethodGet, "/workers/"+"4f9c7e1a-0000-0000-0000-000000000000", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Trabajador no encontrado")
}
