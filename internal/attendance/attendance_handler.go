package attendance

import (
	"net/http"
	"strconv"

	"github.com/Bdavid117/sioma-app/internal/shared/apperror"
	"github.com/Bdavid117/sioma-app/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Sync ingests a device batch. A missing or empty records list is the only
// batch-fatal condition; item failures come back in the errors list.
func (h *Handler) Sync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Records) == 0 {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "No hay registros para sincronizar", nil)
		return
	}

	deviceID := c.GetString("device_id")
	resp, err := h.service.Sync(c.Request.Context(), deviceID, req.Records)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Query(c *gin.Context) {
	req := QueryRequest{
		WorkerID:  c.Query("worker_id"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	resp, err := h.service.Query(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if pageSize < 1 {
		pageSize = 50
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}
