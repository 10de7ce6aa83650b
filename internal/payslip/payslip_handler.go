package payslip

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	paysliperrors "go-ems/internal/payslip/errors"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payslip.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	contextutil.GetLogger(c.Request.Context(), h.logger).Warn("payslip request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func parsePayslipID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parsePeriod reads month/year query params. required=false leaves absent
// values nil for an unfiltered list.
func parsePeriod(c *gin.Context, required bool) (*int, *int, bool) {
	var month, year *int

	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return nil, nil, false
		}
		month = &m
	}
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 2100 {
			return nil, nil, false
		}
		year = &y
	}

	if required && (month == nil || year == nil) {
		return nil, nil, false
	}
	return month, year, true
}

func (h *Handler) Generate(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	h.logger.Debug("http generate payslip")
	var req GeneratePayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	h.logger.Debug("http get all payslips")

	month, year, ok := parsePeriod(c, false)
	if !ok {
		h.writeServiceError(c, paysliperrors.ErrInvalidPeriod)
		return
	}

	resp, err := h.service.GetAll(ctx, ListFilter{Month: month, Year: year})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if pageSize < 1 {
		pageSize = 10
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

func (h *Handler) GetById(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parsePayslipID(c)
	if !ok {
		h.writeServiceError(c, paysliperrors.ErrInvalidPayslipID)
		return
	}
	h.logger.Debug("http get payslip by id", zap.Int64("payslip_id", id))

	resp, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || employeeID <= 0 {
		h.writeServiceError(c, paysliperrors.ErrInvalidEmployeeID)
		return
	}
	h.logger.Debug("http get employee payslips", zap.Int64("employee_id", employeeID))

	resp, err := h.service.GetByEmployee(ctx, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DownloadPDF(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parsePayslipID(c)
	if !ok {
		h.writeServiceError(c, paysliperrors.ErrInvalidPayslipID)
		return
	}
	h.logger.Debug("http download payslip pdf", zap.Int64("payslip_id", id))

	pdf, fileName, err := h.service.BuildPDF(ctx, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) ExportRegister(c *gin.Context) {
	ctx := c.Request.Context()

	month, year, ok := parsePeriod(c, true)
	if !ok {
		h.writeServiceError(c, paysliperrors.ErrInvalidPeriod)
		return
	}
	h.logger.Debug("http export payslip register", zap.Int("month", *month), zap.Int("year", *year))

	data, fileName, err := h.service.BuildRegisterXLSX(ctx, *month, *year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
