package payslip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-ems/internal/payslip"
	paysliperrors "go-ems/internal/payslip/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakePayslipService struct {
	GenerateFn          func(ctx context.Context, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error)
	GetByIDFn           func(ctx context.Context, id int64) (payslip.PayslipResponse, error)
	GetAllFn            func(ctx context.Context, filter payslip.ListFilter) ([]payslip.PayslipResponse, error)
	GetByEmployeeFn     func(ctx context.Context, employeeID int64) ([]payslip.PayslipResponse, error)
	BuildPDFFn          func(ctx context.Context, id int64) ([]byte, string, error)
	BuildRegisterXLSXFn func(ctx context.Context, month, year int) ([]byte, string, error)
}

func (f *fakePayslipService) Generate(ctx context.Context, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
	return f.GenerateFn(ctx, req)
}
func (f *fakePayslipService) GetByID(ctx context.Context, id int64) (payslip.PayslipResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakePayslipService) GetAll(ctx context.Context, filter payslip.ListFilter) ([]payslip.PayslipResponse, error) {
	return f.GetAllFn(ctx, filter)
}
func (f *fakePayslipService) GetByEmployee(ctx context.Context, employeeID int64) ([]payslip.PayslipResponse, error) {
	return f.GetByEmployeeFn(ctx, employeeID)
}
func (f *fakePayslipService) BuildPDF(ctx context.Context, id int64) ([]byte, string, error) {
	return f.BuildPDFFn(ctx, id)
}
func (f *fakePayslipService) BuildRegisterXLSX(ctx context.Context, month, year int) ([]byte, string, error) {
	return f.BuildRegisterXLSXFn(ctx, month, year)
}

func TestPayslipHandler_Generate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakePayslipService{
			GenerateFn: func(ctx context.Context, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
				assert.Equal(t, int64(7), req.EmployeeID)
				return payslip.PayslipResponse{ID: 1, PayslipNumber: "PSL-000001"}, nil
			},
		}

		h := payslip.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":7,"month":3,"year":2026}`
		c.Request = httptest.NewRequest(http.MethodPost, "/payslips", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Generate(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "PSL-000001")
	})

	t.Run("validation error - month out of range", func(t *testing.T) {
		h := payslip.NewHandler(&fakePayslipService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":7,"month":13,"year":2026}`
		c.Request = httptest.NewRequest(http.MethodPost, "/payslips", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Generate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})

	t.Run("conflict from concurrent generation", func(t *testing.T) {
		svc := &fakePayslipService{
			GenerateFn: func(ctx context.Context, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
				return payslip.PayslipResponse{}, paysliperrors.ErrPeriodAlreadyGenerated
			},
		}

		h := payslip.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":7,"month":3,"year":2026}`
		c.Request = httptest.NewRequest(http.MethodPost, "/payslips", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Generate(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})

	t.Run("calculation error surfaces unprocessable", func(t *testing.T) {
		svc := &fakePayslipService{
			GenerateFn: func(ctx context.Context, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
				return payslip.PayslipResponse{}, paysliperrors.ErrNonPositiveSalary
			},
		}

		h := payslip.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":7,"month":3,"year":2026}`
		c.Request = httptest.NewRequest(http.MethodPost, "/payslips", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Generate(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestPayslipHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success with period filter", func(t *testing.T) {
		svc := &fakePayslipService{
			GetAllFn: func(ctx context.Context, filter payslip.ListFilter) ([]payslip.PayslipResponse, error) {
				if assert.NotNil(t, filter.Month) {
					assert.Equal(t, 3, *filter.Month)
				}
				if assert.NotNil(t, filter.Year) {
					assert.Equal(t, 2026, *filter.Year)
				}
				return []payslip.PayslipResponse{{ID: 1}, {ID: 2}}, nil
			},
		}

		h := payslip.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/payslips?month=3&year=2026", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid month", func(t *testing.T) {
		h := payslip.NewHandler(&fakePayslipService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/payslips?month=0", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPayslipHandler_GetById(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakePayslipService{
			GetByIDFn: func(ctx context.Context, id int64) (payslip.PayslipResponse, error) {
				return payslip.PayslipResponse{ID: id, PayslipNumber: "PSL-000005"}, nil
			},
		}

		h := payslip.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/payslips/5", nil)
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		h.GetById(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "PSL-000005")
	})

	t.Run("invalid id", func(t *testing.T) {
		h := payslip.NewHandler(&fakePayslipService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/payslips/abc", nil)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		h.GetById(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakePayslipService{
			GetByIDFn: func(ctx context.Context, id int64) (payslip.PayslipResponse, error) {
				return payslip.PayslipResponse{}, paysliperrors.ErrPayslipNotFound
			},
		}

		h := payslip.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/payslips/404", nil)
		c.Params = gin.Params{{Key: "id", Value: "404"}}

		h.GetById(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPayslipHandler_DownloadPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakePayslipService{
		BuildPDFFn: func(ctx context.Context, id int64) ([]byte, string, error) {
			return []byte("%PDF-1.4"), "psl-000005.pdf", nil
		},
	}

	h := payslip.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/payslips/5/pdf", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	h.DownloadPDF(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "psl-000005.pdf")
}

func TestPayslipHandler_ExportRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakePayslipService{
			BuildRegisterXLSXFn: func(ctx context.Context, month, year int) ([]byte, string, error) {
				assert.Equal(t, 3, month)
				assert.Equal(t, 2026, year)
				return []byte("xlsx-bytes"), "payslip_register_202603.xlsx", nil
			},
		}

		h := payslip.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/payslips/export?month=3&year=2026", nil)

		h.ExportRegister(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "payslip_register_202603.xlsx")
	})

	t.Run("missing period", func(t *testing.T) {
		h := payslip.NewHandler(&fakePayslipService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/payslips/export", nil)

		h.ExportRegister(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
