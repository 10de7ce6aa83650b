package leave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-ems/internal/leave"
	leaveerrors "go-ems/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveService struct {
	ApplyFn   func(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error)
	GetAllFn  func(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveResponse, error)
	GetByIDFn func(ctx context.Context, id int64) (leave.LeaveResponse, error)
	ApproveFn func(ctx context.Context, id int64, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error)
	RejectFn  func(ctx context.Context, id int64, req leave.RejectLeaveRequest) (leave.LeaveResponse, error)
	CancelFn  func(ctx context.Context, id int64) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	return f.ApplyFn(ctx, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
	return f.GetAllFn(ctx, filter)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id int64) (leave.LeaveResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeLeaveService) Approve(ctx context.Context, id int64, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	return f.ApproveFn(ctx, id, req)
}
func (f *fakeLeaveService) Reject(ctx context.Context, id int64, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	return f.RejectFn(ctx, id, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, id int64) (leave.LeaveResponse, error) {
	return f.CancelFn(ctx, id)
}

func TestLeaveHandler_Apply(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			ApplyFn: func(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, int64(7), req.EmployeeID)
				assert.Equal(t, "ANNUAL", req.LeaveType)
				return leave.LeaveResponse{ID: 31, Status: "PENDING"}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":7,"leave_type":"ANNUAL","start_date":"2026-04-06","end_date":"2026-04-10","reason":"Mudik"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Apply(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "PENDING")
	})

	t.Run("validation error - unknown leave type", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":7,"leave_type":"SABBATICAL","start_date":"2026-04-06","end_date":"2026-04-10"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Apply(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})

	t.Run("overlap surfaces conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			ApplyFn: func(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":7,"leave_type":"ANNUAL","start_date":"2026-04-06","end_date":"2026-04-10"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Apply(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("filters passed through", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetAllFn: func(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
				assert.Equal(t, "PENDING", filter.Status)
				assert.NotNil(t, filter.EmployeeID)
				assert.Equal(t, int64(7), *filter.EmployeeID)
				return []leave.LeaveResponse{{ID: 31, Status: "PENDING"}}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?status=pending&employee_id=7", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid employee_id", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?employee_id=abc", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetAllFn: func(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
				return nil, leaveerrors.ErrInvalidStatusFilter
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?status=WAITING", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_GetById(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetByIDFn: func(ctx context.Context, id int64) (leave.LeaveResponse, error) {
				assert.Equal(t, int64(31), id)
				return leave.LeaveResponse{ID: 31, Status: "PENDING"}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/31", nil)
		c.Params = gin.Params{{Key: "id", Value: "31"}}

		h.GetById(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/abc", nil)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		h.GetById(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetByIDFn: func(ctx context.Context, id int64) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/404", nil)
		c.Params = gin.Params{{Key: "id", Value: "404"}}

		h.GetById(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			ApproveFn: func(ctx context.Context, id int64, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, int64(31), id)
				assert.Equal(t, int64(5), req.ApprovedBy)
				return leave.LeaveResponse{ID: 31, Status: "APPROVED"}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/31/approve", strings.NewReader(`{"approved_by":5}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "31"}}

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "APPROVED")
	})

	t.Run("missing approver", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/31/approve", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "31"}}

		h.Approve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("guard violation surfaces invalid state", func(t *testing.T) {
		svc := &fakeLeaveService{
			ApproveFn: func(ctx context.Context, id int64, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/31/approve", strings.NewReader(`{"approved_by":5}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "31"}}

		h.Approve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_STATE")
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			RejectFn: func(ctx context.Context, id int64, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "Kuota habis", req.RejectionReason)
				return leave.LeaveResponse{ID: 31, Status: "REJECTED"}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/31/reject", strings.NewReader(`{"rejection_reason":"Kuota habis"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "31"}}

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "REJECTED")
	})

	t.Run("alasan wajib diisi", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/31/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "31"}}

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			CancelFn: func(ctx context.Context, id int64) (leave.LeaveResponse, error) {
				assert.Equal(t, int64(31), id)
				return leave.LeaveResponse{ID: 31, Status: "CANCELLED"}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/31/cancel", nil)
		c.Params = gin.Params{{Key: "id", Value: "31"}}

		h.Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "CANCELLED")
	})
}
