package leave_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-ems/internal/events"
	"go-ems/internal/leave"
	leaveerrors "go-ems/internal/leave/errors"
	"go-ems/internal/messaging/kafka"

	kafkaMock "go-ems/internal/messaging/kafka/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn               func(tx *sql.Tx) leave.Repository
	createFn               func(ctx context.Context, l *leave.Leave) error
	findAllFn              func(ctx context.Context, filter leave.ListFilter) ([]leave.Leave, error)
	findByIDFn             func(ctx context.Context, id int64) (*leave.Leave, error)
	updateFn               func(ctx context.Context, l *leave.Leave) error
	employeeExistsFn       func(ctx context.Context, employeeID int64) (bool, error)
	hasOverlappingPeriodFn func(ctx context.Context, employeeID int64, startDate, endDate time.Time, excludeID *int64) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, filter leave.ListFilter) ([]leave.Leave, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id int64) (*leave.Leave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	if f.employeeExistsFn != nil {
		return f.employeeExistsFn(ctx, employeeID)
	}
	return true, nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, employeeID int64, startDate, endDate time.Time, excludeID *int64) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, employeeID, startDate, endDate, excludeID)
	}
	return false, nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	outbox  *kafkaMock.MockOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := leave.NewServiceWithOutbox(db, repo, outboxRepo)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outboxRepo,
	}
}

func expectLeaveTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func pendingLeave() *leave.Leave {
	return &leave.Leave{
		ID:         31,
		EmployeeID: 7,
		LeaveType:  "ANNUAL",
		StartDate:  time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		TotalDays:  5,
		Reason:     "Mudik lebaran",
		Status:     leave.StatusPending,
	}
}

func TestLeaveService_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.createFn = func(_ context.Context, l *leave.Leave) error {
			assert.Equal(t, int64(7), l.EmployeeID)
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Equal(t, 5, l.TotalDays)
			l.ID = 31
			return nil
		}

		expectLeaveTx(t, deps.sqlMock, true)

		resp, err := deps.service.Apply(ctx, leave.ApplyLeaveRequest{
			EmployeeID: 7,
			LeaveType:  "ANNUAL",
			StartDate:  "2026-04-06",
			EndDate:    "2026-04-10",
			Reason:     "Mudik lebaran",
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(31), resp.ID)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, 5, resp.TotalDays)
		assert.Equal(t, "2026-04-06", resp.StartDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("cuti satu hari dihitung satu hari penuh", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.createFn = func(_ context.Context, l *leave.Leave) error {
			assert.Equal(t, 1, l.TotalDays)
			return nil
		}

		expectLeaveTx(t, deps.sqlMock, true)

		resp, err := deps.service.Apply(ctx, leave.ApplyLeaveRequest{
			EmployeeID: 7,
			LeaveType:  "SICK",
			StartDate:  "2026-04-06",
			EndDate:    "2026-04-06",
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.TotalDays)
	})

	t.Run("invalid date format", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Apply(ctx, leave.ApplyLeaveRequest{
			EmployeeID: 7,
			LeaveType:  "ANNUAL",
			StartDate:  "06-04-2026",
			EndDate:    "2026-04-10",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("start after end", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Apply(ctx, leave.ApplyLeaveRequest{
			EmployeeID: 7,
			LeaveType:  "ANNUAL",
			StartDate:  "2026-04-10",
			EndDate:    "2026-04-06",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.employeeExistsFn = func(_ context.Context, id int64) (bool, error) {
			assert.Equal(t, int64(99), id)
			return false, nil
		}

		expectLeaveTx(t, deps.sqlMock, false)

		_, err := deps.service.Apply(ctx, leave.ApplyLeaveRequest{
			EmployeeID: 99,
			LeaveType:  "ANNUAL",
			StartDate:  "2026-04-06",
			EndDate:    "2026-04-10",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("periode tumpang tindih ditolak", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.hasOverlappingPeriodFn = func(_ context.Context, employeeID int64, startDate, endDate time.Time, excludeID *int64) (bool, error) {
			assert.Equal(t, int64(7), employeeID)
			assert.Nil(t, excludeID)
			return true, nil
		}

		expectLeaveTx(t, deps.sqlMock, false)

		_, err := deps.service.Apply(ctx, leave.ApplyLeaveRequest{
			EmployeeID: 7,
			LeaveType:  "ANNUAL",
			StartDate:  "2026-04-06",
			EndDate:    "2026-04-10",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("success publishes status change", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(_ context.Context, id int64) (*leave.Leave, error) {
			assert.Equal(t, int64(31), id)
			return pendingLeave(), nil
		}
		deps.repo.updateFn = func(_ context.Context, l *leave.Leave) error {
			assert.Equal(t, leave.StatusApproved, l.Status)
			assert.NotNil(t, l.ApprovedBy)
			assert.Equal(t, int64(5), *l.ApprovedBy)
			assert.NotNil(t, l.ApprovedAt)
			return nil
		}

		expectLeaveTx(t, deps.sqlMock, true)

		deps.outbox.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.outbox)

		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event kafka.OutboxEvent) error {
				assert.Equal(t, events.LeaveStatusChangedTopic, event.Topic)
				assert.Equal(t, "leave", event.AggregateType)
				assert.Equal(t, "31", event.AggregateID)
				assert.Equal(t, kafka.OutboxStatusPending, event.Status)

				var payload events.LeaveStatusChangedEvent
				assert.NoError(t, json.Unmarshal(event.Payload, &payload))
				assert.Equal(t, int64(31), payload.LeaveID)
				assert.Equal(t, "PENDING", payload.OldStatus)
				assert.Equal(t, "APPROVED", payload.NewStatus)
				return nil
			}).
			Times(1)

		resp, err := deps.service.Approve(ctx, 31, leave.ApproveLeaveRequest{ApprovedBy: 5})

		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.NotNil(t, resp.ApprovedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already approved", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(_ context.Context, id int64) (*leave.Leave, error) {
			l := pendingLeave()
			l.Status = leave.StatusApproved
			return l, nil
		}

		expectLeaveTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, 31, leave.ApproveLeaveRequest{ApprovedBy: 5})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectLeaveTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, 404, leave.ApproveLeaveRequest{ApprovedBy: 5})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("success records reason and publishes", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(_ context.Context, id int64) (*leave.Leave, error) {
			return pendingLeave(), nil
		}
		deps.repo.updateFn = func(_ context.Context, l *leave.Leave) error {
			assert.Equal(t, leave.StatusRejected, l.Status)
			assert.NotNil(t, l.RejectionReason)
			assert.Equal(t, "Kuota tim sudah habis", *l.RejectionReason)
			return nil
		}

		expectLeaveTx(t, deps.sqlMock, true)

		deps.outbox.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.outbox)

		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event kafka.OutboxEvent) error {
				var payload events.LeaveStatusChangedEvent
				assert.NoError(t, json.Unmarshal(event.Payload, &payload))
				assert.Equal(t, "REJECTED", payload.NewStatus)
				return nil
			}).
			Times(1)

		resp, err := deps.service.Reject(ctx, 31, leave.RejectLeaveRequest{
			RejectionReason: "Kuota tim sudah habis",
		})

		assert.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("cancelled leave cannot be rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(_ context.Context, id int64) (*leave.Leave, error) {
			l := pendingLeave()
			l.Status = leave.StatusCancelled
			return l, nil
		}

		expectLeaveTx(t, deps.sqlMock, false)

		_, err := deps.service.Reject(ctx, 31, leave.RejectLeaveRequest{RejectionReason: "x"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("success without event", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(_ context.Context, id int64) (*leave.Leave, error) {
			return pendingLeave(), nil
		}
		deps.repo.updateFn = func(_ context.Context, l *leave.Leave) error {
			assert.Equal(t, leave.StatusCancelled, l.Status)
			return nil
		}

		expectLeaveTx(t, deps.sqlMock, true)

		// Tidak ada ekspektasi outbox: cancel murni internal.
		resp, err := deps.service.Cancel(ctx, 31)

		assert.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejected leave cannot be cancelled", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(_ context.Context, id int64) (*leave.Leave, error) {
			l := pendingLeave()
			l.Status = leave.StatusRejected
			return l, nil
		}

		expectLeaveTx(t, deps.sqlMock, false)

		_, err := deps.service.Cancel(ctx, 31)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("passes filter through", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(_ context.Context, filter leave.ListFilter) ([]leave.Leave, error) {
			assert.Equal(t, "PENDING", filter.Status)
			assert.NotNil(t, filter.EmployeeID)
			assert.Equal(t, int64(7), *filter.EmployeeID)
			return []leave.Leave{*pendingLeave()}, nil
		}

		employeeID := int64(7)
		resp, err := deps.service.GetAll(ctx, leave.ListFilter{
			EmployeeID: &employeeID,
			Status:     "PENDING",
		})

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, int64(31), resp[0].ID)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetAll(ctx, leave.ListFilter{Status: "WAITING"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusFilter)
	})

	t.Run("repo failure surfaces", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(_ context.Context, _ leave.ListFilter) ([]leave.Leave, error) {
			return nil, errors.New("koneksi putus")
		}

		_, err := deps.service.GetAll(ctx, leave.ListFilter{})
		assert.Error(t, err)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(_ context.Context, id int64) (*leave.Leave, error) {
			return pendingLeave(), nil
		}

		resp, err := deps.service.GetByID(ctx, 31)

		assert.NoError(t, err)
		assert.Equal(t, "ANNUAL", resp.LeaveType)
		assert.Equal(t, "2026-04-10", resp.EndDate)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, 404)
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}
