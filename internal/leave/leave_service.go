package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-ems/internal/events"
	leaveerrors "go-ems/internal/leave/errors"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// leaveTransitions is the workflow guard table. A status missing from the
// map is terminal.
var leaveTransitions = map[string][]string{
	StatusPending: {StatusApproved, StatusRejected, StatusCancelled},
}

func canTransition(from, to string) bool {
	for _, allowed := range leaveTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id int64) (LeaveResponse, error)
	Approve(ctx context.Context, id int64, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, id int64, req RejectLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, id int64) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("apply leave requested",
		zap.String("request_id", rid),
		zap.Int64("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
	)

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		s.logger.Error("apply leave employee check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("apply leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &Leave{
		EmployeeID: req.EmployeeID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  inclusiveDays(startDate, endDate),
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("apply leave success",
		zap.String("request_id", rid),
		zap.Int64("leave_id", l.ID),
		zap.Int("total_days", l.TotalDays),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, leaveerrors.ErrInvalidStatusFilter
	}

	leaves, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all leaves failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get leave by id failed", zap.Int64("leave_id", id), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, id int64, req ApproveLeaveRequest) (LeaveResponse, error) {
	return s.transition(ctx, id, StatusApproved, func(l *Leave) {
		now := time.Now().UTC()
		l.ApprovedBy = &req.ApprovedBy
		l.ApprovedAt = &now
	})
}

func (s *service) Reject(ctx context.Context, id int64, req RejectLeaveRequest) (LeaveResponse, error) {
	return s.transition(ctx, id, StatusRejected, func(l *Leave) {
		l.RejectionReason = &req.RejectionReason
	})
}

func (s *service) Cancel(ctx context.Context, id int64) (LeaveResponse, error) {
	return s.transition(ctx, id, StatusCancelled, nil)
}

// transition moves a leave to newStatus under the guard table, applying
// mutate to set decision fields. Approve and reject also queue a
// status-changed event in the same transaction.
func (s *service) transition(
	ctx context.Context,
	id int64,
	newStatus string,
	mutate func(l *Leave),
) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("leave transition requested",
		zap.String("request_id", rid),
		zap.Int64("leave_id", id),
		zap.String("new_status", newStatus),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave transition begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	oldStatus := l.Status
	if !canTransition(oldStatus, newStatus) {
		s.logger.Warn("leave transition rejected",
			zap.Int64("leave_id", id),
			zap.String("from", oldStatus),
			zap.String("to", newStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	l.Status = newStatus
	if mutate != nil {
		mutate(l)
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("leave transition persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	// Hanya keputusan (approve/reject) yang dipublikasikan keluar.
	if s.outbox != nil && (newStatus == StatusApproved || newStatus == StatusRejected) {
		event := events.LeaveStatusChangedEvent{
			EventType:  "leave.status_changed",
			LeaveID:    l.ID,
			EmployeeID: l.EmployeeID,
			OldStatus:  oldStatus,
			NewStatus:  newStatus,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return LeaveResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "leave",
			AggregateID:   fmt.Sprintf("%d", l.ID),
			EventType:     event.EventType,
			Topic:         events.LeaveStatusChangedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("leave transition outbox persist failed",
				zap.Int64("leave_id", l.ID),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave transition commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave transition success",
		zap.String("request_id", rid),
		zap.Int64("leave_id", l.ID),
		zap.String("from", oldStatus),
		zap.String("to", newStatus),
	)

	return mapToResponse(*l), nil
}

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// inclusiveDays counts both endpoints: a one-day leave has equal start and
// end dates.
func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		Status:          l.Status,
		ApprovedBy:      l.ApprovedBy,
		RejectionReason: l.RejectionReason,
	}

	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}

	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
