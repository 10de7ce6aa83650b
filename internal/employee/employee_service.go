package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-ems/internal/deptcheck"
	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const EmployeeCacheKeyPrefix = "employees:id:"

func GetEmployeeCacheKey(id int64) string {
	return fmt.Sprintf("%s%d", EmployeeCacheKeyPrefix, id)
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id int64) (EmployeeResponse, error)
	Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id int64) error
	CheckConsistency(ctx context.Context) (ConsistencyReport, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	counter  counter.Repository
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	resolver *deptcheck.Resolver
	rules    []AssignmentRule
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	rdb *redis.Client,
	resolver *deptcheck.Resolver,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, rdb, resolver, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	resolver *deptcheck.Resolver,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counter:  counter,
		outbox:   outboxRepo,
		rdb:      rdb,
		resolver: resolver,
		rules:    DefaultAssignmentRules,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(
	ctx context.Context,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid), // Propagasi ke logs
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	if !req.BaseMonthlySalary.IsPositive() {
		s.logger.Warn("create employee non-positive salary",
			zap.String("salary", req.BaseMonthlySalary.String()),
		)
		return EmployeeResponse{}, employeeerrors.ErrInvalidSalary
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		s.logger.Warn("create employee invalid hire_date",
			zap.String("hire_date", req.HireDate),
			zap.Error(err),
		)
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	departmentID, err := s.resolveDepartment(ctx, qtx, req.DepartmentID, req.Role)
	if err != nil {
		return EmployeeResponse{}, err
	}

	nextVal, err := s.counter.GetNextValue(ctx, counter.TypeEmployeeNumber)
	if err != nil {
		s.logger.Error("create employee generate number failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	emplNumber := fmt.Sprintf("EMP-%06d", nextVal)

	empl := &Employee{
		EmployeeNumber:    emplNumber,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		Role:              req.Role,
		BaseMonthlySalary: req.BaseMonthlySalary.Round(2),
		DepartmentID:      departmentID,
		HireDate:          hireDate,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:      "employee.created",
			EmployeeID:     empl.ID,
			EmployeeNumber: empl.EmployeeNumber,
			DepartmentID:   empl.DepartmentID,
			OccurredAt:     time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid, // Propagasi ke async events
			AggregateType: "employee",
			AggregateID:   fmt.Sprintf("%d", empl.ID),
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.Int64("employee_id", empl.ID),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	if s.outbox != nil {
		s.logger.Info("create employee outbox queued",
			zap.Int64("employee_id", empl.ID),
		)
	}
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.Int64("employee_id", empl.ID),
		zap.String("employee_number", empl.EmployeeNumber),
	)

	return s.toResponse(ctx, *empl), nil
}

// resolveDepartment applies the department rules on intake: an explicit
// non-positive id is rejected, an explicit id that does not resolve is
// stored as NULL, and an absent id falls through to the role-keyword
// assignment table.
func (s *service) resolveDepartment(
	ctx context.Context,
	repo Repository,
	requested *int64,
	role string,
) (*int64, error) {
	if requested != nil {
		if *requested <= 0 {
			s.logger.Warn("employee department id non-positive",
				zap.Int64("department_id", *requested),
			)
			return nil, employeeerrors.ErrInvalidDepartmentRef
		}

		exists, err := repo.DepartmentExists(ctx, *requested)
		if err != nil {
			s.logger.Error("employee department existence check failed", zap.Error(err))
			return nil, err
		}
		if !exists {
			// Referensi tidak resolve: simpan sebagai unassigned.
			s.logger.Warn("employee department does not resolve, storing unassigned",
				zap.Int64("department_id", *requested),
			)
			return nil, nil
		}
		return requested, nil
	}

	deptName, ok := MatchDepartment(s.rules, role)
	if !ok {
		return nil, nil
	}

	id, err := repo.DepartmentIDByName(ctx, deptName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("assignment rule department missing, leaving unassigned",
				zap.String("department", deptName),
			)
			return nil, nil
		}
		s.logger.Error("assignment rule department lookup failed", zap.Error(err))
		return nil, err
	}

	s.logger.Debug("employee auto-assigned by role keywords",
		zap.String("role", role),
		zap.String("department", deptName),
	)
	return &id, nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("q", filter.Query))
	empls, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return s.toListResponse(ctx, empls), nil
}

func (s *service) GetByID(ctx context.Context, id int64) (EmployeeResponse, error) {
	cacheKey := GetEmployeeCacheKey(id)

	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight supaya cache miss yang rame tidak membanjiri DB
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		empl, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := s.toResponse(ctx, *empl)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return EmployeeResponse{}, err
	}

	return v.(EmployeeResponse), nil
}

func (s *service) Update(
	ctx context.Context,
	id int64,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.Int64("employee_id", id),
		zap.String("email", req.Email),
	)

	if !req.BaseMonthlySalary.IsPositive() {
		return EmployeeResponse{}, employeeerrors.ErrInvalidSalary
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	// Update adalah full replace; department_id null berarti unassign,
	// tabel role-keyword hanya berlaku saat intake.
	var departmentID *int64
	if req.DepartmentID != nil {
		if *req.DepartmentID <= 0 {
			return EmployeeResponse{}, employeeerrors.ErrInvalidDepartmentRef
		}
		exists, err := qtx.DepartmentExists(ctx, *req.DepartmentID)
		if err != nil {
			s.logger.Error("update employee department check failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		if exists {
			departmentID = req.DepartmentID
		} else {
			s.logger.Warn("update employee department does not resolve, storing unassigned",
				zap.Int64("department_id", *req.DepartmentID),
			)
		}
	}

	empl.FirstName = req.FirstName
	empl.LastName = req.LastName
	empl.Email = req.Email
	empl.Phone = req.Phone
	empl.Role = req.Role
	empl.BaseMonthlySalary = req.BaseMonthlySalary.Round(2)
	empl.DepartmentID = departmentID

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateEmployeeCache(ctx, id)

	s.logger.Info("update employee success", zap.Int64("employee_id", id))

	return s.toResponse(ctx, *empl), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("delete employee requested", zap.Int64("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		s.logger.Error("delete employee fetch existing failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateEmployeeCache(ctx, id)

	s.logger.Info("delete employee success", zap.Int64("employee_id", id))
	return nil
}

// CheckConsistency scans every employee and classifies its department
// reference. Non-fatal issues land in the report; the scan itself only fails
// on repository errors.
func (s *service) CheckConsistency(ctx context.Context) (ConsistencyReport, error) {
	empls, err := s.repo.FindAll(ctx, ListFilter{})
	if err != nil {
		s.logger.Error("consistency scan failed", zap.Error(err))
		return ConsistencyReport{}, mapRepositoryError(err)
	}

	report := ConsistencyReport{
		Rows:    make([]ConsistencyRow, 0, len(empls)),
		Totals:  make(map[string]int),
		Checked: len(empls),
	}

	for i := range empls {
		empl := &empls[i]
		name, issue, _ := s.resolver.ResolveWithIssue(ctx, &deptcheck.EmployeeRef{
			EmployeeID:   empl.ID,
			DepartmentID: empl.DepartmentID,
		})

		row := ConsistencyRow{
			EmployeeID:     empl.ID,
			EmployeeName:   empl.FirstName + " " + empl.LastName,
			DepartmentID:   empl.DepartmentID,
			Issue:          string(issue),
			DepartmentName: name,
		}
		report.Rows = append(report.Rows, row)

		if issue != "" {
			report.Totals[string(issue)]++
		}
	}

	s.logger.Info("consistency scan finished",
		zap.Int("checked", report.Checked),
		zap.Int("issues", len(report.Rows)-countClean(report)),
	)

	return report, nil
}

func countClean(report ConsistencyReport) int {
	clean := len(report.Rows)
	for _, n := range report.Totals {
		clean -= n
	}
	return clean
}

func (s *service) invalidateEmployeeCache(ctx context.Context, id int64) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeCacheKey(id)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

// toResponse resolves the display department name through the consistency
// resolver; inconsistent references degrade to the fallback name instead of
// failing the request.
func (s *service) toResponse(ctx context.Context, empl Employee) EmployeeResponse {
	deptName := deptcheck.FallbackName
	if s.resolver != nil {
		deptName, _ = s.resolver.Resolve(ctx, &deptcheck.EmployeeRef{
			EmployeeID:   empl.ID,
			DepartmentID: empl.DepartmentID,
		})
	}

	return EmployeeResponse{
		ID:                empl.ID,
		EmployeeNumber:    empl.EmployeeNumber,
		FirstName:         empl.FirstName,
		LastName:          empl.LastName,
		Email:             empl.Email,
		Phone:             empl.Phone,
		Role:              empl.Role,
		BaseMonthlySalary: empl.BaseMonthlySalary.StringFixed(2),
		DepartmentID:      empl.DepartmentID,
		DepartmentName:    deptName,
		HireDate:          empl.HireDate.Format("2006-01-02"),
	}
}

func (s *service) toListResponse(ctx context.Context, empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = s.toResponse(ctx, e)
	}
	return res
}
