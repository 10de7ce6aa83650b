package payslip

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-ems/internal/deptcheck"
	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"
	paysliperrors "go-ems/internal/payslip/errors"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/counter"

	"github.com/divan/num2words"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, req GeneratePayslipRequest) (PayslipResponse, error)
	GetByID(ctx context.Context, id int64) (PayslipResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]PayslipResponse, error)
	GetByEmployee(ctx context.Context, employeeID int64) ([]PayslipResponse, error)
	BuildPDF(ctx context.Context, id int64) ([]byte, string, error)
	BuildRegisterXLSX(ctx context.Context, month, year int) ([]byte, string, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	counter  counter.Repository
	outbox   kafka.OutboxRepository
	resolver *deptcheck.Resolver
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	resolver *deptcheck.Resolver,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, resolver, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	resolver *deptcheck.Resolver,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payslip.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counter:  counter,
		outbox:   outboxRepo,
		resolver: resolver,
		logger:   l,
	}
}

// Generate is at-most-once per (employee, month, year): an existing slip is
// returned unchanged without re-deriving from the employee's current salary.
// When two generations race past the pre-check, the unique index fails one
// of them and the caller sees a conflict, never a duplicate row.
func (s *service) Generate(
	ctx context.Context,
	req GeneratePayslipRequest,
) (PayslipResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("generate payslip requested",
		zap.String("request_id", rid),
		zap.Int64("employee_id", req.EmployeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	existing, err := s.repo.FindByEmployeeAndPeriod(ctx, req.EmployeeID, req.Month, req.Year)
	if err == nil {
		s.logger.Info("payslip already generated for period, returning existing",
			zap.String("request_id", rid),
			zap.Int64("payslip_id", existing.ID),
		)
		return s.toResponse(ctx, *existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("generate payslip period lookup failed", zap.Error(err))
		return PayslipResponse{}, mapRepositoryError(err)
	}

	empl, err := s.repo.FindEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, paysliperrors.ErrEmployeeNotFound
		}
		s.logger.Error("generate payslip employee fetch failed", zap.Error(err))
		return PayslipResponse{}, err
	}

	breakdown, err := CalculateBreakdown(empl.BaseMonthlySalary)
	if err != nil {
		// Calculation failure is fatal for this request and never retried.
		s.logger.Warn("payslip calculation rejected",
			zap.Int64("employee_id", empl.ID),
			zap.String("salary", empl.BaseMonthlySalary.String()),
			zap.Error(err),
		)
		return PayslipResponse{}, err
	}

	nextVal, err := s.counter.GetNextValue(ctx, counter.TypePayslipNumber)
	if err != nil {
		s.logger.Error("generate payslip number allocation failed", zap.Error(err))
		return PayslipResponse{}, err
	}

	slip := &Payslip{
		PayslipNumber:     fmt.Sprintf("PSL-%06d", nextVal),
		EmployeeID:        empl.ID,
		Month:             req.Month,
		Year:              req.Year,
		BaseMonthlySalary: empl.BaseMonthlySalary.Round(2),

		BasicPay:           breakdown.BasicPay,
		HRA:                breakdown.HRA,
		MedicalAllowance:   breakdown.MedicalAllowance,
		TransportAllowance: breakdown.TransportAllowance,
		OtherAllowances:    breakdown.OtherAllowances,
		GrossSalary:        breakdown.GrossSalary,

		PF:              breakdown.PF,
		ESI:             breakdown.ESI,
		TaxDeductions:   breakdown.TaxDeductions,
		OtherDeductions: breakdown.OtherDeductions,
		TotalDeductions: breakdown.TotalDeductions,

		NetSalary: breakdown.NetSalary,

		GeneratedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("generate payslip begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, slip); err != nil {
		s.logger.Error("generate payslip persist failed", zap.Error(err))
		return PayslipResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.PayslipGeneratedEvent{
			EventType:     "payslip.generated",
			PayslipID:     slip.ID,
			PayslipNumber: slip.PayslipNumber,
			EmployeeID:    slip.EmployeeID,
			Month:         slip.Month,
			Year:          slip.Year,
			OccurredAt:    time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return PayslipResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payslip",
			AggregateID:   fmt.Sprintf("%d", slip.ID),
			EventType:     event.EventType,
			Topic:         events.PayslipGeneratedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("generate payslip outbox persist failed",
				zap.Int64("payslip_id", slip.ID),
				zap.Error(err),
			)
			return PayslipResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return PayslipResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("generate payslip success",
		zap.String("request_id", rid),
		zap.Int64("payslip_id", slip.ID),
		zap.String("payslip_number", slip.PayslipNumber),
		zap.String("net_salary", slip.NetSalary.StringFixed(2)),
	)

	resp := s.toResponse(ctx, *slip)
	resp.EmployeeNumber = empl.EmployeeNumber
	resp.EmployeeName = empl.FirstName + " " + empl.LastName
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (PayslipResponse, error) {
	slip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get payslip by id failed", zap.Int64("payslip_id", id), zap.Error(err))
		return PayslipResponse{}, mapRepositoryError(err)
	}

	resp := s.toResponse(ctx, *slip)

	if empl, err := s.repo.FindEmployee(ctx, slip.EmployeeID); err == nil {
		resp.EmployeeNumber = empl.EmployeeNumber
		resp.EmployeeName = empl.FirstName + " " + empl.LastName
	}

	return resp, nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]PayslipResponse, error) {
	slips, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all payslips failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return s.toListResponse(ctx, slips), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID int64) ([]PayslipResponse, error) {
	if _, err := s.repo.FindEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paysliperrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	slips, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("get employee payslips failed",
			zap.Int64("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}

	return s.toListResponse(ctx, slips), nil
}

// BuildPDF renders one slip as a minimal single-page PDF and returns the
// bytes plus a download file name.
func (s *service) BuildPDF(ctx context.Context, id int64) ([]byte, string, error) {
	resp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	lines := []string{
		fmt.Sprintf("Payslip %s", resp.PayslipNumber),
		fmt.Sprintf("Employee: %s (%s)", resp.EmployeeName, resp.EmployeeNumber),
		fmt.Sprintf("Department: %s", resp.DepartmentName),
		fmt.Sprintf("Period: %02d/%d", resp.Month, resp.Year),
		"",
		fmt.Sprintf("Basic Pay: %s", resp.BasicPay),
		fmt.Sprintf("HRA: %s", resp.HRA),
		fmt.Sprintf("Medical Allowance: %s", resp.MedicalAllowance),
		fmt.Sprintf("Transport Allowance: %s", resp.TransportAllowance),
		fmt.Sprintf("Other Allowances: %s", resp.OtherAllowances),
		fmt.Sprintf("Gross Salary: %s", resp.GrossSalary),
		"",
		fmt.Sprintf("PF: %s", resp.PF),
		fmt.Sprintf("ESI: %s", resp.ESI),
		fmt.Sprintf("Tax: %s", resp.TaxDeductions),
		fmt.Sprintf("Other Deductions: %s", resp.OtherDeductions),
		fmt.Sprintf("Total Deductions: %s", resp.TotalDeductions),
		"",
		fmt.Sprintf("Net Salary: %s", resp.NetSalary),
		fmt.Sprintf("In words: %s", resp.NetSalaryWords),
	}

	pdf, err := buildSimplePayslipPDF(lines)
	if err != nil {
		return nil, "", err
	}

	fileName := fmt.Sprintf("%s.pdf", strings.ToLower(resp.PayslipNumber))
	return pdf, fileName, nil
}

func (s *service) BuildRegisterXLSX(ctx context.Context, month, year int) ([]byte, string, error) {
	entries, err := s.repo.ListRegister(ctx, month, year)
	if err != nil {
		s.logger.Error("payslip register query failed",
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Error(err),
		)
		return nil, "", mapRepositoryError(err)
	}

	rows := make([]RegisterRow, len(entries))
	for i, e := range entries {
		rows[i] = RegisterRow{
			PayslipNumber:  e.PayslipNumber,
			EmployeeNumber: e.EmployeeNumber,
			EmployeeName:   e.FirstName + " " + e.LastName,
			GrossSalary:    e.GrossSalary.StringFixed(2),
			TotalDeduction: e.TotalDeductions.StringFixed(2),
			NetSalary:      e.NetSalary.StringFixed(2),
		}
	}

	data, err := buildRegisterWorkbook(month, year, rows)
	if err != nil {
		return nil, "", err
	}

	fileName := fmt.Sprintf("payslip_register_%04d%02d.xlsx", year, month)
	return data, fileName, nil
}

// netSalaryWords spells out a monetary amount: whole units first, cents
// appended when present.
func netSalaryWords(amount decimal.Decimal) string {
	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	words := num2words.Convert(int(whole))
	if cents > 0 {
		words = fmt.Sprintf("%s and %s cents", words, num2words.Convert(int(cents)))
	}
	return words
}

func (s *service) toResponse(ctx context.Context, slip Payslip) PayslipResponse {
	deptName := ""
	if s.resolver != nil {
		if empl, err := s.repo.FindEmployee(ctx, slip.EmployeeID); err == nil {
			deptName, _ = s.resolver.Resolve(ctx, &deptcheck.EmployeeRef{
				EmployeeID:   empl.ID,
				DepartmentID: empl.DepartmentID,
			})
		}
	}

	return PayslipResponse{
		ID:             slip.ID,
		PayslipNumber:  slip.PayslipNumber,
		EmployeeID:     slip.EmployeeID,
		DepartmentName: deptName,
		Month:          slip.Month,
		Year:           slip.Year,

		BaseMonthlySalary: slip.BaseMonthlySalary.StringFixed(2),

		BasicPay:           slip.BasicPay.StringFixed(2),
		HRA:                slip.HRA.StringFixed(2),
		MedicalAllowance:   slip.MedicalAllowance.StringFixed(2),
		TransportAllowance: slip.TransportAllowance.StringFixed(2),
		OtherAllowances:    slip.OtherAllowances.StringFixed(2),
		GrossSalary:        slip.GrossSalary.StringFixed(2),

		PF:              slip.PF.StringFixed(2),
		ESI:             slip.ESI.StringFixed(2),
		TaxDeductions:   slip.TaxDeductions.StringFixed(2),
		OtherDeductions: slip.OtherDeductions.StringFixed(2),
		TotalDeductions: slip.TotalDeductions.StringFixed(2),

		NetSalary:      slip.NetSalary.StringFixed(2),
		NetSalaryWords: netSalaryWords(slip.NetSalary),

		GeneratedAt: slip.GeneratedAt.Format(time.RFC3339),
	}
}

func (s *service) toListResponse(ctx context.Context, slips []Payslip) []PayslipResponse {
	res := make([]PayslipResponse, len(slips))
	for i, slip := range slips {
		res[i] = s.toResponse(ctx, slip)
	}
	return res
}
