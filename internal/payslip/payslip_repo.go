package payslip

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// ListFilter narrows FindAll. Zero value means no filtering.
type ListFilter struct {
	Month *int
	Year  *int
}

// RegisterEntry is the join row backing the xlsx register export.
type RegisterEntry struct {
	Payslip
	EmployeeNumber string
	FirstName      string
	LastName       string
}

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, slip *Payslip) error
	FindByID(ctx context.Context, id int64) (*Payslip, error)
	FindByEmployeeAndPeriod(ctx context.Context, employeeID int64, month, year int) (*Payslip, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Payslip, error)
	FindAllByEmployee(ctx context.Context, employeeID int64) ([]Payslip, error)
	FindEmployee(ctx context.Context, employeeID int64) (*PayslipEmployee, error)
	ListRegister(ctx context.Context, month, year int) ([]RegisterEntry, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn returns a session bound to the service-level transaction when one is
// active; *sql.Tx satisfies gorm.ConnPool.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, slip *Payslip) error {
	return r.conn(ctx).Create(slip).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Payslip, error) {
	var slip Payslip
	err := r.conn(ctx).First(&slip, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &slip, nil
}

func (r *repository) FindByEmployeeAndPeriod(
	ctx context.Context,
	employeeID int64,
	month, year int,
) (*Payslip, error) {
	var slip Payslip
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("month = ?", month).
		Where("year = ?", year).
		First(&slip).Error
	if err != nil {
		return nil, err
	}
	return &slip, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Payslip, error) {
	var slips []Payslip

	q := r.conn(ctx)
	if filter.Month != nil {
		q = q.Where("month = ?", *filter.Month)
	}
	if filter.Year != nil {
		q = q.Where("year = ?", *filter.Year)
	}

	err := q.Order("year DESC, month DESC, id ASC").Find(&slips).Error
	return slips, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID int64) ([]Payslip, error) {
	var slips []Payslip
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("year DESC, month DESC").
		Find(&slips).Error
	return slips, err
}

func (r *repository) FindEmployee(ctx context.Context, employeeID int64) (*PayslipEmployee, error) {
	var empl PayslipEmployee
	err := r.conn(ctx).First(&empl, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) ListRegister(ctx context.Context, month, year int) ([]RegisterEntry, error) {
	var entries []RegisterEntry
	err := r.conn(ctx).
		Table("payslips").
		Select("payslips.*, employees.employee_number, employees.first_name, employees.last_name").
		Joins("JOIN employees ON employees.id = payslips.employee_id").
		Where("payslips.month = ?", month).
		Where("payslips.year = ?", year).
		Order("payslips.payslip_number ASC").
		Scan(&entries).Error
	return entries, err
}
