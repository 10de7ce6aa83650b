package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=dashboard_repo.go -destination=mock/dashboard_repo_mock.go -package=mock
type Repository interface {
	CountEmployees(ctx context.Context) (int64, error)
	CountDepartments(ctx context.Context) (int64, error)
	CountPendingLeaves(ctx context.Context) (int64, error)
	CountPayslips(ctx context.Context, month, year int) (int64, error)
	SumNetPayroll(ctx context.Context, month, year int) (decimal.Decimal, error)
	CountUnassignedEmployees(ctx context.Context) (int64, error)
	DepartmentHeadcounts(ctx context.Context) ([]DepartmentHeadcount, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("employees").Count(&count).Error
	return count, err
}

func (r *repository) CountDepartments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count, err
}

func (r *repository) CountPendingLeaves(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leaves").
		Where("status = ?", "PENDING").
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count, err
}

func (r *repository) CountPayslips(ctx context.Context, month, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("payslips").
		Where("month = ? AND year = ?", month, year).
		Count(&count).Error
	return count, err
}

func (r *repository) SumNetPayroll(ctx context.Context, month, year int) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Table("payslips").
		Where("month = ? AND year = ?", month, year).
		Select("SUM(net_salary)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *repository) CountUnassignedEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("department_id IS NULL").
		Count(&count).Error
	return count, err
}

func (r *repository) DepartmentHeadcounts(ctx context.Context) ([]DepartmentHeadcount, error) {
	var rows []DepartmentHeadcount
	err := r.db.WithContext(ctx).
		Table("departments d").
		Select("d.id AS department_id, d.name AS department_name, COUNT(e.id) AS headcount").
		Joins("LEFT JOIN employees e ON e.department_id = d.id").
		Where("d.deleted_at IS NULL").
		Group("d.id, d.name").
		Order("d.name ASC").
		Scan(&rows).Error
	return rows, err
}
