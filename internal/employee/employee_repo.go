package employee

import (
	"context"
	"database/sql"
	"strings"

	"gorm.io/gorm"
)

// ListFilter narrows FindAll. Zero value means no filtering.
type ListFilter struct {
	DepartmentID *int64
	Query        string
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context, filter ListFilter) ([]Employee, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, id int64) error
	DepartmentExists(ctx context.Context, id int64) (bool, error)
	DepartmentIDByName(ctx context.Context, name string) (int64, error)
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Employee, error) {
	var empls []Employee

	q := r.conn(ctx)
	if filter.DepartmentID != nil {
		q = q.Where("department_id = ?", *filter.DepartmentID)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	err := q.Order("id ASC").Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.conn(ctx).Delete(&Employee{}, "id = ?", id).Error
}

func (r *repository) DepartmentExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("departments").
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

// DepartmentIDByName resolves an assignment-rule department name against the
// live department table, case-insensitively.
func (r *repository) DepartmentIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.conn(ctx).
		Table("departments").
		Select("id").
		Where("LOWER(name) = LOWER(?)", name).
		Where("deleted_at IS NULL").
		Take(&id).Error
	return id, err
}
