package department

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=department_repo.go -destination=mock/department_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, dept *Department) error
	FindAll(ctx context.Context) ([]Department, error)
	FindByID(ctx context.Context, id int64) (*Department, error)
	NameByID(ctx context.Context, id int64) (string, error)
	Update(ctx context.Context, dept *Department) error
	Delete(ctx context.Context, id int64) error
	UnassignEmployees(ctx context.Context, departmentID int64) (int64, error)
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

func (r *repository) Create(ctx context.Context, dept *Department) error {
	return r.conn(ctx).Create(dept).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Department, error) {
	var depts []Department
	err := r.conn(ctx).Order("name ASC").Find(&depts).Error
	return depts, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Department, error) {
	var dept Department
	err := r.conn(ctx).First(&dept, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *repository) NameByID(ctx context.Context, id int64) (string, error) {
	var name string
	err := r.conn(ctx).
		Model(&Department{}).
		Select("name").
		Where("id = ?", id).
		Take(&name).Error
	return name, err
}

func (r *repository) Update(ctx context.Context, dept *Department) error {
	return r.conn(ctx).Save(dept).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.conn(ctx).Delete(&Department{}, "id = ?", id).Error
}

// UnassignEmployees clears the department reference on every employee that
// still points at the department being removed, so their records read as
// validly unassigned instead of dangling.
func (r *repository) UnassignEmployees(ctx context.Context, departmentID int64) (int64, error) {
	res := r.conn(ctx).
		Table("employees").
		Where("department_id = ?", departmentID).
		Update("department_id", nil)
	return res.RowsAffected, res.Error
}
