package department

import (
	"context"
	"errors"

	"go-ems/internal/deptcheck"

	"gorm.io/gorm"
)

type lookup struct {
	repo Repository
}

// NewLookup adapts the department repository to the consistency resolver's
// Lookup interface.
func NewLookup(repo Repository) deptcheck.Lookup {
	return &lookup{repo: repo}
}

func (l *lookup) DepartmentName(ctx context.Context, id int64) (string, error) {
	name, err := l.repo.NameByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", deptcheck.ErrDepartmentNotFound
		}
		return "", err
	}
	return name, nil
}
