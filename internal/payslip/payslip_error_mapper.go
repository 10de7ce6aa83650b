package payslip

import (
	"errors"
	"net/http"
	"strings"

	paysliperrors "go-ems/internal/payslip/errors"
	"go-ems/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return paysliperrors.ErrPayslipNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_payslip_employee_period":
				return paysliperrors.ErrPeriodAlreadyGenerated
			case "uq_payslip_number":
				return paysliperrors.ErrPayslipNumberTaken
			default:
				// Constraint yang tidak dikenal tetap 409, cause aslinya dipertahankan.
				return apperror.Wrap(err, apperror.CodeConflict, "Duplicate value violates a unique constraint", http.StatusConflict)
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_payslip_employee_period") {
		return paysliperrors.ErrPeriodAlreadyGenerated
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_payslip_number") {
		return paysliperrors.ErrPayslipNumberTaken
	}

	return err
}
