package apperror_test

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"go-ems/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type applyForm struct {
	EmployeeID int64  `json:"employee_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
}

// newTestValidator mirrors the tag-name func Init registers on gin's
// validator, so error messages carry json field names.
func newTestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func TestMapValidationError_RequiredField(t *testing.T) {
	v := newTestValidator()

	err := v.Struct(applyForm{})
	require.Error(t, err)

	mapped := apperror.MapValidationError(err)

	var appErr *apperror.AppError
	require.True(t, errors.As(mapped, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Equal(t, "Employee Id is required", appErr.Message)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestMapValidationError_InvalidField(t *testing.T) {
	v := newTestValidator()

	err := v.Struct(applyForm{
		EmployeeID: 7,
		StartDate:  "2026-04-06",
		Email:      "bukan-email",
	})
	require.Error(t, err)

	mapped := apperror.MapValidationError(err)

	var appErr *apperror.AppError
	require.True(t, errors.As(mapped, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Equal(t, "Email is invalid", appErr.Message)
}

func TestMapValidationError_NonValidatorError(t *testing.T) {
	mapped := apperror.MapValidationError(errors.New("unexpected EOF"))

	var appErr *apperror.AppError
	require.True(t, errors.As(mapped, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Equal(t, "Invalid input", appErr.Message)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}
