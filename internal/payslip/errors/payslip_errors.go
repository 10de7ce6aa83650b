package paysliperrors

import (
	"net/http"

	"go-ems/internal/shared/apperror"
)

var (
	ErrNonPositiveSalary = apperror.New(
		apperror.CodeInvalidInput,
		"base monthly salary must be greater than zero",
		http.StatusUnprocessableEntity,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidPayslipID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be 1-12 and year must be a 4 digit year",
		http.StatusBadRequest,
	)
	ErrPeriodAlreadyGenerated = apperror.New(
		apperror.CodeConflict,
		"payslip for this employee and period was generated concurrently",
		http.StatusConflict,
	)
	ErrPayslipNumberTaken = apperror.New(
		apperror.CodeConflict,
		"payslip number already exists",
		http.StatusConflict,
	)
)
