package deptcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// FallbackName is what callers display whenever a real department name
// cannot be resolved.
const FallbackName = "Department Not Assigned"

// Issue classifies a department reference problem on an employee record.
type Issue string

const (
	// IssueNullDepartmentReference: the employee simply has no department.
	// Common and harmless; surfaced for monitoring only.
	IssueNullDepartmentReference Issue = "NULL_DEPARTMENT_REFERENCE"

	// IssueInvalidDepartmentID: the reference exists but its id is not a
	// valid identifier. This indicates referential corruption, not absence.
	IssueInvalidDepartmentID Issue = "INVALID_DEPARTMENT_ID"

	// IssueEmptyDepartmentName: the department row resolved but carries a
	// blank name.
	IssueEmptyDepartmentName Issue = "EMPTY_DEPARTMENT_NAME"
)

// ErrDepartmentNotFound is what Lookup implementations return when the
// referenced department row does not exist. The resolver treats that the
// same as an absent reference.
var ErrDepartmentNotFound = errors.New("department not found")

// InvalidDepartmentIDError is raised when an employee carries a department
// reference with a non-positive id. Callers are expected to log it and fall
// back to FallbackName rather than abort their own operation.
type InvalidDepartmentIDError struct {
	EmployeeID   int64
	DepartmentID int64
}

func (e *InvalidDepartmentIDError) Error() string {
	return fmt.Sprintf("invalid department id %d on employee %d", e.DepartmentID, e.EmployeeID)
}

// EmployeeRef is the slice of an employee record the resolver inspects.
type EmployeeRef struct {
	EmployeeID   int64
	DepartmentID *int64
}

// Observation is emitted for every classified inconsistency.
type Observation struct {
	EmployeeID   int64
	DepartmentID *int64
	Issue        Issue
}

// Lookup fetches a department name by id. Implementations return
// ErrDepartmentNotFound when the id does not resolve.
type Lookup interface {
	DepartmentName(ctx context.Context, id int64) (string, error)
}

// Observer receives inconsistency observations. Implementations must be
// cheap and must not fail the caller.
type Observer interface {
	ObserveIssue(ctx context.Context, obs Observation)
}

// Resolver turns an employee's department reference into a display-safe
// name. Dependencies are injected; the resolver holds no global state.
type Resolver struct {
	lookup   Lookup
	observer Observer
	log      *zap.Logger
}

func NewResolver(lookup Lookup, observer Observer) *Resolver {
	return &Resolver{
		lookup:   lookup,
		observer: observer,
		log:      zap.L().Named("deptcheck"),
	}
}

// Resolve applies the consistency rules in order and always produces a
// usable name. The only error condition is a non-positive department id;
// even then the fallback name is returned alongside the error so the caller
// can degrade instead of aborting.
func (r *Resolver) Resolve(ctx context.Context, employee *EmployeeRef) (string, error) {
	name, _, err := r.ResolveWithIssue(ctx, employee)
	return name, err
}

// ResolveWithIssue behaves like Resolve but also reports the classification,
// empty when the reference is consistent. Audit scans use this to build
// per-employee report rows.
func (r *Resolver) ResolveWithIssue(ctx context.Context, employee *EmployeeRef) (string, Issue, error) {
	if employee == nil {
		return FallbackName, "", nil
	}

	if employee.DepartmentID == nil {
		r.observe(ctx, Observation{
			EmployeeID: employee.EmployeeID,
			Issue:      IssueNullDepartmentReference,
		})
		return FallbackName, IssueNullDepartmentReference, nil
	}

	deptID := *employee.DepartmentID
	if deptID <= 0 {
		r.observe(ctx, Observation{
			EmployeeID:   employee.EmployeeID,
			DepartmentID: employee.DepartmentID,
			Issue:        IssueInvalidDepartmentID,
		})
		return FallbackName, IssueInvalidDepartmentID, &InvalidDepartmentIDError{
			EmployeeID:   employee.EmployeeID,
			DepartmentID: deptID,
		}
	}

	name, err := r.lookup.DepartmentName(ctx, deptID)
	if err != nil {
		if errors.Is(err, ErrDepartmentNotFound) {
			// Dangling reference: treated as absent.
			r.observe(ctx, Observation{
				EmployeeID:   employee.EmployeeID,
				DepartmentID: employee.DepartmentID,
				Issue:        IssueNullDepartmentReference,
			})
			return FallbackName, IssueNullDepartmentReference, nil
		}

		// Lookup infrastructure failure. Degrade to the fallback name so the
		// caller's primary operation still succeeds.
		r.log.Warn("department lookup failed, using fallback name",
			zap.Int64("employee_id", employee.EmployeeID),
			zap.Int64("department_id", deptID),
			zap.Error(err),
		)
		return FallbackName, "", nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		r.observe(ctx, Observation{
			EmployeeID:   employee.EmployeeID,
			DepartmentID: employee.DepartmentID,
			Issue:        IssueEmptyDepartmentName,
		})
		return FallbackName, IssueEmptyDepartmentName, nil
	}

	return name, "", nil
}

func (r *Resolver) observe(ctx context.Context, obs Observation) {
	if r.observer == nil {
		return
	}
	r.observer.ObserveIssue(ctx, obs)
}
