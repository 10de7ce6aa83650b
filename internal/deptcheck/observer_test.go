package deptcheck_test

import (
	"context"
	"testing"

	"go-ems/internal/deptcheck"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRedisCounterObserver(t *testing.T) {
	ctx := context.Background()

	t.Run("ObserveIssue increments the classification counter", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		obs := deptcheck.NewRedisCounterObserver(rdb)

		mock.ExpectIncr("deptcheck:issues:NULL_DEPARTMENT_REFERENCE").SetVal(1)

		obs.ObserveIssue(ctx, deptcheck.Observation{
			EmployeeID: 1,
			Issue:      deptcheck.IssueNullDepartmentReference,
		})

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ObserveIssue swallows redis errors", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		obs := deptcheck.NewRedisCounterObserver(rdb)

		mock.ExpectIncr("deptcheck:issues:EMPTY_DEPARTMENT_NAME").SetErr(assert.AnError)

		// Tidak boleh panic atau mengganggu caller.
		obs.ObserveIssue(ctx, deptcheck.Observation{
			EmployeeID: 2,
			Issue:      deptcheck.IssueEmptyDepartmentName,
		})

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("IssueCounts reads all counters, missing keys count as zero", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		obs := deptcheck.NewRedisCounterObserver(rdb)

		mock.ExpectGet("deptcheck:issues:NULL_DEPARTMENT_REFERENCE").SetVal("4")
		mock.ExpectGet("deptcheck:issues:INVALID_DEPARTMENT_ID").RedisNil()
		mock.ExpectGet("deptcheck:issues:EMPTY_DEPARTMENT_NAME").SetVal("1")

		counts, err := obs.IssueCounts(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), counts[deptcheck.IssueNullDepartmentReference])
		assert.Equal(t, int64(0), counts[deptcheck.IssueInvalidDepartmentID])
		assert.Equal(t, int64(1), counts[deptcheck.IssueEmptyDepartmentName])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMultiObserver(t *testing.T) {
	ctx := context.Background()

	first := &captureObserver{}
	second := &captureObserver{}

	multi := deptcheck.MultiObserver{first, nil, second}
	multi.ObserveIssue(ctx, deptcheck.Observation{
		EmployeeID: 5,
		Issue:      deptcheck.IssueNullDepartmentReference,
	})

	assert.Len(t, first.observations, 1)
	assert.Len(t, second.observations, 1)
}

func TestZapObserver(t *testing.T) {
	obs := deptcheck.NewZapObserver(zap.NewNop())

	deptID := int64(3)
	obs.ObserveIssue(context.Background(), deptcheck.Observation{
		EmployeeID:   1,
		DepartmentID: &deptID,
		Issue:        deptcheck.IssueInvalidDepartmentID,
	})
	obs.ObserveIssue(context.Background(), deptcheck.Observation{
		EmployeeID: 2,
		Issue:      deptcheck.IssueNullDepartmentReference,
	})
}
