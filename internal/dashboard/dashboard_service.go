package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"go-ems/internal/deptcheck"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	SummaryCacheKey = "dashboard:summary"
	summaryCacheTTL = 5 * time.Minute
)

// IssueCounter exposes the accumulated consistency counters. Satisfied by
// deptcheck.RedisCounterObserver.
type IssueCounter interface {
	IssueCounts(ctx context.Context) (map[deptcheck.Issue]int64, error)
}

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	Summary(ctx context.Context) (SummaryResponse, error)
	InvalidateSummary(ctx context.Context) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	issues IssueCounter
	now    func() time.Time
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(
	repo Repository,
	rdb *redis.Client,
	issues IssueCounter,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		issues: issues,
		now:    time.Now,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Summary(ctx context.Context) (SummaryResponse, error) {
	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, SummaryCacheKey).Result(); err == nil {
			var resp SummaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight supaya cache miss yang rame tidak membanjiri DB
	v, err, _ := s.sf.Do(SummaryCacheKey, func() (interface{}, error) {
		resp, err := s.buildSummary(ctx)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, SummaryCacheKey, jsonData, summaryCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return SummaryResponse{}, err
	}

	return v.(SummaryResponse), nil
}

// buildSummary assembles the aggregate snapshot for the current period.
func (s *service) buildSummary(ctx context.Context) (SummaryResponse, error) {
	now := s.now().UTC()
	month, year := int(now.Month()), now.Year()

	totalEmployees, err := s.repo.CountEmployees(ctx)
	if err != nil {
		s.logger.Error("count employees failed", zap.Error(err))
		return SummaryResponse{}, err
	}

	totalDepartments, err := s.repo.CountDepartments(ctx)
	if err != nil {
		s.logger.Error("count departments failed", zap.Error(err))
		return SummaryResponse{}, err
	}

	pendingLeaves, err := s.repo.CountPendingLeaves(ctx)
	if err != nil {
		s.logger.Error("count pending leaves failed", zap.Error(err))
		return SummaryResponse{}, err
	}

	payslipCount, err := s.repo.CountPayslips(ctx, month, year)
	if err != nil {
		s.logger.Error("count payslips failed", zap.Error(err))
		return SummaryResponse{}, err
	}

	netPayroll, err := s.repo.SumNetPayroll(ctx, month, year)
	if err != nil {
		s.logger.Error("sum net payroll failed", zap.Error(err))
		return SummaryResponse{}, err
	}

	unassigned, err := s.repo.CountUnassignedEmployees(ctx)
	if err != nil {
		s.logger.Error("count unassigned employees failed", zap.Error(err))
		return SummaryResponse{}, err
	}

	headcounts, err := s.repo.DepartmentHeadcounts(ctx)
	if err != nil {
		s.logger.Error("department headcounts failed", zap.Error(err))
		return SummaryResponse{}, err
	}
	if headcounts == nil {
		headcounts = []DepartmentHeadcount{}
	}

	// Counter konsistensi bersifat best-effort, jangan gagalkan summary.
	issueCounts := map[string]int64{}
	if s.issues != nil {
		counts, err := s.issues.IssueCounts(ctx)
		if err != nil {
			s.logger.Warn("read consistency counters failed", zap.Error(err))
		} else {
			for issue, count := range counts {
				issueCounts[string(issue)] = count
			}
		}
	}

	return SummaryResponse{
		Month:                month,
		Year:                 year,
		TotalEmployees:       totalEmployees,
		TotalDepartments:     totalDepartments,
		PendingLeaves:        pendingLeaves,
		PayslipsThisPeriod:   payslipCount,
		NetPayrollThisPeriod: netPayroll.StringFixed(2),
		UnassignedEmployees:  unassigned,
		DepartmentHeadcounts: headcounts,
		ConsistencyIssues:    issueCounts,
		GeneratedAt:          now.Format(time.RFC3339),
	}, nil
}

// InvalidateSummary drops the cached snapshot. Called by the lifecycle
// consumer whenever employees, payslips, or leaves change.
func (s *service) InvalidateSummary(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	if err := s.rdb.Del(ctx, SummaryCacheKey).Err(); err != nil {
		s.logger.Error("invalidate summary cache failed", zap.Error(err))
		return err
	}
	s.logger.Debug("summary cache invalidated")
	return nil
}
