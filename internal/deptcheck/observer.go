package deptcheck

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ZapObserver logs every observation with the triple that monitoring needs:
// employee id, department id (or null), classification.
type ZapObserver struct {
	log *zap.Logger
}

func NewZapObserver(logger *zap.Logger) *ZapObserver {
	return &ZapObserver{log: logger.Named("deptcheck.observer")}
}

func (o *ZapObserver) ObserveIssue(_ context.Context, obs Observation) {
	fields := []zap.Field{
		zap.Int64("employee_id", obs.EmployeeID),
		zap.String("issue", string(obs.Issue)),
	}
	if obs.DepartmentID != nil {
		fields = append(fields, zap.Int64("department_id", *obs.DepartmentID))
	} else {
		fields = append(fields, zap.String("department_id", "null"))
	}

	o.log.Warn("department consistency issue", fields...)
}

const issueCounterPrefix = "deptcheck:issues:"

// RedisCounterObserver keeps per-classification counters in Redis. Failures
// are swallowed; counters are best-effort monitoring data.
type RedisCounterObserver struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisCounterObserver(rdb *redis.Client) *RedisCounterObserver {
	return &RedisCounterObserver{
		rdb: rdb,
		log: zap.L().Named("deptcheck.counters"),
	}
}

func (o *RedisCounterObserver) ObserveIssue(ctx context.Context, obs Observation) {
	key := issueCounterPrefix + string(obs.Issue)
	if err := o.rdb.Incr(ctx, key).Err(); err != nil {
		o.log.Debug("increment issue counter failed", zap.String("key", key), zap.Error(err))
	}
}

// IssueCounts reads the accumulated counters for the dashboard.
func (o *RedisCounterObserver) IssueCounts(ctx context.Context) (map[Issue]int64, error) {
	issues := []Issue{
		IssueNullDepartmentReference,
		IssueInvalidDepartmentID,
		IssueEmptyDepartmentName,
	}

	counts := make(map[Issue]int64, len(issues))
	for _, issue := range issues {
		val, err := o.rdb.Get(ctx, issueCounterPrefix+string(issue)).Int64()
		if err != nil {
			if err == redis.Nil {
				counts[issue] = 0
				continue
			}
			return nil, fmt.Errorf("read issue counter %s: %w", issue, err)
		}
		counts[issue] = val
	}

	return counts, nil
}

// MultiObserver fans one observation out to several sinks.
type MultiObserver []Observer

func (m MultiObserver) ObserveIssue(ctx context.Context, obs Observation) {
	for _, o := range m {
		if o == nil {
			continue
		}
		o.ObserveIssue(ctx, obs)
	}
}
