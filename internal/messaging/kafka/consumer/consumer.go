package consumer

import (
	"context"
	"encoding/json"

	"go-ems/internal/dashboard"
	"go-ems/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLifecycleEvents drains the employee/payslip/leave lifecycle topics
// and drops the dashboard summary cache whenever anything that feeds it
// changed. The reader is expected to be configured with all three topics in
// one consumer group.
func ConsumeLifecycleEvents(
	ctx context.Context,
	reader *kafkago.Reader,
	dashboardService dashboard.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.lifecycle")
	log.Info("lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("lifecycle consumer stopped")
				return
			}
			log.Error("fetch lifecycle message failed", zap.Error(err))
			continue
		}

		logEventDetails(log, msg)

		if err := dashboardService.InvalidateSummary(ctx); err != nil {
			log.Error("invalidate dashboard summary failed",
				zap.String("topic", msg.Topic),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("dashboard summary invalidated", zap.String("topic", msg.Topic))
	}
}

// logEventDetails decodes just enough of each payload to leave a useful
// audit trail. Undecodable payloads are logged and still invalidate the
// cache; invalidation is safe to over-apply.
func logEventDetails(log *zap.Logger, msg kafkago.Message) {
	switch msg.Topic {
	case events.EmployeeCreatedTopic:
		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Warn("decode employee_created event failed", zap.Error(err))
			return
		}
		log.Info("employee_created event received",
			zap.Int64("employee_id", event.EmployeeID),
			zap.String("employee_number", event.EmployeeNumber),
		)
	case events.PayslipGeneratedTopic:
		var event events.PayslipGeneratedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Warn("decode payslip_generated event failed", zap.Error(err))
			return
		}
		log.Info("payslip_generated event received",
			zap.Int64("payslip_id", event.PayslipID),
			zap.Int64("employee_id", event.EmployeeID),
			zap.Int("month", event.Month),
			zap.Int("year", event.Year),
		)
	case events.LeaveStatusChangedTopic:
		var event events.LeaveStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Warn("decode leave_status_changed event failed", zap.Error(err))
			return
		}
		log.Info("leave_status_changed event received",
			zap.Int64("leave_id", event.LeaveID),
			zap.String("old_status", event.OldStatus),
			zap.String("new_status", event.NewStatus),
		)
	default:
		log.Warn("unexpected topic on lifecycle consumer", zap.String("topic", msg.Topic))
	}
}
