package notification

import (
	"context"
	"time"

	"caseflow/utils"

	"go.uber.org/zap"
)

// Notifier is the external delivery collaborator. The engine decides
// when and whether to call it; delivery mechanics (email, push,
// in-app) are out of scope.
type Notifier interface {
	Notify(ctx context.Context, recipient, message string, fireAt time.Time) error
}

// LogNotifier records deliveries to the log. It stands in wherever a
// real delivery integration has not been wired.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) Notify(_ context.Context, recipient, message string, fireAt time.Time) error {
	logger := n.Logger
	if logger == nil {
		logger = utils.GetLogger()
	}
	logger.Info("notification dispatched",
		zap.String("recipient", recipient),
		zap.String("message", message),
		zap.Time("fireAt", fireAt))
	return nil
}
