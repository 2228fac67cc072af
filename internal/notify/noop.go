package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded reports. It is used
// when no webhook is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards reports with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendRefreshReport logs and discards a report.
func (n *NoOpNotifier) SendRefreshReport(_ context.Context, report *RefreshReport) error {
	n.log.Debug("refresh report discarded (no backend configured)",
		"refreshed", report.Refreshed,
		"failed", len(report.Failed),
	)
	return nil
}
