package notification

import "log/slog"

// Notify runs a notification emission and logs its failure instead of
// returning it. Notifications are best effort: a business mutation must not
// fail because its notification could not be written.
func Notify(op string, fn func() error) {
	if err := fn(); err != nil {
		slog.Warn("notification failed", "op", op, "error", err)
	}
}
