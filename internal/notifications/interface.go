package notifications

// Notifier defines the interface for notification services
type Notifier interface {
	// SendAlert sends an alert with the specified level and message
	SendAlert(level, message string) error
}

// NoopNotifier discards all alerts, used when notifications are not
// configured or in dry-run mode
type NoopNotifier struct{}

func (NoopNotifier) SendAlert(level, message string) error {
	return nil
}
