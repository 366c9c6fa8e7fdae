package cart

import "log"

// Notifier surfaces transient user-facing messages, the toasts of a UI.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	log.Printf("[Cart] %s", message)
}

func (LogNotifier) Error(message string) {
	log.Printf("[Cart] ERROR: %s", message)
}
