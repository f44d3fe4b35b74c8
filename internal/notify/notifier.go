// Package notify abstracts the immediate-notification facility the study
// timer uses when a focus or break session completes.
package notify

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Notifier delivers an immediate notification to the user.
type Notifier interface {
	SendImmediate(ctx context.Context, title, body string, data map[string]string) error
}

// LogNotifier writes notifications to the structured log. It is the default
// when no host-provided delivery channel exists.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// SendImmediate logs the notification.
func (n *LogNotifier) SendImmediate(_ context.Context, title, body string, data map[string]string) error {
	n.log.Info("notification",
		zap.String("title", title),
		zap.String("body", body),
		zap.Any("data", data),
	)
	return nil
}

// WriterNotifier prints notifications to a writer, used by the CLI to put
// timer completions on the terminal.
type WriterNotifier struct {
	w io.Writer
}

// NewWriterNotifier creates a writer-backed notifier.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// SendImmediate prints the notification.
func (n *WriterNotifier) SendImmediate(_ context.Context, title, body string, _ map[string]string) error {
	_, err := fmt.Fprintf(n.w, "\n%s\n%s\n", title, body)
	return err
}
