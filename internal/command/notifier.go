package command

import (
	"context"

	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*PrinterNotifier)(nil)

// PrinterNotifier delivers background notifications, such as a failed
// autosave, through the same Printer the handler uses.
type PrinterNotifier struct {
	log *logger.Logger
	out Printer
}

// NewPrinterNotifier creates a notifier writing to out.
func NewPrinterNotifier(log *logger.Logger, out Printer) *PrinterNotifier {
	return &PrinterNotifier{log: log, out: out}
}

// Notify prints a normal notification.
func (n *PrinterNotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.out.PrintLine(message)
	return nil
}

// NotifyUrgent prints an urgent notification.
func (n *PrinterNotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.out.PrintUrgent(message)
	return nil
}
