// Package notify is the fire-and-forget boundary to whatever channel the
// salon reaches clients on. Delivery mechanics live outside this service;
// the log notifier is the in-tree implementation.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/bellacita/salon-api/internal/booking"
)

// LogNotifier writes confirmations and reminders to the service log. It
// stands in for the WhatsApp/email gateway in every environment that has
// none connected.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

var _ booking.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) SendConfirmation(_ context.Context, appt booking.Appointment) {
	n.log.Info("booking confirmation",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("client_id", appt.ClientID.String()),
		zap.String("date", appt.Date),
		zap.String("start", appt.StartTime),
	)
}

func (n *LogNotifier) SendReminder(_ context.Context, appt booking.Appointment) {
	n.log.Info("booking reminder",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("client_id", appt.ClientID.String()),
		zap.String("date", appt.Date),
		zap.String("start", appt.StartTime),
	)
}
