package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrPaymentNotFound = errors.New("payment not found")

// Repository contains all DB interactions for payments.
type Repository interface {
	Insert(ctx context.Context, p *Payment) (*Payment, error)
	List(ctx context.Context) ([]Payment, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]Payment, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Payment, error)
}
