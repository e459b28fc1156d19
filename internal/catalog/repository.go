package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrServiceNotFound = errors.New("service not found")

// UnknownServiceError reports requested ids that did not resolve to an
// active catalog service. Resolution is all-or-nothing: a booking with one
// bad id is rejected outright, never trimmed to the ids that matched.
type UnknownServiceError struct {
	IDs []uuid.UUID
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("unknown or inactive services: %v", e.IDs)
}

// Repository contains all DB interactions for the service catalog.
type Repository interface {
	Create(ctx context.Context, svc *Service) (*Service, error)
	Update(ctx context.Context, svc *Service) (*Service, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Service, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	List(ctx context.Context, includeInactive bool) ([]Service, error)

	// GetActiveByIDs resolves a booking's requested services, preserving the
	// request order. Any id that is missing or inactive fails the whole call
	// with UnknownServiceError.
	GetActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]Service, error)
}
