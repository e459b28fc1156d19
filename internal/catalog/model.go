package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Service is one bookable treatment in the salon catalog. Price is stored in
// COP cents-free pesos (whole currency units), Duration in minutes.
type Service struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	Price       int64
	Duration    int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
