package payments

import (
	"time"

	"github.com/google/uuid"
)

type Method string

const (
	MethodCash      Method = "cash"
	MethodTransfer  Method = "transfer"
	MethodNequi     Method = "nequi"
	MethodDaviplata Method = "daviplata"
	MethodCard      Method = "card"
	MethodOther     Method = "other"
)

// Valid reports whether m is one of the accepted payment methods.
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodNequi, MethodDaviplata, MethodCard, MethodOther:
		return true
	}
	return false
}

// Payment settles one appointment. Amount is whole pesos.
type Payment struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	ClientID      uuid.UUID
	Method        Method
	Amount        int64
	PaidAt        time.Time
	CreatedAt     time.Time
}
