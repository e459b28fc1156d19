package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bellacita/salon-api/internal/booking"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// CredentialStore looks up specialist login records. Implemented by the
// booking repository; specialists double as the staff accounts.
type CredentialStore interface {
	GetSpecialistByEmail(ctx context.Context, email string) (*booking.Specialist, error)
}

type Service struct {
	store    CredentialStore
	secret   []byte
	tokenTTL time.Duration
	log      *zap.Logger
}

func NewService(store CredentialStore, secret string, tokenTTL time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Login verifies a specialist's password and returns a signed session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *booking.Specialist, error) {
	sp, err := s.store.GetSpecialistByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, booking.ErrSpecialistNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(sp.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := signToken(s.secret, sp, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("specialist logged in", zap.String("specialist_id", sp.ID.String()))
	return token, sp, nil
}

// HashPassword produces a bcrypt hash for seeding and account creation.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
