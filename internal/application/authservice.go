package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// Registration is the raw input of the registration form.
type Registration struct {
	Rut      string
	Name     string
	Tier     string
	Password string
}

// AuthService verifies credentials and registers beneficiaries. It never
// touches session state; the driving adapter creates the session on success.
type AuthService struct {
	beneficiaries driven.BeneficiaryStore
	logger        *slog.Logger
}

// NewAuthService creates an AuthService with the required dependencies.
func NewAuthService(beneficiaries driven.BeneficiaryStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		beneficiaries: beneficiaries,
		logger:        logger,
	}
}

// Login checks rut and password. Inputs are trimmed; blank inputs yield a
// ValidationError listing them, an unknown rut ErrNotFound, and a password
// mismatch ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, rut, password string) (*model.Beneficiary, error) {
	rut = strings.TrimSpace(rut)
	password = strings.TrimSpace(password)

	if err := requireFields(field{"rut", rut}, field{"clave", password}); err != nil {
		return nil, err
	}

	b, err := s.beneficiaries.GetByRut(ctx, rut)
	if err != nil {
		if errors.Is(err, driven.ErrNotFound) {
			return nil, fmt.Errorf("login %s: %w", rut, ErrNotFound)
		}
		s.logger.Error("failed to load beneficiary", "rut", rut, "error", err)
		return nil, fmt.Errorf("login %s: %w: %w", rut, ErrPersistence, err)
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(b.Password)) != 1 {
		return nil, fmt.Errorf("login %s: %w", rut, ErrInvalidCredentials)
	}

	return b, nil
}

// Register stores a new beneficiary. All four fields are required after
// trimming. An existing rut yields ErrDuplicateKey.
func (s *AuthService) Register(ctx context.Context, in Registration) (*model.Beneficiary, error) {
	b := model.Beneficiary{
		Rut:      strings.TrimSpace(in.Rut),
		Name:     strings.TrimSpace(in.Name),
		Tier:     strings.TrimSpace(in.Tier),
		Password: strings.TrimSpace(in.Password),
	}

	err := requireFields(
		field{"rut", b.Rut},
		field{"nombre", b.Name},
		field{"tramo", b.Tier},
		field{"clave", b.Password},
	)
	if err != nil {
		return nil, err
	}

	if err := s.beneficiaries.Create(ctx, b); err != nil {
		if errors.Is(err, driven.ErrDuplicateKey) {
			return nil, fmt.Errorf("register %s: %w", b.Rut, ErrDuplicateKey)
		}
		s.logger.Error("failed to register beneficiary", "rut", b.Rut, "error", err)
		return nil, fmt.Errorf("register %s: %w: %w", b.Rut, ErrPersistence, err)
	}

	return &b, nil
}
