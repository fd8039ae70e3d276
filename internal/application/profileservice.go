package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// ProfileService reads and updates the profile of the logged-in beneficiary.
type ProfileService struct {
	beneficiaries driven.BeneficiaryStore
	logger        *slog.Logger
}

// NewProfileService creates a ProfileService with the required dependencies.
func NewProfileService(beneficiaries driven.BeneficiaryStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		beneficiaries: beneficiaries,
		logger:        logger,
	}
}

// Get returns the stored profile. ErrNotFound means the record vanished and
// the caller must end the session.
func (s *ProfileService) Get(ctx context.Context, rut string) (*model.Beneficiary, error) {
	b, err := s.beneficiaries.GetByRut(ctx, rut)
	if err != nil {
		if errors.Is(err, driven.ErrNotFound) {
			return nil, fmt.Errorf("get profile %s: %w", rut, ErrNotFound)
		}
		s.logger.Error("failed to load profile", "rut", rut, "error", err)
		return nil, fmt.Errorf("get profile %s: %w: %w", rut, ErrPersistence, err)
	}
	return b, nil
}

// Update persists a new name and tier, both required after trimming, and
// returns the trimmed values the session cache must be set to.
func (s *ProfileService) Update(ctx context.Context, rut, name, tier string) (string, string, error) {
	name = strings.TrimSpace(name)
	tier = strings.TrimSpace(tier)

	if err := requireFields(field{"nombre", name}, field{"tramo", tier}); err != nil {
		return "", "", err
	}

	if err := s.beneficiaries.UpdateProfile(ctx, rut, name, tier); err != nil {
		if errors.Is(err, driven.ErrNotFound) {
			return "", "", fmt.Errorf("update profile %s: %w", rut, ErrNotFound)
		}
		s.logger.Error("failed to update profile", "rut", rut, "error", err)
		return "", "", fmt.Errorf("update profile %s: %w: %w", rut, ErrPersistence, err)
	}

	return name, tier, nil
}
