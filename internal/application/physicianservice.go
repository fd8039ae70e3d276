package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/portalbonos/internal/domain/model"
	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// PhysicianSearchResult is everything the search page needs: the matches plus
// the unfiltered selector options.
type PhysicianSearchResult struct {
	Filter      model.PhysicianFilter
	Physicians  []model.Physician
	Communes    []string
	Specialties []string
}

// PhysicianService runs physician searches.
type PhysicianService struct {
	physicians driven.PhysicianStore
	logger     *slog.Logger
}

// NewPhysicianService creates a PhysicianService with the required dependencies.
func NewPhysicianService(physicians driven.PhysicianStore, logger *slog.Logger) *PhysicianService {
	return &PhysicianService{
		physicians: physicians,
		logger:     logger,
	}
}

// Search applies the query's filter and loads the commune and specialty lists
// with separate unfiltered queries.
func (s *PhysicianService) Search(ctx context.Context, q model.PhysicianQuery) (*PhysicianSearchResult, error) {
	filter := q.Filter()

	physicians, err := s.physicians.Search(ctx, filter)
	if err != nil {
		s.logger.Error("physician search failed", "filter", filter, "error", err)
		return nil, fmt.Errorf("search physicians: %w: %w", ErrPersistence, err)
	}
	if physicians == nil {
		physicians = []model.Physician{}
	}

	communes, err := s.physicians.ListCommunes(ctx)
	if err != nil {
		s.logger.Error("list communes failed", "error", err)
		return nil, fmt.Errorf("list communes: %w: %w", ErrPersistence, err)
	}

	specialties, err := s.physicians.ListSpecialties(ctx)
	if err != nil {
		s.logger.Error("list specialties failed", "error", err)
		return nil, fmt.Errorf("list specialties: %w: %w", ErrPersistence, err)
	}

	return &PhysicianSearchResult{
		Filter:      filter,
		Physicians:  physicians,
		Communes:    communes,
		Specialties: specialties,
	}, nil
}
