package services

import (
	"context"
	"errors"

	"tms/internal/apperror"
	"tms/internal/models"
	"tms/internal/repositories"
)

// QueryService answers read-only shipment queries.
type QueryService struct {
	repo repositories.ShipmentRepository
}

// NewQueryService creates a new QueryService.
func NewQueryService(repo repositories.ShipmentRepository) *QueryService {
	return &QueryService{repo: repo}
}

// List returns the shipments matching filter, ordered by sort.
func (s *QueryService) List(ctx context.Context, filter models.ShipmentFilter, sort models.ShipmentSort) ([]models.Shipment, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list shipments", err)
	}
	shipments := FilterShipments(all, filter)
	if err := SortShipments(shipments, sort); err != nil {
		return nil, err
	}
	return shipments, nil
}

// Get retrieves a single shipment. A missing shipment is not an error.
func (s *QueryService) Get(ctx context.Context, id string) (*models.Shipment, error) {
	shipment, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal("failed to get shipment", err)
	}
	return shipment, nil
}

// Paginate returns one page of the filtered, sorted shipments.
func (s *QueryService) Paginate(ctx context.Context, page, limit int, filter models.ShipmentFilter, sort models.ShipmentSort) (*models.ShipmentConnection, error) {
	shipments, err := s.List(ctx, filter, sort)
	if err != nil {
		return nil, err
	}

	total := len(shipments)
	page, limit, start, end := pageWindow(page, limit, total)
	totalPages := (total + limit - 1) / limit

	return &models.ShipmentConnection{
		Shipments:       shipments[start:end],
		TotalCount:      total,
		CurrentPage:     page,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}, nil
}

// Count returns the number of stored shipments.
func (s *QueryService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
