package repositories

import (
	"context"
	"strconv"

	"tms/internal/models"
)

// ShipmentRepository defines the interface for shipment data access.
// All returns shipments in insertion order; lookups of unknown ids fail
// with apperror.ErrNotFound.
type ShipmentRepository interface {
	All(ctx context.Context) ([]models.Shipment, error)
	GetByID(ctx context.Context, id string) (*models.Shipment, error)
	Create(ctx context.Context, shipment *models.Shipment) error
	Replace(ctx context.Context, shipment *models.Shipment) error
	Delete(ctx context.Context, id string) error
	NextID(ctx context.Context) (string, error)
	Count(ctx context.Context) (int, error)
}

// nextIDAfter is the id following the largest numeric id seen. An empty
// store starts at 1.
func nextIDAfter(maxID int64) string {
	if maxID < 0 {
		maxID = 0
	}
	return strconv.FormatInt(maxID+1, 10)
}
