package repositories

import (
	"context"
	"errors"
	"fmt"

	"tms/internal/apperror"
	"tms/internal/models"

	"gorm.io/gorm"
)

// numericIDOrder sorts by the integer value of the id. Ids are assigned as
// max+1, so this is also insertion order.
const numericIDOrder = "CAST(id AS INTEGER)"

// GORMShipmentRepository is a GORM implementation of ShipmentRepository.
type GORMShipmentRepository struct {
	db *gorm.DB
}

// NewGORMShipmentRepository creates a new instance of GORMShipmentRepository.
func NewGORMShipmentRepository(db *gorm.DB) *GORMShipmentRepository {
	return &GORMShipmentRepository{
		db: db,
	}
}

// All retrieves all shipments from the database.
func (r *GORMShipmentRepository) All(ctx context.Context) ([]models.Shipment, error) {
	var shipments []models.Shipment
	if err := r.db.WithContext(ctx).Order(numericIDOrder).Find(&shipments).Error; err != nil {
		return nil, fmt.Errorf("failed to get all shipments: %w", err)
	}
	return shipments, nil
}

// GetByID retrieves a single shipment by its ID from the database.
func (r *GORMShipmentRepository) GetByID(ctx context.Context, id string) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := r.db.WithContext(ctx).First(&shipment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("shipment with ID %s not found", id))
		}
		return nil, fmt.Errorf("failed to get shipment by ID %s: %w", id, err)
	}
	return &shipment, nil
}

// Create inserts a shipment. When no id is set it assigns the next one
// along with its tracking number, in the same transaction as the insert.
func (r *GORMShipmentRepository) Create(ctx context.Context, shipment *models.Shipment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if shipment.ID == "" {
			id, err := nextID(tx)
			if err != nil {
				return err
			}
			shipment.ID = id
			shipment.TrackingNumber = models.TrackingNumberFor(id)
		}
		return tx.Create(shipment).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create shipment: %w", err)
	}
	return nil
}

// Replace updates every column of an existing shipment.
func (r *GORMShipmentRepository) Replace(ctx context.Context, shipment *models.Shipment) error {
	res := r.db.WithContext(ctx).
		Model(&models.Shipment{ID: shipment.ID}).
		Select("*").
		Updates(shipment)
	if res.Error != nil {
		return fmt.Errorf("failed to update shipment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(fmt.Sprintf("shipment with ID %s not found for update", shipment.ID))
	}
	return nil
}

// Delete deletes a shipment by its ID from the database.
func (r *GORMShipmentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Shipment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete shipment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(fmt.Sprintf("shipment with ID %s not found for deletion", id))
	}
	return nil
}

func (r *GORMShipmentRepository) NextID(ctx context.Context) (string, error) {
	return nextID(r.db.WithContext(ctx))
}

func (r *GORMShipmentRepository) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Shipment{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count shipments: %w", err)
	}
	return int(n), nil
}

func nextID(db *gorm.DB) (string, error) {
	var maxID int64
	err := db.Model(&models.Shipment{}).
		Select("COALESCE(MAX(" + numericIDOrder + "), 0)").
		Scan(&maxID).Error
	if err != nil {
		return "", fmt.Errorf("failed to compute next shipment id: %w", err)
	}
	return nextIDAfter(maxID), nil
}
