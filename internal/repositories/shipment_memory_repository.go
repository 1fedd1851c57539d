package repositories

import (
	"context"
	"fmt"
	"sync"

	"tms/internal/apperror"
	"tms/internal/models"
)

// MemoryShipmentRepository is an in-memory implementation of ShipmentRepository.
// Records are kept in insertion order; callers only ever see copies.
type MemoryShipmentRepository struct {
	shipments []models.Shipment
	index     map[string]int
	mu        sync.RWMutex
}

// NewMemoryShipmentRepository creates a new instance of MemoryShipmentRepository.
func NewMemoryShipmentRepository() *MemoryShipmentRepository {
	return &MemoryShipmentRepository{
		index: make(map[string]int),
	}
}

// All returns a snapshot of every shipment.
func (r *MemoryShipmentRepository) All(ctx context.Context) ([]models.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Shipment, len(r.shipments))
	for i := range r.shipments {
		list[i] = cloneShipment(r.shipments[i])
	}
	return list, nil
}

// GetByID returns a shipment by its ID.
func (r *MemoryShipmentRepository) GetByID(ctx context.Context, id string) (*models.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, apperror.NotFound(fmt.Sprintf("shipment with ID %s not found", id))
	}
	s := cloneShipment(r.shipments[i])
	return &s, nil
}

// Create appends a shipment. When no id is set it assigns the next one
// along with its tracking number.
func (r *MemoryShipmentRepository) Create(ctx context.Context, shipment *models.Shipment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if shipment.ID == "" {
		shipment.ID = r.nextIDLocked()
		shipment.TrackingNumber = models.TrackingNumberFor(shipment.ID)
	}
	if _, exists := r.index[shipment.ID]; exists {
		return fmt.Errorf("shipment with ID %s already exists", shipment.ID)
	}
	r.index[shipment.ID] = len(r.shipments)
	r.shipments = append(r.shipments, cloneShipment(*shipment))
	return nil
}

// Replace overwrites an existing shipment in place, keeping its position.
func (r *MemoryShipmentRepository) Replace(ctx context.Context, shipment *models.Shipment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[shipment.ID]
	if !ok {
		return apperror.NotFound(fmt.Sprintf("shipment with ID %s not found for update", shipment.ID))
	}
	r.shipments[i] = cloneShipment(*shipment)
	return nil
}

// Delete removes a shipment by its ID.
func (r *MemoryShipmentRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return apperror.NotFound(fmt.Sprintf("shipment with ID %s not found for deletion", id))
	}
	r.shipments = append(r.shipments[:i], r.shipments[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.shipments); j++ {
		r.index[r.shipments[j].ID] = j
	}
	return nil
}

// NextID returns max numeric id + 1.
func (r *MemoryShipmentRepository) NextID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextIDLocked(), nil
}

func (r *MemoryShipmentRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shipments), nil
}

func (r *MemoryShipmentRepository) nextIDLocked() string {
	var maxID int64
	for i := range r.shipments {
		if n := r.shipments[i].NumericID(); n > maxID {
			maxID = n
		}
	}
	return nextIDAfter(maxID)
}

// cloneShipment copies the pointer fields so stored records cannot be
// mutated through a returned value.
func cloneShipment(s models.Shipment) models.Shipment {
	if s.ActualDelivery != nil {
		t := *s.ActualDelivery
		s.ActualDelivery = &t
	}
	if s.Notes != nil {
		n := *s.Notes
		s.Notes = &n
	}
	return s
}
