package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"tms/internal/apperror"
	"tms/internal/models"
	"tms/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EstimatedTransit is added to the ship date of a newly created shipment.
const EstimatedTransit = 5 * 24 * time.Hour

// EventPublisher delivers shipment events to an outside system.
type EventPublisher interface {
	PublishShipmentEvent(ctx context.Context, event models.ShipmentEvent) error
}

// ShipmentService handles shipment mutations. Only admins may call it.
type ShipmentService struct {
	repo      repositories.ShipmentRepository
	publisher EventPublisher
	validate  *validator.Validate
	log       *zap.Logger
	now       func() time.Time

	// writers are serialized so id assignment and read-modify-write
	// updates never interleave
	mu sync.Mutex
}

// NewShipmentService creates a new ShipmentService. publisher may be nil.
func NewShipmentService(repo repositories.ShipmentRepository, publisher EventPublisher, log *zap.Logger) *ShipmentService {
	return &ShipmentService{
		repo:      repo,
		publisher: publisher,
		validate:  NewValidator(),
		log:       log,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to stamp shipments.
func (s *ShipmentService) WithClock(now func() time.Time) *ShipmentService {
	s.now = now
	return s
}

func requireAdmin(actor *models.Identity) error {
	if actor == nil {
		return apperror.ErrNotAuthenticated
	}
	if !actor.IsAdmin() {
		return apperror.ErrForbidden
	}
	return nil
}

// Create stores a new shipment built from input.
func (s *ShipmentService) Create(ctx context.Context, actor *models.Identity, input models.ShipmentInput) (*models.Shipment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to assign shipment id", err)
	}

	now := s.now().UTC()
	shipment := &models.Shipment{
		ID:                id,
		TrackingNumber:    models.TrackingNumberFor(id),
		ItemDescription:   input.ItemDescription,
		Category:          input.Category,
		Quantity:          input.Quantity,
		Weight:            input.Weight,
		Dimensions:        input.Dimensions,
		Origin:            input.Origin,
		Destination:       input.Destination,
		Carrier:           input.Carrier,
		Status:            input.Status,
		Priority:          input.Priority,
		ShipDate:          now,
		EstimatedDelivery: now.Add(EstimatedTransit),
		Cost:              input.Cost,
		Insurance:         input.Insurance,
		Signature:         input.Signature,
		CustomerName:      input.CustomerName,
		Notes:             models.TruncateNotes(input.Notes),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.validate.Struct(shipment); err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.Create(ctx, shipment); err != nil {
		return nil, apperror.Internal("failed to create shipment", err)
	}
	s.log.Info("shipment created",
		zap.String("id", shipment.ID),
		zap.String("tracking_number", shipment.TrackingNumber),
		zap.String("actor", actor.Username))

	s.publish(ctx, models.EventShipmentCreated, shipment, actor)
	return shipment, nil
}

// Update merges patch over the stored shipment with the given id.
func (s *ShipmentService) Update(ctx context.Context, actor *models.Identity, id string, patch models.ShipmentPatch) (*models.Shipment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shipment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Notes = models.TruncateNotes(patch.Notes)
	patch.ApplyTo(shipment)

	now := s.now().UTC()
	shipment.UpdatedAt = now
	if shipment.Status == models.StatusDelivered && shipment.ActualDelivery == nil {
		shipment.ActualDelivery = &now
	}
	if err := s.validate.Struct(shipment); err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.Replace(ctx, shipment); err != nil {
		return nil, mapNotFound(err, "failed to update shipment")
	}
	s.log.Info("shipment updated",
		zap.String("id", shipment.ID),
		zap.String("status", string(shipment.Status)),
		zap.String("actor", actor.Username))

	s.publish(ctx, models.EventShipmentUpdated, shipment, actor)
	return shipment, nil
}

// Delete removes the shipment with the given id.
func (s *ShipmentService) Delete(ctx context.Context, actor *models.Identity, id string) (bool, error) {
	if err := requireAdmin(actor); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shipment, err := s.get(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return false, mapNotFound(err, "failed to delete shipment")
	}
	s.log.Info("shipment deleted", zap.String("id", id), zap.String("actor", actor.Username))

	s.publish(ctx, models.EventShipmentDeleted, shipment, actor)
	return true, nil
}

func (s *ShipmentService) get(ctx context.Context, id string) (*models.Shipment, error) {
	shipment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "failed to get shipment")
	}
	return shipment, nil
}

func mapNotFound(err error, msg string) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound("Shipment not found")
	}
	return apperror.Internal(msg, err)
}

// publish failures never fail the mutation that caused them.
func (s *ShipmentService) publish(ctx context.Context, typ models.ShipmentEventType, shipment *models.Shipment, actor *models.Identity) {
	if s.publisher == nil {
		return
	}
	event := models.ShipmentEvent{
		EventID:        uuid.NewString(),
		Type:           typ,
		ShipmentID:     shipment.ID,
		TrackingNumber: shipment.TrackingNumber,
		Status:         shipment.Status,
		Actor:          actor.Username,
		OccurredAt:     s.now().UTC(),
	}
	if err := s.publisher.PublishShipmentEvent(ctx, event); err != nil {
		s.log.Warn("failed to publish shipment event",
			zap.String("type", string(typ)),
			zap.String("shipment_id", shipment.ID),
			zap.Error(err))
	}
}
