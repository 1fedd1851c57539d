package models

import "time"

type ShipmentEventType string

const (
	EventShipmentCreated ShipmentEventType = "shipment.created"
	EventShipmentUpdated ShipmentEventType = "shipment.updated"
	EventShipmentDeleted ShipmentEventType = "shipment.deleted"
)

// ShipmentEvent is published after every successful shipment mutation.
type ShipmentEvent struct {
	EventID        string            `json:"eventId"`
	Type           ShipmentEventType `json:"type"`
	ShipmentID     string            `json:"shipmentId"`
	TrackingNumber string            `json:"trackingNumber"`
	Status         ShipmentStatus    `json:"status"`
	Actor          string            `json:"actor"`
	OccurredAt     time.Time         `json:"occurredAt"`
}
