package models

import (
	"fmt"
	"strconv"
	"time"
)

// TrackingPrefix is prepended to the zero-padded shipment id.
const TrackingPrefix = "TMS"

// NotesMaxLength bounds the stored notes, in runes.
const NotesMaxLength = 80

// ShipmentStatus is the lifecycle state of a shipment.
type ShipmentStatus string

const (
	StatusPending        ShipmentStatus = "Pending"
	StatusInTransit      ShipmentStatus = "In Transit"
	StatusOutForDelivery ShipmentStatus = "Out for Delivery"
	StatusDelivered      ShipmentStatus = "Delivered"
	StatusDelayed        ShipmentStatus = "Delayed"
	StatusCancelled      ShipmentStatus = "Cancelled"
)

// ShipmentStatuses lists every accepted status.
var ShipmentStatuses = []ShipmentStatus{
	StatusPending, StatusInTransit, StatusOutForDelivery, StatusDelivered, StatusDelayed, StatusCancelled,
}

func (s ShipmentStatus) Valid() bool {
	for _, v := range ShipmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority is the service level of a shipment.
type Priority string

const (
	PriorityStandard  Priority = "Standard"
	PriorityExpress   Priority = "Express"
	PriorityOvernight Priority = "Overnight"
)

var Priorities = []Priority{PriorityStandard, PriorityExpress, PriorityOvernight}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Carriers are the carriers the seed data draws from. Shipments store the
// carrier as a free string.
var Carriers = []string{"FedEx", "UPS", "DHL", "USPS"}

// Dimensions of a parcel, in whole units.
type Dimensions struct {
	Length int `json:"length" validate:"gt=0"`
	Width  int `json:"width" validate:"gt=0"`
	Height int `json:"height" validate:"gt=0"`
}

// Shipment is the only domain entity of the service.
type Shipment struct {
	ID                string         `json:"id" gorm:"primaryKey;type:varchar(20)" validate:"required,numeric"`
	TrackingNumber    string         `json:"trackingNumber" gorm:"index;type:varchar(32)" validate:"required"`
	ItemDescription   string         `json:"itemDescription" validate:"required"`
	Category          string         `json:"category" gorm:"index" validate:"required"`
	Quantity          int            `json:"quantity" validate:"gte=0"`
	Weight            string         `json:"weight" validate:"required,decimal_string"`
	Dimensions        Dimensions     `json:"dimensions" gorm:"embedded;embeddedPrefix:dim_"`
	Origin            string         `json:"origin" validate:"required"`
	Destination       string         `json:"destination" validate:"required,nefield=Origin"`
	Carrier           string         `json:"carrier" gorm:"index" validate:"required"`
	Status            ShipmentStatus `json:"status" gorm:"index;type:varchar(32)" validate:"required,shipment_status"`
	Priority          Priority       `json:"priority" gorm:"type:varchar(16)" validate:"required,shipment_priority"`
	ShipDate          time.Time      `json:"shipDate"`
	EstimatedDelivery time.Time      `json:"estimatedDelivery"`
	ActualDelivery    *time.Time     `json:"actualDelivery"`
	Cost              string         `json:"cost" validate:"required,decimal_string"`
	Insurance         bool           `json:"insurance"`
	Signature         bool           `json:"signature"`
	CustomerName      string         `json:"customerName" validate:"required"`
	Notes             *string        `json:"notes"`
	CreatedAt         time.Time      `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt         time.Time      `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// NumericID returns the id as an integer. Ids that do not parse yield 0.
func (s *Shipment) NumericID() int64 {
	n, err := strconv.ParseInt(s.ID, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// TrackingNumberFor derives the tracking number of the shipment with the given id.
func TrackingNumberFor(id string) string {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return TrackingPrefix + id
	}
	return fmt.Sprintf("%s%06d", TrackingPrefix, n)
}

// TruncateNotes cuts notes to NotesMaxLength runes.
func TruncateNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	r := []rune(*notes)
	if len(r) <= NotesMaxLength {
		return notes
	}
	cut := string(r[:NotesMaxLength])
	return &cut
}

// ShipmentInput carries the caller supplied fields of a new shipment.
type ShipmentInput struct {
	ItemDescription string         `json:"itemDescription"`
	Category        string         `json:"category"`
	Quantity        int            `json:"quantity"`
	Weight          string         `json:"weight"`
	Dimensions      Dimensions     `json:"dimensions"`
	Origin          string         `json:"origin"`
	Destination     string         `json:"destination"`
	Carrier         string         `json:"carrier"`
	Status          ShipmentStatus `json:"status"`
	Priority        Priority       `json:"priority"`
	Cost            string         `json:"cost"`
	Insurance       bool           `json:"insurance"`
	Signature       bool           `json:"signature"`
	CustomerName    string         `json:"customerName"`
	Notes           *string        `json:"notes"`
}

// ShipmentPatch holds the fields of a partial update. Nil means "leave as is".
type ShipmentPatch struct {
	ItemDescription *string         `json:"itemDescription"`
	Category        *string         `json:"category"`
	Quantity        *int            `json:"quantity"`
	Weight          *string         `json:"weight"`
	Dimensions      *Dimensions     `json:"dimensions"`
	Origin          *string         `json:"origin"`
	Destination     *string         `json:"destination"`
	Carrier         *string         `json:"carrier"`
	Status          *ShipmentStatus `json:"status"`
	Priority        *Priority       `json:"priority"`
	Cost            *string         `json:"cost"`
	Insurance       *bool           `json:"insurance"`
	Signature       *bool           `json:"signature"`
	CustomerName    *string         `json:"customerName"`
	Notes           *string         `json:"notes"`
}

// ApplyTo shallow-merges the provided fields over s.
func (p ShipmentPatch) ApplyTo(s *Shipment) {
	if p.ItemDescription != nil {
		s.ItemDescription = *p.ItemDescription
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Quantity != nil {
		s.Quantity = *p.Quantity
	}
	if p.Weight != nil {
		s.Weight = *p.Weight
	}
	if p.Dimensions != nil {
		s.Dimensions = *p.Dimensions
	}
	if p.Origin != nil {
		s.Origin = *p.Origin
	}
	if p.Destination != nil {
		s.Destination = *p.Destination
	}
	if p.Carrier != nil {
		s.Carrier = *p.Carrier
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Priority != nil {
		s.Priority = *p.Priority
	}
	if p.Cost != nil {
		s.Cost = *p.Cost
	}
	if p.Insurance != nil {
		s.Insurance = *p.Insurance
	}
	if p.Signature != nil {
		s.Signature = *p.Signature
	}
	if p.CustomerName != nil {
		s.CustomerName = *p.CustomerName
	}
	if p.Notes != nil {
		s.Notes = p.Notes
	}
}
