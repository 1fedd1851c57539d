package models

// ShipmentFilter is a conjunction of field predicates. Empty fields match everything.
type ShipmentFilter struct {
	TrackingNumber  string `json:"trackingNumber"`
	ItemDescription string `json:"itemDescription"`
	Category        string `json:"category"`
	Carrier         string `json:"carrier"`
	Status          string `json:"status"`
	Priority        string `json:"priority"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	CustomerName    string `json:"customerName"`
}

// SortField names a sortable shipment field.
type SortField string

const (
	SortTrackingNumber    SortField = "trackingNumber"
	SortItemDescription   SortField = "itemDescription"
	SortCategory          SortField = "category"
	SortCarrier           SortField = "carrier"
	SortStatus            SortField = "status"
	SortPriority          SortField = "priority"
	SortShipDate          SortField = "shipDate"
	SortEstimatedDelivery SortField = "estimatedDelivery"
	SortCost              SortField = "cost"
	SortCreatedAt         SortField = "createdAt"
)

var SortFields = []SortField{
	SortTrackingNumber, SortItemDescription, SortCategory, SortCarrier, SortStatus,
	SortPriority, SortShipDate, SortEstimatedDelivery, SortCost, SortCreatedAt,
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ShipmentSort is an optional ordering. An empty Field keeps store order.
type ShipmentSort struct {
	Field SortField
	Order SortOrder
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ShipmentConnection is one page of a filtered, sorted shipment list.
type ShipmentConnection struct {
	Shipments       []Shipment `json:"shipments"`
	TotalCount      int        `json:"totalCount"`
	CurrentPage     int        `json:"currentPage"`
	TotalPages      int        `json:"totalPages"`
	HasNextPage     bool       `json:"hasNextPage"`
	HasPreviousPage bool       `json:"hasPreviousPage"`
}
