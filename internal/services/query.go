package services

import (
	"cmp"
	"slices"
	"strings"

	"tms/internal/apperror"
	"tms/internal/models"

	"github.com/shopspring/decimal"
)

// FilterShipments keeps the shipments matching every non-empty field of f.
func FilterShipments(shipments []models.Shipment, f models.ShipmentFilter) []models.Shipment {
	out := make([]models.Shipment, 0, len(shipments))
	for _, s := range shipments {
		if matches(&s, f) {
			out = append(out, s)
		}
	}
	return out
}

func matches(s *models.Shipment, f models.ShipmentFilter) bool {
	if f.TrackingNumber != "" && !containsFold(s.TrackingNumber, f.TrackingNumber) {
		return false
	}
	if f.Status != "" && string(s.Status) != f.Status {
		return false
	}
	if f.Carrier != "" && s.Carrier != f.Carrier {
		return false
	}
	if f.Category != "" && s.Category != f.Category {
		return false
	}
	if f.Priority != "" && string(s.Priority) != f.Priority {
		return false
	}
	if f.ItemDescription != "" && !containsFold(s.ItemDescription, f.ItemDescription) {
		return false
	}
	if f.Origin != "" && !containsFold(s.Origin, f.Origin) {
		return false
	}
	if f.Destination != "" && !containsFold(s.Destination, f.Destination) {
		return false
	}
	if f.CustomerName != "" && !containsFold(s.CustomerName, f.CustomerName) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SortShipments orders shipments in place. Equal keys keep their relative
// order in both directions. An empty field leaves the slice untouched.
func SortShipments(shipments []models.Shipment, sort models.ShipmentSort) error {
	if sort.Field == "" {
		return nil
	}
	compare, err := comparator(sort.Field)
	if err != nil {
		return err
	}
	switch sort.Order {
	case "", models.SortAsc:
	case models.SortDesc:
		asc := compare
		compare = func(a, b *models.Shipment) int { return -asc(a, b) }
	default:
		return apperror.Validation("Unknown sort order: " + string(sort.Order))
	}
	slices.SortStableFunc(shipments, func(a, b models.Shipment) int { return compare(&a, &b) })
	return nil
}

func comparator(field models.SortField) (func(a, b *models.Shipment) int, error) {
	switch field {
	case models.SortTrackingNumber:
		return func(a, b *models.Shipment) int { return strings.Compare(a.TrackingNumber, b.TrackingNumber) }, nil
	case models.SortItemDescription:
		return func(a, b *models.Shipment) int { return strings.Compare(a.ItemDescription, b.ItemDescription) }, nil
	case models.SortCategory:
		return func(a, b *models.Shipment) int { return strings.Compare(a.Category, b.Category) }, nil
	case models.SortCarrier:
		return func(a, b *models.Shipment) int { return strings.Compare(a.Carrier, b.Carrier) }, nil
	case models.SortStatus:
		return func(a, b *models.Shipment) int { return cmp.Compare(a.Status, b.Status) }, nil
	case models.SortPriority:
		return func(a, b *models.Shipment) int { return cmp.Compare(a.Priority, b.Priority) }, nil
	case models.SortShipDate:
		return func(a, b *models.Shipment) int { return a.ShipDate.Compare(b.ShipDate) }, nil
	case models.SortEstimatedDelivery:
		return func(a, b *models.Shipment) int { return a.EstimatedDelivery.Compare(b.EstimatedDelivery) }, nil
	case models.SortCreatedAt:
		return func(a, b *models.Shipment) int { return a.CreatedAt.Compare(b.CreatedAt) }, nil
	case models.SortCost:
		return func(a, b *models.Shipment) int { return compareDecimal(a.Cost, b.Cost) }, nil
	default:
		return nil, apperror.Validation("Unknown sort field: " + string(field))
	}
}

// compareDecimal orders numeric strings by value, falling back to a string
// comparison when either side does not parse.
func compareDecimal(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return da.Cmp(db)
}

// pageWindow normalizes page and limit and returns the slice bounds of that
// page within total items.
func pageWindow(page, limit, total int) (normPage, normLimit, start, end int) {
	if page <= 0 {
		page = models.DefaultPage
	}
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	start = min((page-1)*limit, total)
	end = min(start+limit, total)
	return page, limit, start, end
}
