package seed

import (
	"math/rand/v2"
	"strconv"
	"time"

	"tms/internal/models"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

var cities = []string{
	"New York, USA",
	"Los Angeles, USA",
	"Chicago, USA",
	"Houston, USA",
	"Miami, USA",
	"Seattle, USA",
	"Boston, USA",
	"San Francisco, USA",
	"London, UK",
	"Paris, France",
	"Tokyo, Japan",
	"Sydney, Australia",
}

// Cancelled is deliberately absent from generated data.
var seedStatuses = []models.ShipmentStatus{
	models.StatusInTransit,
	models.StatusDelivered,
	models.StatusPending,
	models.StatusOutForDelivery,
	models.StatusDelayed,
}

var (
	weightFactor = decimal.NewFromFloat(0.5)
	costFactor   = decimal.NewFromFloat(2.5)
)

// BuildShipments turns products into shipments with ids 1..n. Random
// attributes are drawn from rng so a fixed seed gives a fixed dataset.
func BuildShipments(products []Product, rng *rand.Rand, now time.Time) []models.Shipment {
	now = now.UTC()
	out := make([]models.Shipment, 0, len(products))
	for i, p := range products {
		id := strconv.Itoa(i + 1)
		origin := pick(rng, cities)
		destination := pickExcept(rng, cities, origin)
		status := pick(rng, seedStatuses)
		shipDate := now.Add(-time.Duration(between(rng, 1, 10)) * day)
		estimated := shipDate.Add(time.Duration(between(rng, 3, 7)) * day)

		var actual *time.Time
		if status == models.StatusDelivered {
			delivered := estimated
			actual = &delivered
		}
		notes := truncate(p.Description, models.NotesMaxLength)
		price := decimal.NewFromFloat(p.Price)

		out = append(out, models.Shipment{
			ID:              id,
			TrackingNumber:  models.TrackingNumberFor(id),
			ItemDescription: p.Title,
			Category:        p.Category,
			Quantity:        between(rng, 1, 50),
			Weight:          price.Mul(weightFactor).StringFixed(1),
			Dimensions: models.Dimensions{
				Length: between(rng, 20, 60),
				Width:  between(rng, 20, 50),
				Height: between(rng, 10, 40),
			},
			Origin:            origin,
			Destination:       destination,
			Carrier:           pick(rng, models.Carriers),
			Status:            status,
			Priority:          pick(rng, models.Priorities),
			ShipDate:          shipDate,
			EstimatedDelivery: estimated,
			ActualDelivery:    actual,
			Cost:              price.Mul(costFactor).StringFixed(2),
			Insurance:         rng.Float64() > 0.5,
			Signature:         rng.Float64() > 0.6,
			CustomerName:      "Customer " + id,
			Notes:             &notes,
			CreatedAt:         shipDate,
			UpdatedAt:         now,
		})
	}
	return out
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func pickExcept(rng *rand.Rand, items []string, except string) string {
	rest := make([]string, 0, len(items)-1)
	for _, it := range items {
		if it != except {
			rest = append(rest, it)
		}
	}
	return pick(rng, rest)
}

// between returns an int in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
