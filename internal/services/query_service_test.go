package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tms/internal/apperror"
	"tms/internal/models"
	"tms/internal/repositories"
	"tms/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func shipmentFixture(id int, status models.ShipmentStatus, carrier, category, cost string) models.Shipment {
	sid := fmt.Sprint(id)
	return models.Shipment{
		ID:                sid,
		TrackingNumber:    models.TrackingNumberFor(sid),
		ItemDescription:   "Item " + sid,
		Category:          category,
		Quantity:          1,
		Weight:            "1.5",
		Dimensions:        models.Dimensions{Length: 10, Width: 10, Height: 10},
		Origin:            "Boston, USA",
		Destination:       "Paris, France",
		Carrier:           carrier,
		Status:            status,
		Priority:          models.PriorityStandard,
		ShipDate:          baseTime.Add(time.Duration(id) * time.Hour),
		EstimatedDelivery: baseTime.Add(72 * time.Hour),
		Cost:              cost,
		CustomerName:      "Customer " + sid,
		CreatedAt:         baseTime,
		UpdatedAt:         baseTime,
	}
}

func seededQueryService(t *testing.T, shipments ...models.Shipment) *services.QueryService {
	t.Helper()
	repo := repositories.NewMemoryShipmentRepository()
	for i := range shipments {
		require.NoError(t, repo.Create(context.Background(), &shipments[i]))
	}
	return services.NewQueryService(repo)
}

func ids(shipments []models.Shipment) []string {
	out := make([]string, len(shipments))
	for i, s := range shipments {
		out[i] = s.ID
	}
	return out
}

func TestQueryService_ListFilters(t *testing.T) {
	svc := seededQueryService(t,
		shipmentFixture(1, models.StatusPending, "UPS", "electronics", "10"),
		shipmentFixture(2, models.StatusDelivered, "DHL", "jewelery", "20"),
		shipmentFixture(3, models.StatusPending, "DHL", "electronics", "30"),
	)
	ctx := context.Background()

	got, err := svc.List(ctx, models.ShipmentFilter{Status: "Pending"}, models.ShipmentSort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(got))

	got, err = svc.List(ctx, models.ShipmentFilter{Status: "pending"}, models.ShipmentSort{})
	require.NoError(t, err)
	assert.Empty(t, got, "status matches exactly")

	got, err = svc.List(ctx, models.ShipmentFilter{Carrier: "DHL", Category: "electronics"}, models.ShipmentSort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(got))

	got, err = svc.List(ctx, models.ShipmentFilter{TrackingNumber: "tms000002"}, models.ShipmentSort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(got), "tracking number is a case-insensitive substring")

	got, err = svc.List(ctx, models.ShipmentFilter{CustomerName: "customer 3", Destination: "paris"}, models.ShipmentSort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(got))

	got, err = svc.List(ctx, models.ShipmentFilter{}, models.ShipmentSort{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestQueryService_ListSorts(t *testing.T) {
	svc := seededQueryService(t,
		shipmentFixture(1, models.StatusPending, "UPS", "a", "9.50"),
		shipmentFixture(2, models.StatusDelivered, "DHL", "a", "100"),
		shipmentFixture(3, models.StatusPending, "FedEx", "a", "25"),
		shipmentFixture(4, models.StatusDelayed, "DHL", "a", "25"),
	)
	ctx := context.Background()

	got, err := svc.List(ctx, models.ShipmentFilter{}, models.ShipmentSort{Field: models.SortCost})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "4", "2"}, ids(got), "cost sorts numerically, ties keep insertion order")

	got, err = svc.List(ctx, models.ShipmentFilter{}, models.ShipmentSort{Field: models.SortCost, Order: models.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "4", "1"}, ids(got), "descending keeps ties in insertion order")

	got, err = svc.List(ctx, models.ShipmentFilter{}, models.ShipmentSort{Field: models.SortCarrier})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids(got))

	got, err = svc.List(ctx, models.ShipmentFilter{}, models.ShipmentSort{Field: models.SortShipDate, Order: models.SortDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(got))

	_, err = svc.List(ctx, models.ShipmentFilter{}, models.ShipmentSort{Field: "weight"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.List(ctx, models.ShipmentFilter{}, models.ShipmentSort{Field: models.SortCost, Order: "sideways"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestQueryService_Get(t *testing.T) {
	svc := seededQueryService(t, shipmentFixture(1, models.StatusPending, "UPS", "a", "1"))
	ctx := context.Background()

	got, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "TMS000001", got.TrackingNumber)

	got, err = svc.Get(ctx, "404")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueryService_Paginate(t *testing.T) {
	var fixtures []models.Shipment
	for i := 1; i <= 23; i++ {
		category := "even"
		if i%2 == 1 {
			category = "odd"
		}
		fixtures = append(fixtures, shipmentFixture(i, models.StatusPending, "UPS", category, "1"))
	}
	svc := seededQueryService(t, fixtures...)
	ctx := context.Background()

	tests := []struct {
		name        string
		page, limit int
		filter      models.ShipmentFilter
		wantIDs     []string
		wantPage    int
		wantPages   int
		wantTotal   int
		wantNext    bool
		wantPrev    bool
	}{
		{
			name: "defaults", page: 0, limit: 0,
			wantIDs:  []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
			wantPage: 1, wantPages: 3, wantTotal: 23, wantNext: true,
		},
		{
			name: "last partial page", page: 3, limit: 10,
			wantIDs:  []string{"21", "22", "23"},
			wantPage: 3, wantPages: 3, wantTotal: 23, wantPrev: true,
		},
		{
			name: "out of range", page: 9, limit: 10,
			wantIDs:  []string{},
			wantPage: 9, wantPages: 3, wantTotal: 23, wantPrev: true,
		},
		{
			name: "category filter applies", page: 2, limit: 5, filter: models.ShipmentFilter{Category: "even"},
			wantIDs:  []string{"12", "14", "16", "18", "20"},
			wantPage: 2, wantPages: 3, wantTotal: 11, wantNext: true, wantPrev: true,
		},
		{
			name: "empty result", page: 1, limit: 10, filter: models.ShipmentFilter{Carrier: "USPS"},
			wantIDs:  []string{},
			wantPage: 1, wantPages: 0, wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := svc.Paginate(ctx, tt.page, tt.limit, tt.filter, models.ShipmentSort{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(conn.Shipments))
			assert.Equal(t, tt.wantPage, conn.CurrentPage)
			assert.Equal(t, tt.wantPages, conn.TotalPages)
			assert.Equal(t, tt.wantTotal, conn.TotalCount)
			assert.Equal(t, tt.wantNext, conn.HasNextPage)
			assert.Equal(t, tt.wantPrev, conn.HasPreviousPage)
		})
	}
}
