package models_test

import (
	"strings"
	"testing"

	"tms/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestTrackingNumberFor(t *testing.T) {
	assert.Equal(t, "TMS000001", models.TrackingNumberFor("1"))
	assert.Equal(t, "TMS000101", models.TrackingNumberFor("101"))
	assert.Equal(t, "TMS1234567", models.TrackingNumberFor("1234567"))
}

func TestTruncateNotes(t *testing.T) {
	assert.Nil(t, models.TruncateNotes(nil))

	short := "fragile"
	assert.Equal(t, "fragile", *models.TruncateNotes(&short))

	long := strings.Repeat("é", 100)
	got := models.TruncateNotes(&long)
	assert.Equal(t, 80, len([]rune(*got)))
}

func TestShipmentPatch_ApplyToOnlyTouchesProvidedFields(t *testing.T) {
	s := models.Shipment{
		ID:       "1",
		Status:   models.StatusPending,
		Carrier:  "UPS",
		Quantity: 4,
	}
	status := models.StatusInTransit
	qty := 0
	models.ShipmentPatch{Status: &status, Quantity: &qty}.ApplyTo(&s)

	assert.Equal(t, models.StatusInTransit, s.Status)
	assert.Equal(t, 0, s.Quantity)
	assert.Equal(t, "UPS", s.Carrier)
	assert.Equal(t, "1", s.ID)
}

func TestStatusAndPriorityValid(t *testing.T) {
	for _, s := range models.ShipmentStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, models.ShipmentStatus("delivered").Valid())
	assert.True(t, models.PriorityOvernight.Valid())
	assert.False(t, models.Priority("Same Day").Valid())
}

func TestIdentityIsAdmin(t *testing.T) {
	var nobody *models.Identity
	assert.False(t, nobody.IsAdmin())
	assert.True(t, (&models.Identity{Role: models.RoleAdmin}).IsAdmin())
	assert.False(t, (&models.Identity{Role: models.RoleEmployee}).IsAdmin())
}
