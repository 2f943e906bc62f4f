package outgoing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/shared"
)

func testInputs() []ItemInput {
	return []ItemInput{
		{Name: "Potatoes", Quantity: decimal.NewFromInt(3), Unit: "kg", PricePerUnit: decimal.NewFromFloat(2.00)},
		{Name: "Olive oil 5L", Quantity: decimal.NewFromInt(1), Unit: "pcs", PricePerUnit: decimal.NewFromFloat(24.90)},
	}
}

func createTestOutgoing(t *testing.T) (*OutgoingDelivery, identity.Principal, identity.Principal) {
	supplierID := uuid.New()
	restaurantID := uuid.New()
	reportID := uuid.New()
	o, err := New(supplierID, restaurantID, nil, &reportID, testInputs(), nil, "replacement run")
	require.NoError(t, err)
	o.ClearDomainEvents()
	supplier := identity.Principal{ID: supplierID, Role: identity.RoleSupplier}
	restaurant := identity.Principal{ID: restaurantID, Role: identity.RoleRestaurant}
	return o, supplier, restaurant
}

func TestNew_ComputesTotals(t *testing.T) {
	o, _, _ := createTestOutgoing(t)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 2, o.ItemsCount)
	assert.True(t, o.TotalValue.Equal(decimal.NewFromFloat(30.90)))
	require.Len(t, o.Items, 2)
	assert.True(t, o.Items[0].TotalPrice.Equal(decimal.NewFromFloat(6.00)))
	assert.Equal(t, o.SupplierID, *o.LastActionBy)
}

func TestNew_EmitsCreatedEvent(t *testing.T) {
	o, err := New(uuid.New(), uuid.New(), nil, nil, testInputs(), nil, "")
	require.NoError(t, err)
	events := o.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOutgoingCreated, events[0].EventType())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(uuid.Nil, uuid.New(), nil, nil, testInputs(), nil, "")
	assert.Error(t, err)

	_, err = New(uuid.New(), uuid.New(), nil, nil, nil, nil, "")
	assert.Error(t, err)

	bad := testInputs()
	bad[0].Quantity = decimal.Zero
	_, err = New(uuid.New(), uuid.New(), nil, nil, bad, nil, "")
	assert.Error(t, err)
}

func TestOutgoing_HappyPath(t *testing.T) {
	o, supplier, restaurant := createTestOutgoing(t)

	require.NoError(t, o.MarkInTransit(supplier))
	assert.Equal(t, StatusInTransit, o.Status)

	require.NoError(t, o.MarkDelivered(supplier, nil))
	assert.Equal(t, StatusDelivered, o.Status)
	require.NotNil(t, o.ActualDeliveryDate)

	require.NoError(t, o.Confirm(restaurant))
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Equal(t, restaurant.ID, *o.LastActionBy)

	events := o.GetDomainEvents()
	require.Len(t, events, 3)
	assert.Equal(t, EventTypeOutgoingInTransit, events[0].EventType())
	assert.Equal(t, EventTypeOutgoingDelivered, events[1].EventType())
	assert.Equal(t, EventTypeOutgoingConfirmed, events[2].EventType())
}

func TestOutgoing_DeliveredWithExplicitDate(t *testing.T) {
	o, supplier, _ := createTestOutgoing(t)
	require.NoError(t, o.MarkInTransit(supplier))

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, o.MarkDelivered(supplier, &date))
	assert.True(t, o.ActualDeliveryDate.Equal(date))
}

func TestOutgoing_Dispute(t *testing.T) {
	o, supplier, restaurant := createTestOutgoing(t)
	require.NoError(t, o.MarkInTransit(supplier))
	require.NoError(t, o.MarkDelivered(supplier, nil))
	o.ClearDomainEvents()

	err := o.Dispute(restaurant, "")
	require.Error(t, err)
	assert.Equal(t, StatusDelivered, o.Status)

	require.NoError(t, o.Dispute(restaurant, "two crates short"))
	assert.Equal(t, StatusDisputed, o.Status)
	assert.Equal(t, "two crates short", o.DisputeReason)

	events := o.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOutgoingDisputed, events[0].EventType())
}

func TestOutgoing_ActorAuthorization(t *testing.T) {
	o, supplier, restaurant := createTestOutgoing(t)

	// restaurant cannot dispatch
	err := o.MarkInTransit(restaurant)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED_TRANSITION", domainErr.Code)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, supplier.ID, *o.LastActionBy)

	// unrelated supplier cannot dispatch either
	stranger := identity.Principal{ID: uuid.New(), Role: identity.RoleSupplier}
	assert.Error(t, o.MarkInTransit(stranger))

	require.NoError(t, o.MarkInTransit(supplier))
	require.NoError(t, o.MarkDelivered(supplier, nil))

	// supplier cannot settle its own shipment
	assert.Error(t, o.Confirm(supplier))
	assert.Error(t, o.Dispute(supplier, "self-dispute"))
}

func TestOutgoing_SkipAndTerminalTransitions(t *testing.T) {
	o, supplier, restaurant := createTestOutgoing(t)

	// cannot skip in_transit
	assert.Error(t, o.MarkDelivered(supplier, nil))
	// cannot settle before arrival
	assert.Error(t, o.Confirm(restaurant))

	require.NoError(t, o.MarkInTransit(supplier))
	require.NoError(t, o.MarkDelivered(supplier, nil))
	require.NoError(t, o.Confirm(restaurant))

	assert.True(t, o.Status.IsTerminal())
	assert.Error(t, o.Dispute(restaurant, "too late"))
	assert.Error(t, o.MarkInTransit(supplier))
}
