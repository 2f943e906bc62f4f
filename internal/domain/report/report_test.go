package report

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

func testItems() []ItemInput {
	return []ItemInput{
		{
			Name:             "Potatoes",
			ExpectedQuantity: decimal.NewFromInt(10),
			ReceivedQuantity: decimal.NewFromInt(7),
			MissingQuantity:  decimal.NewFromInt(3),
			Unit:             "kg",
			PricePerUnit:     decimal.NewFromFloat(2.00),
		},
		{
			Name:             "Olive oil 5L",
			ExpectedQuantity: decimal.NewFromInt(1),
			ReceivedQuantity: decimal.Zero,
			MissingQuantity:  decimal.NewFromInt(1),
			Unit:             "pcs",
			PricePerUnit:     decimal.NewFromFloat(24.90),
		},
	}
}

func createTestReport(t *testing.T) (*Report, identity.Principal) {
	supplierID := uuid.New()
	r, err := New(uuid.New(), uuid.New(), supplierID, testItems())
	require.NoError(t, err)
	r.ClearDomainEvents()
	supplier := identity.Principal{ID: supplierID, Role: identity.RoleSupplier, DisplayName: "Kespro Oy"}
	return r, supplier
}

func TestNew_ComputesTotals(t *testing.T) {
	r, _ := createTestReport(t)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, 2, r.ItemsCount)
	assert.True(t, r.TotalMissingValue.Equal(decimal.NewFromFloat(30.90)))
	require.Len(t, r.Items, 2)
	assert.True(t, r.Items[0].TotalMissingValue.Equal(decimal.NewFromFloat(6.00)))
}

func TestNew_EmitsCreatedEvent(t *testing.T) {
	r, err := New(uuid.New(), uuid.New(), uuid.New(), testItems())
	require.NoError(t, err)
	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeReportCreated, events[0].EventType())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(uuid.New(), uuid.Nil, uuid.New(), testItems())
	assert.Error(t, err)

	_, err = New(uuid.New(), uuid.New(), uuid.Nil, testItems())
	assert.Error(t, err)

	_, err = New(uuid.New(), uuid.New(), uuid.New(), nil)
	assert.Error(t, err)

	bad := testItems()
	bad[0].MissingQuantity = decimal.Zero
	_, err = New(uuid.New(), uuid.New(), uuid.New(), bad)
	assert.Error(t, err)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     Status
		to       Status
		canTrans bool
	}{
		{StatusPending, StatusAcknowledged, true},
		{StatusPending, StatusResolved, true},
		{StatusPending, StatusDisputed, true},
		{StatusAcknowledged, StatusResolved, true},
		{StatusAcknowledged, StatusDisputed, true},
		{StatusAcknowledged, StatusPending, false},
		{StatusResolved, StatusAcknowledged, false},
		{StatusResolved, StatusDisputed, false},
		{StatusDisputed, StatusResolved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestReport_Acknowledge(t *testing.T) {
	r, supplier := createTestReport(t)

	require.NoError(t, r.Acknowledge(supplier))
	assert.Equal(t, StatusAcknowledged, r.Status)
	assert.NotNil(t, r.AcknowledgedAt)
	assert.Equal(t, supplier.ID, *r.LastActionBy)

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeReportAcknowledged, events[0].EventType())

	// already acknowledged
	assert.Error(t, r.Acknowledge(supplier))
}

func TestReport_Acknowledge_RejectsNonOwner(t *testing.T) {
	r, _ := createTestReport(t)

	restaurant := identity.Principal{ID: r.RestaurantID, Role: identity.RoleRestaurant}
	err := r.Acknowledge(restaurant)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED_TRANSITION", domainErr.Code)
	assert.Equal(t, StatusPending, r.Status)

	otherSupplier := identity.Principal{ID: uuid.New(), Role: identity.RoleSupplier}
	assert.Error(t, r.Acknowledge(otherSupplier))
}

func TestReport_Resolve(t *testing.T) {
	r, supplier := createTestReport(t)

	require.NoError(t, r.Resolve(supplier, ResolutionCreditIssued, "credited on next invoice"))
	assert.Equal(t, StatusResolved, r.Status)
	assert.Equal(t, ResolutionCreditIssued, *r.ResolutionType)
	assert.Equal(t, "credited on next invoice", r.Notes)
	assert.NotNil(t, r.ResolvedAt)

	// terminal
	assert.Error(t, r.Resolve(supplier, ResolutionOther, ""))
	assert.Error(t, r.Dispute(supplier, DisputeOther, ""))
}

func TestReport_Resolve_UnknownType(t *testing.T) {
	r, supplier := createTestReport(t)
	assert.Error(t, r.Resolve(supplier, ResolutionType("refund"), ""))
}

func TestReport_ResolveByOutgoingDelivery(t *testing.T) {
	r, supplier := createTestReport(t)

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.ResolveByOutgoingDelivery(supplier.ID, &date))
	assert.Equal(t, StatusResolved, r.Status)
	assert.Equal(t, ResolutionRedeliveryScheduled, *r.ResolutionType)
	assert.Contains(t, r.Notes, "2026-03-14")

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeReportResolved, events[0].EventType())
}

func TestReport_Dispute(t *testing.T) {
	r, supplier := createTestReport(t)
	require.NoError(t, r.Acknowledge(supplier))
	r.ClearDomainEvents()

	require.NoError(t, r.Dispute(supplier, DisputeQuantitiesIncorrect, "driver scanned 10 crates"))
	assert.Equal(t, StatusDisputed, r.Status)
	assert.Equal(t, DisputeQuantitiesIncorrect, *r.DisputeReason)
	assert.Equal(t, "driver scanned 10 crates", r.DisputeDetails)
	assert.NotNil(t, r.DisputedAt)

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeReportDisputed, events[0].EventType())
}

func TestReport_Dispute_UnknownReason(t *testing.T) {
	r, supplier := createTestReport(t)
	assert.Error(t, r.Dispute(supplier, DisputeReason("weather"), ""))
}
