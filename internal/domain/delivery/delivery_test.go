package delivery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipshape/backend/internal/domain/shared"
)

func createTestDelivery(t *testing.T) *Delivery {
	d, err := New(uuid.New(), "Kespro Tukku", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "INV-1001")
	require.NoError(t, err)
	return d
}

// addTestItem appends an item and returns its pointer into d.Items. The
// pointer is invalidated by the next AddItem call; re-fetch via GetItem
// after all items are added.
func addTestItem(t *testing.T, d *Delivery, name string, qty float64, unit string, price float64) *Item {
	item, err := NewItem(d.ID, name, decimal.NewFromFloat(qty), unit, decimal.NewFromFloat(price), 0, len(d.Items))
	require.NoError(t, err)
	require.NoError(t, d.AddItem(*item))
	return d.GetItem(item.ID)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(uuid.Nil, "Supplier", time.Now(), "")
	assert.Error(t, err)

	_, err = New(uuid.New(), "", time.Now(), "")
	assert.Error(t, err)
}

func TestNewItem_Validation(t *testing.T) {
	deliveryID := uuid.New()

	_, err := NewItem(deliveryID, "", decimal.NewFromInt(1), "kg", decimal.NewFromInt(1), 0, 0)
	assert.Error(t, err)

	_, err = NewItem(deliveryID, "Tomatoes", decimal.Zero, "kg", decimal.NewFromInt(1), 0, 0)
	assert.Error(t, err)

	_, err = NewItem(deliveryID, "Tomatoes", decimal.NewFromInt(1), "kg", decimal.NewFromInt(-1), 0, 0)
	assert.Error(t, err)
}

func TestItem_MarkMissing(t *testing.T) {
	d := createTestDelivery(t)
	item := addTestItem(t, d, "Potatoes", 10, "kg", 2.00)

	// 3 of 10 reported missing
	require.NoError(t, item.MarkMissing(decimal.NewFromInt(3)))
	assert.Equal(t, ItemStatusMissing, item.Status)
	assert.True(t, item.MissingQuantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, item.ReceivedQuantity.Equal(decimal.NewFromInt(7)))
	assert.True(t, item.MissingValue().Equal(decimal.NewFromFloat(6.00)))
}

func TestItem_MarkMissing_ZeroNormalizesToReceived(t *testing.T) {
	d := createTestDelivery(t)
	item := addTestItem(t, d, "Potatoes", 10, "kg", 2.00)

	require.NoError(t, item.MarkMissing(decimal.Zero))
	assert.Equal(t, ItemStatusReceived, item.Status)
	assert.True(t, item.ReceivedQuantity.Equal(item.Quantity))
	assert.True(t, item.MissingQuantity.IsZero())
}

func TestItem_MarkMissing_OutOfRange(t *testing.T) {
	d := createTestDelivery(t)
	item := addTestItem(t, d, "Potatoes", 10, "kg", 2.00)

	err := item.MarkMissing(decimal.NewFromInt(11))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)

	assert.Error(t, item.MarkMissing(decimal.NewFromInt(-1)))
	assert.Error(t, item.MarkMissing(decimal.NewFromFloat(0.5)))
}

func TestItem_MarkAllMissing_SingleQuantityShortcut(t *testing.T) {
	d := createTestDelivery(t)
	item := addTestItem(t, d, "Olive oil 5L", 1, "pcs", 24.90)

	// quantity=1 single tap, no quantity prompt
	require.NoError(t, item.MarkAllMissing())
	assert.Equal(t, ItemStatusMissing, item.Status)
	assert.True(t, item.MissingQuantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, item.ReceivedQuantity.IsZero())
}

func TestItem_Reset(t *testing.T) {
	d := createTestDelivery(t)
	item := addTestItem(t, d, "Potatoes", 10, "kg", 2.00)

	require.NoError(t, item.MarkMissing(decimal.NewFromInt(3)))
	item.Reset()
	assert.Equal(t, ItemStatusPending, item.Status)
	assert.True(t, item.ReceivedQuantity.IsZero())
	assert.True(t, item.MissingQuantity.IsZero())
}

func TestDelivery_Finalize_RejectsPendingItems(t *testing.T) {
	d := createTestDelivery(t)
	addTestItem(t, d, "Potatoes", 10, "kg", 2.00)
	addTestItem(t, d, "Carrots", 5, "kg", 1.50)

	err := d.Finalize(StatusComplete)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	assert.Contains(t, domainErr.Message, "2 item(s)")
}

func TestDelivery_Finalize_DraftHasNoCompletenessPrecondition(t *testing.T) {
	d := createTestDelivery(t)
	addTestItem(t, d, "Potatoes", 10, "kg", 2.00)

	require.NoError(t, d.Finalize(StatusDraft))
	assert.Equal(t, StatusDraft, d.Status)
	assert.Empty(t, d.GetDomainEvents())
}

func TestDelivery_Finalize_CompleteWithShortfallDemotes(t *testing.T) {
	d := createTestDelivery(t)
	addTestItem(t, d, "Carrots", 5, "kg", 1.50)
	short := addTestItem(t, d, "Potatoes", 10, "kg", 2.00)
	ok := d.GetItem(d.Items[0].ID)

	ok.MarkReceived()
	require.NoError(t, short.MarkMissing(decimal.NewFromInt(3)))

	require.NoError(t, d.Finalize(StatusComplete))
	assert.Equal(t, StatusPendingRedelivery, d.Status)
	assert.True(t, d.MissingValue.Equal(decimal.NewFromFloat(6.00)))

	events := d.GetDomainEvents()
	require.Len(t, events, 1)
	finalized, ok2 := events[0].(*DeliveryFinalizedEvent)
	require.True(t, ok2)
	assert.Equal(t, StatusPendingRedelivery, finalized.Status)
	require.Len(t, finalized.MissingItems, 1)
	assert.True(t, finalized.MissingItems[0].MissingQuantity.Equal(decimal.NewFromInt(3)))
}

func TestDelivery_Finalize_CompleteWithoutShortfall(t *testing.T) {
	d := createTestDelivery(t)
	item := addTestItem(t, d, "Carrots", 5, "kg", 1.50)
	item.MarkReceived()

	require.NoError(t, d.Finalize(StatusComplete))
	assert.Equal(t, StatusComplete, d.Status)
	assert.True(t, d.MissingValue.IsZero())
	assert.True(t, d.TotalValue.Equal(decimal.NewFromFloat(7.50)))
}

func TestDelivery_MarkResolved(t *testing.T) {
	d := createTestDelivery(t)
	item := addTestItem(t, d, "Potatoes", 10, "kg", 2.00)
	require.NoError(t, item.MarkMissing(decimal.NewFromInt(2)))
	require.NoError(t, d.Finalize(StatusComplete))
	require.Equal(t, StatusPendingRedelivery, d.Status)

	require.NoError(t, d.MarkResolved())
	assert.Equal(t, StatusResolved, d.Status)

	// resolved is terminal
	assert.Error(t, d.MarkResolved())
}

func TestDelivery_BindSupplier(t *testing.T) {
	d := createTestDelivery(t)
	assert.False(t, d.HasSupplier())

	assert.Error(t, d.BindSupplier(uuid.Nil, ""))

	supplierID := uuid.New()
	require.NoError(t, d.BindSupplier(supplierID, "Kespro Oy"))
	assert.True(t, d.HasSupplier())
	assert.Equal(t, supplierID, *d.SupplierID)
	assert.Equal(t, "Kespro Oy", d.SupplierName)
}

func TestDelivery_AddItem_RejectedAfterFinalize(t *testing.T) {
	d := createTestDelivery(t)
	item := addTestItem(t, d, "Carrots", 5, "kg", 1.50)
	item.MarkReceived()
	require.NoError(t, d.Finalize(StatusComplete))

	extra, err := NewItem(d.ID, "Onions", decimal.NewFromInt(1), "kg", decimal.NewFromInt(1), 0, 1)
	require.NoError(t, err)
	assert.Error(t, d.AddItem(*extra))
}
