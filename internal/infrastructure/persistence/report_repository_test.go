package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/report"
	"github.com/shipshape/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReport(t *testing.T, deliveryID, restaurantID, supplierID uuid.UUID) *report.Report {
	t.Helper()

	itemID := uuid.New()
	r, err := report.New(deliveryID, restaurantID, supplierID, []report.ItemInput{
		{
			OriginalItemID:   &itemID,
			Name:             "Potatoes",
			ExpectedQuantity: dec("10"),
			ReceivedQuantity: dec("7"),
			MissingQuantity:  dec("3"),
			Unit:             "kg",
			PricePerUnit:     dec("2.00"),
		},
	})
	require.NoError(t, err)
	r.ClearDomainEvents()
	return r
}

func TestGormReportRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReportRepository(db)
	ctx := context.Background()

	r := newTestReport(t, uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, repo.Save(ctx, r))

	found, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, report.StatusPending, found.Status)
	assert.True(t, found.TotalMissingValue.Equal(dec("6.00")))
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Potatoes", found.Items[0].Name)
}

func TestGormReportRepository_ExistsForDelivery(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReportRepository(db)
	ctx := context.Background()
	deliveryID := uuid.New()

	exists, err := repo.ExistsForDelivery(ctx, deliveryID)
	require.NoError(t, err)
	assert.False(t, exists)

	r := newTestReport(t, deliveryID, uuid.New(), uuid.New())
	require.NoError(t, repo.Save(ctx, r))

	exists, err = repo.ExistsForDelivery(ctx, deliveryID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormReportRepository_SaveTransitionKeepsItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReportRepository(db)
	ctx := context.Background()
	supplierID := uuid.New()

	r := newTestReport(t, uuid.New(), uuid.New(), supplierID)
	require.NoError(t, repo.Save(ctx, r))

	supplier := identity.Principal{ID: supplierID, Role: identity.RoleSupplier}
	require.NoError(t, r.Acknowledge(supplier))
	r.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, r))

	found, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, report.StatusAcknowledged, found.Status)
	assert.Len(t, found.Items, 1)

	var itemCount int64
	require.NoError(t, db.Model(&report.Item{}).Where("report_id = ?", r.ID).Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount)
}

func TestGormReportRepository_FindBySupplierAndRestaurant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReportRepository(db)
	ctx := context.Background()
	supplierID := uuid.New()
	restaurantID := uuid.New()

	mine := newTestReport(t, uuid.New(), restaurantID, supplierID)
	other := newTestReport(t, uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, repo.Save(ctx, mine))
	require.NoError(t, repo.Save(ctx, other))

	bySupplier, err := repo.FindBySupplier(ctx, supplierID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, bySupplier, 1)
	assert.Equal(t, mine.ID, bySupplier[0].ID)

	byRestaurant, err := repo.FindByRestaurant(ctx, restaurantID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, byRestaurant, 1)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = string(report.StatusResolved)
	filtered, err := repo.FindBySupplier(ctx, supplierID, filter)
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestGormReportRepository_FindByDelivery(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReportRepository(db)
	ctx := context.Background()
	deliveryID := uuid.New()

	r := newTestReport(t, deliveryID, uuid.New(), uuid.New())
	require.NoError(t, repo.Save(ctx, r))

	reports, err := repo.FindByDelivery(ctx, deliveryID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Len(t, reports[0].Items, 1)
}
