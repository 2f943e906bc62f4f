package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shipshape/backend/internal/domain/delivery"
	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/report"
	"github.com/shipshape/backend/internal/domain/shared"
)

// MockDeliveryRepository is a mock implementation of delivery.Repository
type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]delivery.Delivery, error) {
	args := m.Called(ctx, restaurantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]delivery.Delivery, error) {
	args := m.Called(ctx, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, restaurantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeliveryRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeliveryRepository) Save(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReportRepository is a mock implementation of report.Repository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

func (m *MockReportRepository) FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]report.Report, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.Report), args.Error(1)
}

func (m *MockReportRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]report.Report, error) {
	args := m.Called(ctx, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.Report), args.Error(1)
}

func (m *MockReportRepository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]report.Report, error) {
	args := m.Called(ctx, restaurantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.Report), args.Error(1)
}

func (m *MockReportRepository) ExistsForDelivery(ctx context.Context, deliveryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, deliveryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReportRepository) Save(ctx context.Context, r *report.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func newTestService() (*DeliveryService, *MockDeliveryRepository, *MockReportRepository) {
	deliveryRepo := new(MockDeliveryRepository)
	reportRepo := new(MockReportRepository)
	svc := NewDeliveryService(deliveryRepo, reportRepo, zap.NewNop())
	return svc, deliveryRepo, reportRepo
}

func seedDelivery(t *testing.T, restaurantID uuid.UUID, supplierID *uuid.UUID) *delivery.Delivery {
	d, err := delivery.New(restaurantID, "Kespro Oy", time.Now(), "ORD-1001")
	require.NoError(t, err)
	if supplierID != nil {
		require.NoError(t, d.BindSupplier(*supplierID, ""))
	}
	for i, spec := range []struct {
		name  string
		qty   int64
		price float64
	}{
		{"Potatoes", 10, 2.00},
		{"Olive oil 5L", 1, 24.90},
	} {
		item, err := delivery.NewItem(d.ID, spec.name, decimal.NewFromInt(spec.qty), "pcs", decimal.NewFromFloat(spec.price), 0, i)
		require.NoError(t, err)
		require.NoError(t, d.AddItem(*item))
	}
	return d
}

func TestDeliveryService_Create(t *testing.T) {
	svc, deliveryRepo, _ := newTestService()
	restaurantID := uuid.New()

	deliveryRepo.On("Save", mock.Anything, mock.AnythingOfType("*delivery.Delivery")).Return(nil)

	resp, err := svc.Create(context.Background(), restaurantID, CreateDeliveryRequest{
		SupplierName: "Kespro Oy",
		DeliveryDate: time.Now(),
		Items: []CreateDeliveryItemInput{
			{Name: "Potatoes", Quantity: decimal.NewFromInt(10), Unit: "kg", PricePerUnit: decimal.NewFromFloat(2.00)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusDraft, resp.Status)
	assert.True(t, resp.TotalValue.Equal(decimal.NewFromFloat(20.00)))
	deliveryRepo.AssertExpectations(t)
}

func TestDeliveryService_List_SupplierTotalCountsSupplierRows(t *testing.T) {
	svc, deliveryRepo, _ := newTestService()
	supplierID := uuid.New()
	d := seedDelivery(t, uuid.New(), &supplierID)
	actor := identity.Principal{ID: supplierID, Role: identity.RoleSupplier}

	deliveryRepo.On("FindBySupplier", mock.Anything, supplierID, mock.Anything).
		Return([]delivery.Delivery{*d}, nil)
	deliveryRepo.On("CountBySupplier", mock.Anything, supplierID, mock.Anything).
		Return(int64(1), nil)

	deliveries, total, err := svc.List(context.Background(), actor, DeliveryListFilter{})
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, int64(1), total)
	deliveryRepo.AssertNotCalled(t, "CountByRestaurant", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliveryService_MarkItemMissing(t *testing.T) {
	svc, deliveryRepo, _ := newTestService()
	restaurantID := uuid.New()
	d := seedDelivery(t, restaurantID, nil)
	actor := identity.Principal{ID: restaurantID, Role: identity.RoleRestaurant}

	deliveryRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	deliveryRepo.On("Save", mock.Anything, d).Return(nil)

	resp, err := svc.MarkItemMissing(context.Background(), actor, d.ID, d.Items[0].ID, MarkItemMissingRequest{
		MissingQuantity: decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	assert.True(t, resp.MissingValue.Equal(decimal.NewFromFloat(6.00)))
	assert.Equal(t, delivery.ItemStatusMissing, resp.Items[0].Status)
	assert.True(t, resp.Items[0].ReceivedQuantity.Equal(decimal.NewFromInt(7)))
}

func TestDeliveryService_MarkItemMissing_OutOfRange(t *testing.T) {
	svc, deliveryRepo, _ := newTestService()
	restaurantID := uuid.New()
	d := seedDelivery(t, restaurantID, nil)
	actor := identity.Principal{ID: restaurantID, Role: identity.RoleRestaurant}

	deliveryRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)

	_, err := svc.MarkItemMissing(context.Background(), actor, d.ID, d.Items[0].ID, MarkItemMissingRequest{
		MissingQuantity: decimal.NewFromInt(11),
	})
	require.Error(t, err)
	deliveryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDeliveryService_ForbidsForeignDelivery(t *testing.T) {
	svc, deliveryRepo, _ := newTestService()
	d := seedDelivery(t, uuid.New(), nil)
	stranger := identity.Principal{ID: uuid.New(), Role: identity.RoleRestaurant}

	deliveryRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)

	_, err := svc.GetByID(context.Background(), stranger, d.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestDeliveryService_Finalize_RejectsPendingItems(t *testing.T) {
	svc, deliveryRepo, _ := newTestService()
	restaurantID := uuid.New()
	d := seedDelivery(t, restaurantID, nil)
	actor := identity.Principal{ID: restaurantID, Role: identity.RoleRestaurant}

	deliveryRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)

	_, err := svc.Finalize(context.Background(), actor, d.ID, FinalizeDeliveryRequest{Status: delivery.StatusComplete})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 item(s)")
	deliveryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDeliveryService_Finalize_CreatesReportOnce(t *testing.T) {
	svc, deliveryRepo, reportRepo := newTestService()
	restaurantID := uuid.New()
	supplierID := uuid.New()
	d := seedDelivery(t, restaurantID, &supplierID)
	actor := identity.Principal{ID: restaurantID, Role: identity.RoleRestaurant}

	require.NoError(t, d.Items[0].MarkMissing(decimal.NewFromInt(3)))
	d.Items[1].MarkReceived()

	deliveryRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	deliveryRepo.On("Save", mock.Anything, d).Return(nil)
	reportRepo.On("ExistsForDelivery", mock.Anything, d.ID).Return(false, nil)
	reportRepo.On("Save", mock.Anything, mock.AnythingOfType("*report.Report")).Return(nil)

	resp, err := svc.Finalize(context.Background(), actor, d.ID, FinalizeDeliveryRequest{Status: delivery.StatusComplete})
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusPendingRedelivery, resp.Delivery.Status)
	assert.True(t, resp.ReportCreated)
	require.NotNil(t, resp.ReportID)

	saved := reportRepo.Calls[1].Arguments.Get(1).(*report.Report)
	assert.True(t, saved.TotalMissingValue.Equal(decimal.NewFromFloat(6.00)))
	assert.Equal(t, 1, saved.ItemsCount)
}

func TestDeliveryService_Finalize_SkipsExistingReport(t *testing.T) {
	svc, deliveryRepo, reportRepo := newTestService()
	restaurantID := uuid.New()
	supplierID := uuid.New()
	d := seedDelivery(t, restaurantID, &supplierID)
	actor := identity.Principal{ID: restaurantID, Role: identity.RoleRestaurant}

	require.NoError(t, d.Items[0].MarkMissing(decimal.NewFromInt(3)))
	d.Items[1].MarkReceived()

	deliveryRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	deliveryRepo.On("Save", mock.Anything, d).Return(nil)
	reportRepo.On("ExistsForDelivery", mock.Anything, d.ID).Return(true, nil)

	resp, err := svc.Finalize(context.Background(), actor, d.ID, FinalizeDeliveryRequest{Status: delivery.StatusComplete})
	require.NoError(t, err)
	assert.False(t, resp.ReportCreated)
	assert.Empty(t, resp.Warning)
	reportRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDeliveryService_Finalize_DegradesOnReportFailure(t *testing.T) {
	svc, deliveryRepo, reportRepo := newTestService()
	restaurantID := uuid.New()
	supplierID := uuid.New()
	d := seedDelivery(t, restaurantID, &supplierID)
	actor := identity.Principal{ID: restaurantID, Role: identity.RoleRestaurant}

	require.NoError(t, d.Items[0].MarkMissing(decimal.NewFromInt(3)))
	d.Items[1].MarkReceived()

	deliveryRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	deliveryRepo.On("Save", mock.Anything, d).Return(nil)
	reportRepo.On("ExistsForDelivery", mock.Anything, d.ID).Return(false, nil)
	reportRepo.On("Save", mock.Anything, mock.AnythingOfType("*report.Report")).Return(errors.New("connection reset"))

	resp, err := svc.Finalize(context.Background(), actor, d.ID, FinalizeDeliveryRequest{Status: delivery.StatusComplete})
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusPendingRedelivery, resp.Delivery.Status)
	assert.False(t, resp.ReportCreated)
	assert.NotEmpty(t, resp.Warning)
}

func TestDeliveryService_Finalize_CompleteWithoutShortfall(t *testing.T) {
	svc, deliveryRepo, reportRepo := newTestService()
	restaurantID := uuid.New()
	d := seedDelivery(t, restaurantID, nil)
	actor := identity.Principal{ID: restaurantID, Role: identity.RoleRestaurant}

	for i := range d.Items {
		d.Items[i].MarkReceived()
	}

	deliveryRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	deliveryRepo.On("Save", mock.Anything, d).Return(nil)

	resp, err := svc.Finalize(context.Background(), actor, d.ID, FinalizeDeliveryRequest{Status: delivery.StatusComplete})
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusComplete, resp.Delivery.Status)
	assert.False(t, resp.ReportCreated)
	reportRepo.AssertNotCalled(t, "ExistsForDelivery", mock.Anything, mock.Anything)
}

func TestDeliveryService_MarkResolved(t *testing.T) {
	svc, deliveryRepo, _ := newTestService()
	restaurantID := uuid.New()
	supplierID := uuid.New()
	d := seedDelivery(t, restaurantID, &supplierID)

	require.NoError(t, d.Items[0].MarkMissing(decimal.NewFromInt(3)))
	d.Items[1].MarkReceived()
	require.NoError(t, d.Finalize(delivery.StatusComplete))
	require.Equal(t, delivery.StatusPendingRedelivery, d.Status)

	deliveryRepo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	deliveryRepo.On("Save", mock.Anything, d).Return(nil)

	require.NoError(t, svc.MarkResolved(context.Background(), d.ID))
	assert.Equal(t, delivery.StatusResolved, d.Status)
}
