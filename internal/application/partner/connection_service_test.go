package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/partner"
	"github.com/shipshape/backend/internal/domain/shared"
)

// MockConnectionRequestRepository is a mock implementation of
// partner.ConnectionRequestRepository
type MockConnectionRequestRepository struct {
	mock.Mock
}

func (m *MockConnectionRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.ConnectionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ConnectionRequest), args.Error(1)
}

func (m *MockConnectionRequestRepository) FindActiveBetween(ctx context.Context, a, b uuid.UUID) (*partner.ConnectionRequest, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ConnectionRequest), args.Error(1)
}

func (m *MockConnectionRequestRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID, filter shared.Filter) ([]partner.ConnectionRequest, error) {
	args := m.Called(ctx, receiverID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.ConnectionRequest), args.Error(1)
}

func (m *MockConnectionRequestRepository) ListBySender(ctx context.Context, senderID uuid.UUID, filter shared.Filter) ([]partner.ConnectionRequest, error) {
	args := m.Called(ctx, senderID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.ConnectionRequest), args.Error(1)
}

func (m *MockConnectionRequestRepository) Create(ctx context.Context, r *partner.ConnectionRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockConnectionRequestRepository) Save(ctx context.Context, r *partner.ConnectionRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Create(ctx context.Context, s *partner.Supplier) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSupplierRepository) Save(ctx context.Context, s *partner.Supplier) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of partner.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Search(ctx context.Context, supplierID uuid.UUID, query string, filter shared.Filter) ([]partner.Product, error) {
	args := m.Called(ctx, supplierID, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *partner.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func newTestService() (*ConnectionService, *MockConnectionRequestRepository, *MockSupplierRepository, *MockProductRepository) {
	requestRepo := new(MockConnectionRequestRepository)
	supplierRepo := new(MockSupplierRepository)
	productRepo := new(MockProductRepository)
	svc := NewConnectionService(requestRepo, supplierRepo, productRepo, zap.NewNop())
	return svc, requestRepo, supplierRepo, productRepo
}

func TestConnectionService_Send(t *testing.T) {
	svc, requestRepo, _, _ := newTestService()
	actor := identity.Principal{ID: uuid.New(), Role: identity.RoleRestaurant}
	receiverID := uuid.New()

	requestRepo.On("FindActiveBetween", mock.Anything, actor.ID, receiverID).Return(nil, nil)
	requestRepo.On("Create", mock.Anything, mock.AnythingOfType("*partner.ConnectionRequest")).Return(nil)

	resp, err := svc.Send(context.Background(), actor, SendConnectionRequest{ReceiverID: receiverID, Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, partner.RequestPending, resp.Status)
	assert.Equal(t, identity.RoleSupplier, resp.ReceiverRole)
}

func TestConnectionService_Send_DuplicateGuard(t *testing.T) {
	svc, requestRepo, _, _ := newTestService()
	actor := identity.Principal{ID: uuid.New(), Role: identity.RoleRestaurant}
	receiverID := uuid.New()

	existing, err := partner.NewConnectionRequest(actor.ID, identity.RoleRestaurant, receiverID, "")
	require.NoError(t, err)

	requestRepo.On("FindActiveBetween", mock.Anything, actor.ID, receiverID).Return(existing, nil)

	_, err = svc.Send(context.Background(), actor, SendConnectionRequest{ReceiverID: receiverID})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "REQUEST_PENDING", domainErr.Code)
	requestRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConnectionService_Send_AlreadyConnected(t *testing.T) {
	svc, requestRepo, _, _ := newTestService()
	actor := identity.Principal{ID: uuid.New(), Role: identity.RoleRestaurant}
	receiverID := uuid.New()

	existing, err := partner.NewConnectionRequest(actor.ID, identity.RoleRestaurant, receiverID, "")
	require.NoError(t, err)
	receiver := identity.Principal{ID: receiverID, Role: identity.RoleSupplier}
	require.NoError(t, existing.Accept(receiver))

	requestRepo.On("FindActiveBetween", mock.Anything, actor.ID, receiverID).Return(existing, nil)

	_, err = svc.Send(context.Background(), actor, SendConnectionRequest{ReceiverID: receiverID})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_CONNECTED", domainErr.Code)
}

func TestConnectionService_Accept(t *testing.T) {
	svc, requestRepo, _, _ := newTestService()

	r, err := partner.NewConnectionRequest(uuid.New(), identity.RoleRestaurant, uuid.New(), "")
	require.NoError(t, err)
	r.ClearDomainEvents()
	receiver := identity.Principal{ID: r.ReceiverID, Role: identity.RoleSupplier}

	requestRepo.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	requestRepo.On("Save", mock.Anything, r).Return(nil)

	resp, err := svc.Accept(context.Background(), receiver, r.ID)
	require.NoError(t, err)
	assert.Equal(t, partner.RequestAccepted, resp.Status)
}

func TestConnectionService_Settle_ForbidsThirdParty(t *testing.T) {
	svc, requestRepo, _, _ := newTestService()

	r, err := partner.NewConnectionRequest(uuid.New(), identity.RoleRestaurant, uuid.New(), "")
	require.NoError(t, err)

	requestRepo.On("FindByID", mock.Anything, r.ID).Return(r, nil)

	stranger := identity.Principal{ID: uuid.New(), Role: identity.RoleSupplier}
	_, err = svc.Accept(context.Background(), stranger, r.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestConnectionService_SearchSuppliers_AnnotatesStatus(t *testing.T) {
	svc, requestRepo, supplierRepo, _ := newTestService()
	actor := identity.Principal{ID: uuid.New(), Role: identity.RoleRestaurant}

	s1, err := partner.NewSupplier("Kespro Oy", "", "", true, 10)
	require.NoError(t, err)
	s2, err := partner.NewSupplier("Heinon Tukku", "", "", false, 5)
	require.NoError(t, err)

	accepted, err := partner.NewConnectionRequest(actor.ID, identity.RoleRestaurant, s1.ID, "")
	require.NoError(t, err)
	require.NoError(t, accepted.Accept(identity.Principal{ID: s1.ID, Role: identity.RoleSupplier}))

	supplierRepo.On("Search", mock.Anything, "tukku", mock.AnythingOfType("shared.Filter")).
		Return([]partner.Supplier{*s1, *s2}, nil)
	requestRepo.On("FindActiveBetween", mock.Anything, actor.ID, s1.ID).Return(accepted, nil)
	requestRepo.On("FindActiveBetween", mock.Anything, actor.ID, s2.ID).Return(nil, nil)

	resp, err := svc.SearchSuppliers(context.Background(), actor, SupplierSearchFilter{Query: "tukku"})
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, partner.ConnectionConnected, resp[0].ConnectionStatus)
	assert.Equal(t, partner.ConnectionNone, resp[1].ConnectionStatus)
}

func TestConnectionService_ListSupplierProducts(t *testing.T) {
	svc, _, supplierRepo, productRepo := newTestService()

	sup, err := partner.NewSupplier("Kespro Oy", "", "", true, 10)
	require.NoError(t, err)
	price := decimal.NewFromFloat(24.90)
	p, err := partner.NewProduct(sup.ID, "Olive oil 5L", "OIL-5", &price, "")
	require.NoError(t, err)

	supplierRepo.On("FindByID", mock.Anything, sup.ID).Return(sup, nil)
	productRepo.On("Search", mock.Anything, sup.ID, "olive", mock.AnythingOfType("shared.Filter")).
		Return([]partner.Product{*p}, nil)

	resp, err := svc.ListSupplierProducts(context.Background(), sup.ID, ProductSearchFilter{Query: "olive"})
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "Olive oil 5L", resp[0].Name)
	require.NotNil(t, resp[0].Price)
	assert.True(t, resp[0].Price.Equal(price))
}

func TestConnectionService_ListSupplierProducts_UnknownSupplier(t *testing.T) {
	svc, _, supplierRepo, productRepo := newTestService()
	supplierID := uuid.New()

	supplierRepo.On("FindByID", mock.Anything, supplierID).Return(nil, shared.ErrNotFound)

	_, err := svc.ListSupplierProducts(context.Background(), supplierID, ProductSearchFilter{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	productRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
