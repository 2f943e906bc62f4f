package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	deliveryapp "github.com/shipshape/backend/internal/application/delivery"
	reportapp "github.com/shipshape/backend/internal/application/report"
	"github.com/shipshape/backend/internal/domain/delivery"
	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/report"
	"github.com/shipshape/backend/internal/infrastructure/auth"
	"github.com/shipshape/backend/internal/infrastructure/config"
	"github.com/shipshape/backend/internal/infrastructure/persistence"
	"github.com/shipshape/backend/internal/interfaces/http/middleware"
	"github.com/shipshape/backend/internal/interfaces/http/router"
)

type handlerTestEnv struct {
	engine     *gin.Engine
	jwtService *auth.JWTService
}

func newHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&delivery.Delivery{}, &delivery.Item{},
		&report.Report{}, &report.Item{},
	))

	logger := zap.NewNop()
	deliveryRepo := persistence.NewGormDeliveryRepository(db)
	reportRepo := persistence.NewGormReportRepository(db)
	deliveryService := deliveryapp.NewDeliveryService(deliveryRepo, reportRepo, logger)
	reportService := reportapp.NewReportService(reportRepo, logger)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "handler-test-secret-key-0123456789",
		AccessTokenExpiration: time.Hour,
		Issuer:                "test",
	})

	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.NewRouter(engine,
		router.WithMiddleware(middleware.Auth(jwtService, logger)),
	).Register(
		NewDeliveryHandler(deliveryService),
		NewReportHandler(reportService),
	).Setup()

	return &handlerTestEnv{engine: engine, jwtService: jwtService}
}

func (e *handlerTestEnv) token(t *testing.T, userID uuid.UUID, role identity.Role) string {
	t.Helper()
	token, _, err := e.jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID:      userID,
		Role:        role,
		DisplayName: "Test Actor",
	})
	require.NoError(t, err)
	return token
}

func (e *handlerTestEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func createDeliveryPayload() map[string]any {
	return map[string]any{
		"supplier_name": "Kespro",
		"delivery_date": time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		"order_number":  "PO-1042",
		"items": []map[string]any{
			{"name": "Potatoes", "quantity": "10", "unit": "kg", "price_per_unit": "2.00"},
			{"name": "Olive oil", "quantity": "1", "unit": "pcs", "price_per_unit": "24.90"},
		},
	}
}

func TestDeliveryEndpoints_RequireAuth(t *testing.T) {
	env := newHandlerTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/deliveries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateDelivery_SupplierForbidden(t *testing.T) {
	env := newHandlerTestEnv(t)
	token := env.token(t, uuid.New(), identity.RoleSupplier)

	w := env.do(t, http.MethodPost, "/api/v1/deliveries", token, createDeliveryPayload())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeliveryVerificationFlow(t *testing.T) {
	env := newHandlerTestEnv(t)
	restaurantID := uuid.New()
	token := env.token(t, restaurantID, identity.RoleRestaurant)

	// create draft
	w := env.do(t, http.MethodPost, "/api/v1/deliveries", token, createDeliveryPayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created deliveryapp.DeliveryResponse
	decodeData(t, w, &created)
	require.Len(t, created.Items, 2)
	assert.Equal(t, "44.9", created.TotalValue.String())

	// verify items: potatoes short by 3, olive oil received
	potatoes, oil := created.Items[0], created.Items[1]
	w = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/deliveries/%s/items/%s/missing", created.ID, potatoes.ID),
		token, map[string]any{"missing_quantity": "3"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/deliveries/%s/items/%s/receive", created.ID, oil.ID),
		token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// finalize: the shortfall demotes the target status and creates a report
	w = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/deliveries/%s/finalize", created.ID),
		token, map[string]any{"status": "complete"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var finalized deliveryapp.FinalizeDeliveryResponse
	decodeData(t, w, &finalized)
	assert.Equal(t, delivery.StatusPendingRedelivery, finalized.Delivery.Status)
	assert.Equal(t, "6", finalized.Delivery.MissingValue.String())
	// no supplier is bound, so no report could be addressed
	assert.False(t, finalized.ReportCreated)
}

func TestFinalize_PendingItemsRejected(t *testing.T) {
	env := newHandlerTestEnv(t)
	token := env.token(t, uuid.New(), identity.RoleRestaurant)

	w := env.do(t, http.MethodPost, "/api/v1/deliveries", token, createDeliveryPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	var created deliveryapp.DeliveryResponse
	decodeData(t, w, &created)

	w = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/deliveries/%s/finalize", created.ID),
		token, map[string]any{"status": "complete"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestGetDelivery_ForeignActorForbidden(t *testing.T) {
	env := newHandlerTestEnv(t)
	owner := env.token(t, uuid.New(), identity.RoleRestaurant)
	stranger := env.token(t, uuid.New(), identity.RoleRestaurant)

	w := env.do(t, http.MethodPost, "/api/v1/deliveries", owner, createDeliveryPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	var created deliveryapp.DeliveryResponse
	decodeData(t, w, &created)

	w = env.do(t, http.MethodGet, "/api/v1/deliveries/"+created.ID.String(), stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetDelivery_UnknownID(t *testing.T) {
	env := newHandlerTestEnv(t)
	token := env.token(t, uuid.New(), identity.RoleRestaurant)

	w := env.do(t, http.MethodGet, "/api/v1/deliveries/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/deliveries/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
