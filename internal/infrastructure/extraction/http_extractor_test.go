package extraction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shipshape/backend/internal/application/verification"
	"github.com/shipshape/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decimalMust(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestExtractor(serverURL string) *HTTPExtractor {
	return NewHTTPExtractor(config.ExtractorConfig{
		BaseURL:     serverURL,
		APIKey:      "test-key",
		PageTimeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestExtractPage_ParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/extract", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"supplier_name": "Kespro",
			"delivery_date": "2026-03-02",
			"order_number": "PO-1042",
			"items": [
				{"name": "Potatoes", "quantity": "10", "unit": "kg", "price_per_unit": "2,00"},
				{"name": "Olive oil", "quantity": "1", "unit": "pcs", "price_per_unit": "24.90"}
			]
		}`))
	}))
	defer server.Close()

	extractor := newTestExtractor(server.URL)
	page, err := extractor.ExtractPage(context.Background(), verification.PageImage{Index: 0, ImageKey: "receipts/abc.jpg"})
	require.NoError(t, err)

	assert.Equal(t, "Kespro", page.SupplierName)
	assert.Equal(t, "PO-1042", page.OrderNumber)
	require.NotNil(t, page.DeliveryDate)
	assert.Equal(t, 2026, page.DeliveryDate.Year())
	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].Quantity.Equal(decimalMust("10")))
	assert.True(t, page.Items[0].PricePerUnit.Equal(decimalMust("2.00")))
	assert.True(t, page.Items[1].PricePerUnit.Equal(decimalMust("24.90")))
}

func TestExtractPage_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	extractor := newTestExtractor(server.URL)
	_, err := extractor.ExtractPage(context.Background(), verification.PageImage{ImageKey: "receipts/abc.jpg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestExtractPage_BadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [{"name": "Potatoes", "quantity": "not-a-number"}]}`))
	}))
	defer server.Close()

	extractor := newTestExtractor(server.URL)
	_, err := extractor.ExtractPage(context.Background(), verification.PageImage{ImageKey: "receipts/abc.jpg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad quantity")
}

func TestExtractPage_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	extractor := newTestExtractor(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := extractor.ExtractPage(ctx, verification.PageImage{ImageKey: "receipts/abc.jpg"})
	assert.Error(t, err)
}

func TestDecimalFromString(t *testing.T) {
	d, err := decimalFromString(" 12,50 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimalMust("12.50")))

	d, err = decimalFromString("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = decimalFromString("abc")
	assert.Error(t, err)
}
