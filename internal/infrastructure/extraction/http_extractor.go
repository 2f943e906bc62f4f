// Package extraction talks to the receipt recognition service.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shipshape/backend/internal/application/verification"
	"github.com/shipshape/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 4 * 1024 * 1024 // 4MB

// HTTPExtractor implements PageExtractor against the extraction service's
// HTTP API. One request per page; the caller controls the deadline through
// the context.
type HTTPExtractor struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPExtractor creates an extractor client from configuration
func NewHTTPExtractor(cfg config.ExtractorConfig, logger *zap.Logger) *HTTPExtractor {
	return &HTTPExtractor{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			// Per-page deadlines come from the caller's context; this is
			// the hard ceiling for a single request
			Timeout: 2 * cfg.PageTimeout,
		},
		logger: logger,
	}
}

type extractRequest struct {
	ImageKey string `json:"image_key"`
}

type extractResponse struct {
	SupplierName string `json:"supplier_name"`
	DeliveryDate string `json:"delivery_date"`
	OrderNumber  string `json:"order_number"`
	Items        []struct {
		Name         string `json:"name"`
		Quantity     string `json:"quantity"`
		Unit         string `json:"unit"`
		PricePerUnit string `json:"price_per_unit"`
	} `json:"items"`
}

// ExtractPage recognizes the content of one receipt page
func (e *HTTPExtractor) ExtractPage(ctx context.Context, page verification.PageImage) (*verification.ExtractedPage, error) {
	bodyBytes, err := json.Marshal(extractRequest{ImageKey: page.ImageKey})
	if err != nil {
		return nil, fmt.Errorf("extractor: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/extract", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("extractor: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extractor: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("extractor: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		e.logger.Warn("extractor returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.Int("page", page.Index),
		)
		return nil, fmt.Errorf("extractor: unexpected status %d", resp.StatusCode)
	}

	var raw extractResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("extractor: failed to decode response: %w", err)
	}

	return raw.toPage()
}

func (r *extractResponse) toPage() (*verification.ExtractedPage, error) {
	page := &verification.ExtractedPage{
		SupplierName: r.SupplierName,
		OrderNumber:  r.OrderNumber,
		Items:        make([]verification.ExtractedItem, 0, len(r.Items)),
	}

	if r.DeliveryDate != "" {
		parsed, err := time.Parse("2006-01-02", r.DeliveryDate)
		if err != nil {
			return nil, fmt.Errorf("extractor: bad delivery date %q: %w", r.DeliveryDate, err)
		}
		page.DeliveryDate = &parsed
	}

	for i, item := range r.Items {
		quantity, err := decimalFromString(item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("extractor: bad quantity on line %d: %w", i, err)
		}
		price, err := decimalFromString(item.PricePerUnit)
		if err != nil {
			return nil, fmt.Errorf("extractor: bad price on line %d: %w", i, err)
		}
		page.Items = append(page.Items, verification.ExtractedItem{
			Name:         item.Name,
			Quantity:     quantity,
			Unit:         item.Unit,
			PricePerUnit: price,
		})
	}

	return page, nil
}

var _ verification.PageExtractor = (*HTTPExtractor)(nil)
