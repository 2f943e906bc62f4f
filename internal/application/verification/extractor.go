package verification

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PageImage is one uploaded receipt page, addressed by its position in the
// upload
type PageImage struct {
	Index    int
	ImageKey string
}

// ExtractedItem is one line recognized on a receipt page
type ExtractedItem struct {
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// ExtractedPage is the recognition result for a single page. Header fields
// may be empty on continuation pages.
type ExtractedPage struct {
	SupplierName string          `json:"supplier_name"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
	OrderNumber  string          `json:"order_number"`
	Items        []ExtractedItem `json:"items"`
}

// PageExtractor recognizes the content of one receipt page. Implementations
// are stateless and page-scoped; each call carries its own deadline.
type PageExtractor interface {
	ExtractPage(ctx context.Context, page PageImage) (*ExtractedPage, error)
}
