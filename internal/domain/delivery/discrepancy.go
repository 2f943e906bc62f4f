package delivery

import (
	"github.com/shopspring/decimal"
)

// DiscrepancySummary is the outcome of aggregating a delivery's line items.
// It is computed on every per-item toggle and again at save time; both runs
// must agree, so the computation is pure and idempotent.
type DiscrepancySummary struct {
	TotalItems    int
	ReceivedCount int
	MissingCount  int
	PendingCount  int
	VerifiedCount int
	TotalValue    decimal.Decimal
	MissingValue  decimal.Decimal
}

// Summarize aggregates line items into counts and the missing value.
// An empty item list yields an empty summary, not an error.
func Summarize(items []Item) DiscrepancySummary {
	summary := DiscrepancySummary{
		TotalValue:   decimal.Zero,
		MissingValue: decimal.Zero,
	}

	for _, item := range items {
		summary.TotalItems++
		summary.TotalValue = summary.TotalValue.Add(item.TotalPrice)

		switch item.Status {
		case ItemStatusReceived:
			summary.ReceivedCount++
		case ItemStatusMissing:
			summary.MissingCount++
			summary.MissingValue = summary.MissingValue.Add(item.MissingQuantity.Mul(item.PricePerUnit))
		default:
			summary.PendingCount++
		}
	}

	summary.VerifiedCount = summary.ReceivedCount + summary.MissingCount
	return summary
}

// AllVerified returns true when no item awaits a decision
func (s DiscrepancySummary) AllVerified() bool {
	return s.PendingCount == 0
}

// HasShortfall returns true when at least one item is missing
func (s DiscrepancySummary) HasShortfall() bool {
	return s.MissingCount > 0
}

// VerifiedRatio returns the verified share in [0,1]; an empty list counts
// as fully verified
func (s DiscrepancySummary) VerifiedRatio() decimal.Decimal {
	if s.TotalItems == 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(s.VerifiedCount)).
		Div(decimal.NewFromInt(int64(s.TotalItems))).Round(4)
}
