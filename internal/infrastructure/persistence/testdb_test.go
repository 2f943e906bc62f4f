package persistence

import (
	"testing"

	"github.com/shipshape/backend/internal/domain/delivery"
	"github.com/shipshape/backend/internal/domain/notification"
	"github.com/shipshape/backend/internal/domain/outgoing"
	"github.com/shipshape/backend/internal/domain/partner"
	"github.com/shipshape/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with all tables migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&delivery.Delivery{},
		&delivery.Item{},
		&report.Report{},
		&report.Item{},
		&outgoing.OutgoingDelivery{},
		&outgoing.Item{},
		&notification.Notification{},
		&partner.Supplier{},
		&partner.Product{},
		&partner.ConnectionRequest{},
	)
	require.NoError(t, err)

	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
