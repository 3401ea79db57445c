package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/domain/order"
)

func TestReportRepoPG(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepoPG(db, zaptest.NewLogger(t))
	orders := NewOrderRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	userID := seedUser(t, db, "Alice", "alice@example.com")
	driverID := seedDriver(t, db, "Bob", "bob@example.com")
	require.NoError(t, NewDriverRepoPG(db, zaptest.NewLogger(t)).SetDuty(ctx, driverID, true))
	milk := seedProduct(t, db, catalog.Product{Name: "Milk", Price: 2, Stock: 2, Active: true})
	seedProduct(t, db, catalog.Product{Name: "Bread", Price: 3, Stock: 50, Active: true})

	for _, tc := range []struct {
		status order.Status
		total  float64
		fee    float64
	}{
		{order.StatusDelivered, 20, 5},
		{order.StatusDelivered, 10, 5},
		{order.StatusCancelled, 7, 5},
		{order.StatusPending, 4, 5},
	} {
		o := newTestOrder(userID, milk, order.PaymentCash, tc.total)
		o.DeliveryFee = tc.fee
		o.Items[0].Quantity = 2
		_, err := orders.Create(ctx, o)
		require.NoError(t, err)
		o.Status = tc.status
		require.NoError(t, orders.Update(ctx, o))
	}

	d, err := repo.Dashboard(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.Users)
	assert.Equal(t, int64(1), d.Drivers)
	assert.Equal(t, int64(1), d.DriversOnDuty)
	assert.Equal(t, int64(2), d.Products)
	assert.Equal(t, int64(1), d.LowStockProducts)
	assert.Equal(t, int64(2), d.OrdersByStatus["delivered"])
	assert.Equal(t, int64(0), d.OrdersByStatus["picked_up"])
	assert.Equal(t, 30.0, d.DeliveredRevenue)

	now := time.Now().UTC()
	s, err := repo.Sales(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.TotalOrders)
	assert.Equal(t, int64(2), s.DeliveredOrders)
	assert.Equal(t, int64(1), s.CancelledOrders)
	assert.Equal(t, 30.0, s.Revenue)
	assert.Equal(t, 10.0, s.DeliveryFees)
	assert.Equal(t, 15.0, s.AverageOrderValue)
	require.NotEmpty(t, s.Daily)
	require.Len(t, s.TopProducts, 1)
	assert.Equal(t, int64(4), s.TopProducts[0].Quantity)
	assert.Equal(t, "Milk", s.TopProducts[0].Name)

	empty, err := repo.Sales(ctx, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalOrders)
	assert.Empty(t, empty.TopProducts)
}
