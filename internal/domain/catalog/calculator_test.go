package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "grocery-delivery-service/pkg/errors"
)

func TestValidatePriceOperation(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		amount  float64
		op      PriceOperation
		want    float64
		wantErr bool
	}{
		{name: "increase", current: 10, amount: 2.5, op: PriceIncrease, want: 12.5},
		{name: "decrease", current: 10, amount: 2.5, op: PriceDecrease, want: 7.5},
		{name: "decrease to zero", current: 10, amount: 10, op: PriceDecrease, want: 0},
		{name: "set", current: 10, amount: 3.333, op: PriceSet, want: 3.33},
		{name: "rounds float noise", current: 0.1, amount: 0.2, op: PriceIncrease, want: 0.3},
		{name: "negative result", current: 5, amount: 6, op: PriceDecrease, wantErr: true},
		{name: "negative amount", current: 5, amount: -1, op: PriceIncrease, wantErr: true},
		{name: "nan amount", current: 5, amount: math.NaN(), op: PriceSet, wantErr: true},
		{name: "unknown operation", current: 5, amount: 1, op: "double", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePriceOperation(tt.current, tt.amount, tt.op)
			if tt.wantErr {
				var ve *pkgerrors.ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateStockOperation(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		quantity int64
		op       StockOperation
		want     int64
		wantErr  error
	}{
		{name: "add", current: 3, quantity: 4, op: StockAdd, want: 7},
		{name: "remove", current: 3, quantity: 3, op: StockRemove, want: 0},
		{name: "set", current: 3, quantity: 0, op: StockSet, want: 0},
		{name: "remove too many", current: 3, quantity: 4, op: StockRemove, wantErr: pkgerrors.ErrInsufficientStock},
		{name: "add zero", current: 3, quantity: 0, op: StockAdd, wantErr: pkgerrors.NewValidationError("quantity", "must be greater than zero")},
		{name: "set negative", current: 3, quantity: -1, op: StockSet, wantErr: pkgerrors.NewValidationError("quantity", "cannot be negative")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateStockOperation(tt.current, tt.quantity, tt.op)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateDiscount(t *testing.T) {
	assert.NoError(t, ValidateDiscount(0))
	assert.NoError(t, ValidateDiscount(100))
	assert.Error(t, ValidateDiscount(-0.1))
	assert.Error(t, ValidateDiscount(101))
}

func TestSalePrice(t *testing.T) {
	p := &Product{Price: 19.99, DiscountPercent: 15}
	assert.Equal(t, 16.99, p.SalePrice())
	assert.Equal(t, 10.0, SalePrice(10, 0))
}
