package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"grocery-delivery-service/internal/domain/banner"
)

func TestBannerRepoPG_CreateKeepsInactiveFlag(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBannerRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	hidden, err := repo.Create(ctx, &banner.Banner{Title: "Draft promo", Position: 1, Active: false})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &banner.Banner{Title: "Summer sale", Position: 2, Active: true})
	require.NoError(t, err)

	b, err := repo.GetByID(ctx, hidden)
	require.NoError(t, err)
	assert.False(t, b.Active)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Summer sale", active[0].Title)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
