package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/domain/driver"
	"grocery-delivery-service/internal/domain/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	// Every pooled connection would otherwise open its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) int64 {
	t.Helper()
	id, err := NewUserRepoPG(db, zaptest.NewLogger(t)).Create(context.Background(), &user.User{
		Name: name, Email: email, PasswordHash: "hash",
	})
	require.NoError(t, err)
	return id
}

func seedDriver(t *testing.T, db *gorm.DB, name, email string) int64 {
	t.Helper()
	id, err := NewDriverRepoPG(db, zaptest.NewLogger(t)).Create(context.Background(), &driver.Driver{
		Name: name, Email: email, PasswordHash: "hash", VehicleNumber: "KA-01-" + name,
	})
	require.NoError(t, err)
	return id
}

func seedProduct(t *testing.T, db *gorm.DB, p catalog.Product) int64 {
	t.Helper()
	ctx := context.Background()
	if p.CategoryID == 0 {
		cats := NewCategoryRepoPG(db, zaptest.NewLogger(t))
		c, err := cats.GetByName(ctx, "General")
		require.NoError(t, err)
		if c == nil {
			id, err := cats.Create(ctx, &catalog.Category{Name: "General", Active: true})
			require.NoError(t, err)
			p.CategoryID = id
		} else {
			p.CategoryID = c.ID
		}
	}
	id, err := NewProductRepoPG(db, zaptest.NewLogger(t)).Create(ctx, &p)
	require.NoError(t, err)
	return id
}
