package repository

import (
	"context"
	"testing"

	"github.com/cloudkitchen/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// In-memory sqlite is per-connection; keep the pool at one.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.MenuItem{},
		&model.Order{},
		&model.OrderLine{},
		&model.Conversation{},
		&model.Message{},
	))
	return db
}

func seedItem(t *testing.T, db *gorm.DB, name string, price int64, remaining int) *model.MenuItem {
	t.Helper()
	item := &model.MenuItem{
		Name:        name,
		Description: name,
		Price:       price,
		ServeDate:   "2026-09-01",
		Slot:        model.MenuSlotLunch,
		Remaining:   remaining,
		Available:   true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func itemRemaining(t *testing.T, db *gorm.DB, id uint64) int {
	t.Helper()
	var item model.MenuItem
	require.NoError(t, db.First(&item, id).Error)
	return item.Remaining
}

func TestCreateWithCapacityDecrementsEachLine(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	thali := seedItem(t, db, "Special Veg Thali", 50, 10)
	paratha := seedItem(t, db, "Aloo Paratha Feast", 30, 5)

	order := &model.Order{
		PublicID:        "ord-1",
		CustomerUID:     "uid-1",
		CustomerName:    "Asha",
		CustomerPhone:   "9999999999",
		CustomerAddress: "12 MG Road",
		Subtotal:        130,
		DeliveryFee:     30,
		Total:           160,
		Status:          model.OrderStatusPending,
		Lines: []model.OrderLine{
			{MenuItemID: thali.ID, Name: thali.Name, Price: 50, Quantity: 2},
			{MenuItemID: paratha.ID, Name: paratha.Name, Price: 30, Quantity: 1},
		},
	}
	require.NoError(t, repo.CreateWithCapacity(ctx, order))

	assert.Equal(t, 8, itemRemaining(t, db, thali.ID))
	assert.Equal(t, 4, itemRemaining(t, db, paratha.ID))

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)
	assert.Len(t, got.Lines, 2)
}

func TestCreateWithCapacityRollsBackWholeOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	thali := seedItem(t, db, "Special Veg Thali", 50, 10)
	curry := seedItem(t, db, "Chef's Special Chicken Curry", 150, 1)

	order := &model.Order{
		PublicID:        "ord-2",
		CustomerUID:     "uid-1",
		CustomerName:    "Asha",
		CustomerPhone:   "9999999999",
		CustomerAddress: "12 MG Road",
		Status:          model.OrderStatusPending,
		Lines: []model.OrderLine{
			{MenuItemID: thali.ID, Name: thali.Name, Price: 50, Quantity: 2},
			{MenuItemID: curry.ID, Name: curry.Name, Price: 150, Quantity: 5},
		},
	}
	err := repo.CreateWithCapacity(ctx, order)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	// The first line's decrement succeeded inside the transaction; the
	// rollback must undo it and leave no order or line rows behind.
	assert.Equal(t, 10, itemRemaining(t, db, thali.ID))
	assert.Equal(t, 1, itemRemaining(t, db, curry.ID))

	var orders, lines int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&model.OrderLine{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, lines)
}

func TestCancelWithRestoreReturnsCapacity(t *testing.T) {
	db := openTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	thali := seedItem(t, db, "Special Veg Thali", 50, 10)
	order := &model.Order{
		PublicID:        "ord-3",
		CustomerUID:     "uid-1",
		CustomerName:    "Asha",
		CustomerPhone:   "9999999999",
		CustomerAddress: "12 MG Road",
		Status:          model.OrderStatusPending,
		Lines: []model.OrderLine{
			{MenuItemID: thali.ID, Name: thali.Name, Price: 50, Quantity: 3},
		},
	}
	require.NoError(t, repo.CreateWithCapacity(ctx, order))
	assert.Equal(t, 7, itemRemaining(t, db, thali.ID))

	require.NoError(t, repo.CancelWithRestore(ctx, order))
	assert.Equal(t, 10, itemRemaining(t, db, thali.ID))

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCanceled, got.Status)

	// A second cancel loses the pending-status guard.
	err = repo.CancelWithRestore(ctx, order)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, 10, itemRemaining(t, db, thali.ID))
}
