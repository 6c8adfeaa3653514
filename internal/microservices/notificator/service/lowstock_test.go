package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-ops/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushLowStockAlert_NoItems(t *testing.T) {
	h := newHarness()
	h.addStaff("cook@example.com")
	as := NewAlertService(h.lookup, h.notifier, time.Second, zerolog.Nop())

	res, err := as.PushLowStockAlert(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "No low-stock items to alert.", res.Message)
	assert.Empty(t, res.SuccessfulSents)
	assert.Empty(t, res.FailedSents)
	assert.Empty(t, h.sender.mails())
}

func TestPushLowStockAlert_NoStaff(t *testing.T) {
	h := newHarness()
	h.lookup.lowStock = []domain.InventoryItem{{Ingredient: "Flour", Quantity: 2, Unit: "KG", LowStockThreshold: 5}}
	as := NewAlertService(h.lookup, h.notifier, time.Second, zerolog.Nop())

	_, err := as.PushLowStockAlert(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "No staff members found to notify.")
}

func TestPushLowStockAlert_OneRecipientFails(t *testing.T) {
	h := newHarness()
	h.addStaff("a@example.com", "b@example.com")
	h.sender.fail["b@example.com"] = true
	h.lookup.lowStock = []domain.InventoryItem{{Ingredient: "Flour", Quantity: 2, Unit: "KG", LowStockThreshold: 5}}
	as := NewAlertService(h.lookup, h.notifier, time.Second, zerolog.Nop())

	res, err := as.PushLowStockAlert(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a@example.com"}, res.SuccessfulSents)
	assert.Equal(t, []string{"b@example.com"}, res.FailedSents)
	assert.Equal(t, 1, res.Items)

	mails := h.sender.mails()
	require.Len(t, mails, 1)
	assert.Equal(t, "Low Stock Alert", mails[0].Subject)
	assert.Contains(t, mails[0].Body, "Ingredient: Flour\nCurrent Quantity: 2 KG\nLow Stock Threshold: 5 KG\n")
}

func TestGetLowStockItems(t *testing.T) {
	h := newHarness()
	as := NewAlertService(h.lookup, h.notifier, time.Second, zerolog.Nop())

	items, err := as.GetLowStockItems(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	h.lookup.lowStock = []domain.InventoryItem{{Ingredient: "Eggs", Quantity: 6, Unit: "PIECE", LowStockThreshold: 6}}
	items, err = as.GetLowStockItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsLowStock())
}

func TestGetLowStockItems_Timeout(t *testing.T) {
	h := newHarness()
	h.lookup.blockLow = true
	as := NewAlertService(h.lookup, h.notifier, 20*time.Millisecond, zerolog.Nop())

	_, err := as.GetLowStockItems(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestGetLowStockItems_StoreError(t *testing.T) {
	h := newHarness()
	h.lookup.lowStockErr = errors.New("inventories unreachable")
	as := NewAlertService(h.lookup, h.notifier, time.Second, zerolog.Nop())

	_, err := as.GetLowStockItems(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnavailable)
}
