package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subahan-billing/subahan-billing/internal/platform/httpx"
)

type mockRepository struct {
	items map[string]*Item

	txError     error
	createError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{items: make(map[string]*Item)}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	if m.txError != nil {
		return m.txError
	}
	return fn(ctx, m)
}

func (m *mockRepository) Get(ctx context.Context, itemID string) (*Item, error) {
	it, ok := m.items[itemID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *mockRepository) List(ctx context.Context, req ListItemsRequest) ([]Item, int, error) {
	var ids []string
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var result []Item
	for _, id := range ids {
		it := m.items[id]
		switch {
		case req.DeletedOnly && it.DeletedAt == nil:
			continue
		case !req.IncludeDeleted && !req.DeletedOnly && it.DeletedAt != nil:
			continue
		}
		result = append(result, *it)
	}
	return result, len(result), nil
}

func (m *mockRepository) Create(ctx context.Context, item Item) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.items[item.ItemID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, item.ItemID)
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	m.items[item.ItemID] = &item
	return nil
}

func (m *mockRepository) Update(ctx context.Context, itemID string, updates map[string]interface{}) error {
	it, ok := m.items[itemID]
	if !ok || it.DeletedAt != nil {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		it.Name = v.(string)
	}
	if v, ok := updates["arabic_name"]; ok {
		it.ArabicName = v.(string)
	}
	if v, ok := updates["unit"]; ok {
		it.Unit = v.(string)
	}
	if v, ok := updates["is_wire_box"]; ok {
		it.IsWireBox = v.(bool)
	}
	if v, ok := updates["buying_price"]; ok {
		f := v.(float64)
		it.BuyingPrice = &f
	}
	if v, ok := updates["selling_price"]; ok {
		it.SellingPrice = v.(float64)
	}
	if v, ok := updates["purchase_percentage"]; ok {
		if v == nil {
			it.PurchasePercentage = nil
		} else {
			f := v.(float64)
			it.PurchasePercentage = &f
		}
	}
	if v, ok := updates["sell_percentage"]; ok {
		if v == nil {
			it.SellPercentage = nil
		} else {
			f := v.(float64)
			it.SellPercentage = &f
		}
	}
	it.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepository) SoftDelete(ctx context.Context, itemID string, at time.Time) error {
	it, ok := m.items[itemID]
	if !ok || it.DeletedAt != nil {
		return ErrNotFound
	}
	it.DeletedAt = &at
	return nil
}

func (m *mockRepository) Restore(ctx context.Context, itemID string, cutoff time.Time) error {
	it, ok := m.items[itemID]
	if !ok || it.DeletedAt == nil || !it.DeletedAt.After(cutoff) {
		return ErrNotFound
	}
	it.DeletedAt = nil
	return nil
}

func (m *mockRepository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	for id, it := range m.items {
		if it.DeletedAt != nil && !it.DeletedAt.After(cutoff) {
			delete(m.items, id)
			purged++
		}
	}
	return purged, nil
}

func (m *mockRepository) NextGeneratedID(ctx context.Context) (string, error) {
	taken := make(map[int]bool)
	for id := range m.items {
		var n int
		if _, err := fmt.Sscanf(id, "ITEM%d", &n); err == nil {
			taken[n] = true
		}
	}
	n := 1
	for taken[n] {
		n++
	}
	return fmt.Sprintf("ITEM%03d", n), nil
}

func newTestService(repo Repository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, NewCache(nil, 0), logger)
}

func fp(v float64) *float64 { return &v }

func TestCreateFixedModeItem(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	item, err := svc.Create(context.Background(), CreateItemRequest{
		ItemID:       "NAIL50",
		Name:         "Nail 50mm",
		ArabicName:   "مسمار",
		BuyingPrice:  fp(1.0),
		SellingPrice: 1.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "NAIL50", item.ItemID)
	assert.Equal(t, "pcs", item.Unit)
	assert.Equal(t, 1.5, item.SellingPrice)
	assert.Nil(t, item.PurchasePercentage)
}

func TestCreateWireBoxDerivesSellingPrice(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	item, err := svc.Create(context.Background(), CreateItemRequest{
		ItemID:             "WIRE1",
		Name:               "Wire",
		ArabicName:         "سلك",
		IsWireBox:          true,
		BuyingPrice:        fp(10.0),
		PurchasePercentage: fp(9),
		SellPercentage:     fp(8),
	})
	require.NoError(t, err)
	assert.InDelta(t, 9.2, item.SellingPrice, 0.0005)
	assert.InDelta(t, 9.1, *item.ActualCost(), 0.0005)
}

func TestCreateValidationFailures(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	cases := []struct {
		name string
		req  CreateItemRequest
	}{
		{"fixed missing selling price", CreateItemRequest{Name: "x", ArabicName: "س"}},
		{"fixed zero buying price", CreateItemRequest{Name: "x", ArabicName: "س", BuyingPrice: fp(0), SellingPrice: 1}},
		{"wirebox missing buying price", CreateItemRequest{Name: "x", ArabicName: "س", IsWireBox: true, PurchasePercentage: fp(5), SellPercentage: fp(5)}},
		{"wirebox percentage above 100", CreateItemRequest{Name: "x", ArabicName: "س", IsWireBox: true, BuyingPrice: fp(10), PurchasePercentage: fp(150), SellPercentage: fp(5)}},
		{"wirebox missing sell percentage", CreateItemRequest{Name: "x", ArabicName: "س", IsWireBox: true, BuyingPrice: fp(10), PurchasePercentage: fp(5)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, httpx.ErrValidation))
		})
	}
}

func TestCreateAllocatesLowestFreeID(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	for _, id := range []string{"ITEM001", "ITEM003"} {
		_, err := svc.Create(context.Background(), CreateItemRequest{
			ItemID: id, Name: "x", ArabicName: "س", SellingPrice: 1,
		})
		require.NoError(t, err)
	}

	item, err := svc.Create(context.Background(), CreateItemRequest{
		Name: "auto", ArabicName: "س", SellingPrice: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "ITEM002", item.ItemID)

	item, err = svc.Create(context.Background(), CreateItemRequest{
		Name: "auto", ArabicName: "س", SellingPrice: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "ITEM004", item.ItemID)
}

func TestCreateDuplicateID(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateItemRequest{
		ItemID: "DUP1", Name: "x", ArabicName: "س", SellingPrice: 1,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateItemRequest{
		ItemID: "DUP1", Name: "y", ArabicName: "س", SellingPrice: 2,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
}

func TestUpdateModeSwitchClearsPercentages(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateItemRequest{
		ItemID:             "WIRE2",
		Name:               "Wire",
		ArabicName:         "سلك",
		IsWireBox:          true,
		BuyingPrice:        fp(10),
		PurchasePercentage: fp(9),
		SellPercentage:     fp(8),
	})
	require.NoError(t, err)

	fixed := false
	item, err := svc.Update(context.Background(), "WIRE2", UpdateItemRequest{
		IsWireBox:    &fixed,
		SellingPrice: fp(12),
	})
	require.NoError(t, err)
	assert.False(t, item.IsWireBox)
	assert.Equal(t, 12.0, item.SellingPrice)
	assert.Nil(t, item.PurchasePercentage)
	assert.Nil(t, item.SellPercentage)
}

func TestUpdateWireBoxRederivesSellingPrice(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateItemRequest{
		ItemID:             "WIRE3",
		Name:               "Wire",
		ArabicName:         "سلك",
		IsWireBox:          true,
		BuyingPrice:        fp(10),
		PurchasePercentage: fp(9),
		SellPercentage:     fp(8),
	})
	require.NoError(t, err)

	item, err := svc.Update(context.Background(), "WIRE3", UpdateItemRequest{
		SellPercentage: fp(20),
	})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, item.SellingPrice, 0.0005)
}

func TestDeleteRestoreWindow(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateItemRequest{
		ItemID: "TRASH1", Name: "x", ArabicName: "س", SellingPrice: 1,
	})
	require.NoError(t, err)

	now := time.Now()
	svc.now = func() time.Time { return now }
	require.NoError(t, svc.Delete(context.Background(), "TRASH1"))

	items, _, err := svc.List(context.Background(), ListItemsRequest{})
	require.NoError(t, err)
	assert.Empty(t, items)

	trashed, _, err := svc.List(context.Background(), ListItemsRequest{DeletedOnly: true})
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.True(t, trashed[0].Restorable(now))

	// Still inside the window.
	svc.now = func() time.Time { return now.Add(23 * time.Hour) }
	item, err := svc.Restore(context.Background(), "TRASH1")
	require.NoError(t, err)
	assert.Nil(t, item.DeletedAt)

	// Delete again and let the window lapse.
	svc.now = func() time.Time { return now }
	require.NoError(t, svc.Delete(context.Background(), "TRASH1"))
	svc.now = func() time.Time { return now.Add(25 * time.Hour) }
	_, err = svc.Restore(context.Background(), "TRASH1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPurgeExpired(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	for _, id := range []string{"OLD1", "NEW1"} {
		_, err := svc.Create(context.Background(), CreateItemRequest{
			ItemID: id, Name: "x", ArabicName: "س", SellingPrice: 1,
		})
		require.NoError(t, err)
	}

	now := time.Now()
	svc.now = func() time.Time { return now.Add(-25 * time.Hour) }
	require.NoError(t, svc.Delete(context.Background(), "OLD1"))
	svc.now = func() time.Time { return now.Add(-time.Hour) }
	require.NoError(t, svc.Delete(context.Background(), "NEW1"))

	svc.now = func() time.Time { return now }
	purged, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = svc.Get(context.Background(), "OLD1")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = svc.Get(context.Background(), "NEW1")
	assert.NoError(t, err)
}

func TestArabicNameNormalized(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	// Decomposed alef + hamza composes to U+0623 under NFC.
	item, err := svc.Create(context.Background(), CreateItemRequest{
		ItemID: "NORM1", Name: "x", ArabicName: "أ", SellingPrice: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "أ", item.ArabicName)
}
