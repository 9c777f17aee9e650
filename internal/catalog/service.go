package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/subahan-billing/subahan-billing/internal/platform/httpx"
)

const defaultUnit = "pcs"

type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*Item, error) {
	item := Item{
		ItemID:             strings.TrimSpace(req.ItemID),
		Name:               strings.TrimSpace(req.Name),
		ArabicName:         norm.NFC.String(strings.TrimSpace(req.ArabicName)),
		Unit:               strings.TrimSpace(req.Unit),
		IsWireBox:          req.IsWireBox,
		BuyingPrice:        req.BuyingPrice,
		SellingPrice:       req.SellingPrice,
		PurchasePercentage: req.PurchasePercentage,
		SellPercentage:     req.SellPercentage,
	}
	if item.Unit == "" {
		item.Unit = defaultUnit
	}
	if err := validatePricing(&item); err != nil {
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if item.ItemID == "" {
			id, err := repo.NextGeneratedID(ctx)
			if err != nil {
				return fmt.Errorf("allocate item id: %w", err)
			}
			item.ItemID = id
		}
		if err := repo.Create(ctx, item); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.repo.Get(ctx, item.ItemID)
}

func (s *Service) Get(ctx context.Context, itemID string) (*Item, error) {
	return s.repo.Get(ctx, itemID)
}

func (s *Service) List(ctx context.Context, req ListItemsRequest) ([]Item, int, error) {
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	key, err := s.cache.BuildKey(ctx, listKey(req)...)
	if err != nil {
		s.logger.Warn("items cache key", slog.Any("error", err))
		return s.repo.List(ctx, req)
	}

	var cached struct {
		Items []Item `json:"items"`
		Total int    `json:"total"`
	}
	err = s.cache.FetchJSON(ctx, key, &cached, func(ctx context.Context) (interface{}, error) {
		items, total, err := s.repo.List(ctx, req)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"items": items, "total": total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return cached.Items, cached.Total, nil
}

func (s *Service) Update(ctx context.Context, itemID string, req UpdateItemRequest) (*Item, error) {
	existing, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if existing.DeletedAt != nil {
		return nil, ErrNotFound
	}

	next := *existing
	updates := make(map[string]interface{})
	if req.Name != nil {
		next.Name = strings.TrimSpace(*req.Name)
		updates["name"] = next.Name
	}
	if req.ArabicName != nil {
		next.ArabicName = norm.NFC.String(strings.TrimSpace(*req.ArabicName))
		updates["arabic_name"] = next.ArabicName
	}
	if req.Unit != nil {
		next.Unit = strings.TrimSpace(*req.Unit)
		if next.Unit == "" {
			next.Unit = defaultUnit
		}
		updates["unit"] = next.Unit
	}
	if req.IsWireBox != nil {
		next.IsWireBox = *req.IsWireBox
		updates["is_wire_box"] = next.IsWireBox
	}
	if req.BuyingPrice != nil {
		next.BuyingPrice = req.BuyingPrice
		updates["buying_price"] = *req.BuyingPrice
	}
	if req.SellingPrice != nil {
		next.SellingPrice = *req.SellingPrice
		updates["selling_price"] = *req.SellingPrice
	}
	if req.PurchasePercentage != nil {
		next.PurchasePercentage = req.PurchasePercentage
		updates["purchase_percentage"] = *req.PurchasePercentage
	}
	if req.SellPercentage != nil {
		next.SellPercentage = req.SellPercentage
		updates["sell_percentage"] = *req.SellPercentage
	}

	if err := validatePricing(&next); err != nil {
		return nil, err
	}
	if next.IsWireBox {
		// Derivation may have moved even when selling_price itself was
		// not in the request.
		updates["selling_price"] = next.SellingPrice
	} else if req.IsWireBox != nil {
		// Mode switched to fixed: the percentage fields are meaningless
		// now and must not linger on the row.
		updates["purchase_percentage"] = nil
		updates["sell_percentage"] = nil
	}

	if len(updates) == 0 {
		return existing, nil
	}
	if err := s.repo.Update(ctx, itemID, updates); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.repo.Get(ctx, itemID)
}

func (s *Service) Delete(ctx context.Context, itemID string) error {
	if err := s.repo.SoftDelete(ctx, itemID, s.now()); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Restore brings a trashed item back, but only inside the retention window.
func (s *Service) Restore(ctx context.Context, itemID string) (*Item, error) {
	cutoff := s.now().Add(-RetentionWindow)
	if err := s.repo.Restore(ctx, itemID, cutoff); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.Get(ctx, itemID)
}

// PurgeExpired permanently deletes items trashed longer than the retention
// window. Invoked by the background worker, never by a request path.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-RetentionWindow)
	purged, err := s.repo.PurgeExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("purged trashed items", slog.Int64("count", purged))
		s.invalidate(ctx)
	}
	return purged, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("items cache bump", slog.Any("error", err))
	}
}

// validatePricing enforces the per-mode field rules and, in wire/box mode,
// rewrites SellingPrice with the derived value so the stored figure can
// never drift from its inputs.
func validatePricing(item *Item) error {
	if item.IsWireBox {
		if item.BuyingPrice == nil || *item.BuyingPrice <= 0 {
			return fmt.Errorf("%w: wire/box items need a buying price > 0", httpx.ErrValidation)
		}
		if item.PurchasePercentage == nil || *item.PurchasePercentage < 0 || *item.PurchasePercentage > 100 {
			return fmt.Errorf("%w: purchase percentage must be between 0 and 100", httpx.ErrValidation)
		}
		if item.SellPercentage == nil || *item.SellPercentage < 0 || *item.SellPercentage > 100 {
			return fmt.Errorf("%w: sell percentage must be between 0 and 100", httpx.ErrValidation)
		}
		item.SellingPrice = item.EffectiveSellingPrice()
		return nil
	}

	if item.BuyingPrice != nil && *item.BuyingPrice <= 0 {
		return fmt.Errorf("%w: buying price must be > 0 when set", httpx.ErrValidation)
	}
	if item.SellingPrice <= 0 {
		return fmt.Errorf("%w: selling price must be > 0", httpx.ErrValidation)
	}
	item.PurchasePercentage = nil
	item.SellPercentage = nil
	return nil
}
