package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/subahan-billing/subahan-billing/internal/catalog"
	"github.com/subahan-billing/subahan-billing/internal/platform/httpx"
)

type Service struct {
	repo        Repository
	catalogRepo catalog.Repository
}

func NewService(repo Repository, catalogRepo catalog.Repository) *Service {
	return &Service{repo: repo, catalogRepo: catalogRepo}
}

// Create snapshots every line from the live catalog, folds the total and
// persists bill plus items in one transaction.
func (s *Service) Create(ctx context.Context, req CreateBillRequest) (*Bill, error) {
	lines, err := s.resolveLines(ctx, req.Lines, nil)
	if err != nil {
		return nil, err
	}
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}

	bill := Bill{
		ID:          uuid.NewString(),
		Customer:    req.Customer,
		TotalAmount: Total(lines),
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Create(ctx, bill); err != nil {
			return fmt.Errorf("create bill: %w", err)
		}
		for i, line := range lines {
			if err := repo.InsertItem(ctx, itemFromLine(bill.ID, line, i)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, bill.ID)
}

// Update replaces the bill's lines. Cost basis comes from the catalog as it
// stands today; the stored snapshot only survives for items that vanished
// from the catalog in the meantime.
func (s *Service) Update(ctx context.Context, id string, req UpdateBillRequest) (*Bill, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	customer := existing.Customer
	if req.Customer != nil {
		customer = req.Customer
	}

	if req.Lines == nil {
		if err := s.repo.UpdateHeader(ctx, id, customer, existing.TotalAmount); err != nil {
			return nil, err
		}
		return s.repo.Get(ctx, id)
	}

	lines, err := s.resolveLines(ctx, *req.Lines, existing.Items)
	if err != nil {
		return nil, err
	}
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.UpdateHeader(ctx, id, customer, Total(lines)); err != nil {
			return err
		}
		if err := repo.DeleteItems(ctx, id); err != nil {
			return err
		}
		for i, line := range lines {
			if err := repo.InsertItem(ctx, itemFromLine(id, line, i)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*Bill, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListBillsRequest) ([]Bill, int, error) {
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.DeleteItems(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

// resolveLines maps submitted lines onto catalog snapshots. When the catalog
// item is gone, previous bill items (if any) provide the fallback snapshot;
// otherwise the missing reference is a validation error.
func (s *Service) resolveLines(ctx context.Context, reqs []BillLineRequest, previous []BillItem) ([]DraftLine, error) {
	prevByID := make(map[string]BillItem, len(previous))
	for _, it := range previous {
		prevByID[it.ItemID] = it
	}

	lines := make([]DraftLine, 0, len(reqs))
	for _, lr := range reqs {
		item, err := s.catalogRepo.Get(ctx, lr.ItemID)
		switch {
		case err == nil:
			line := MaterializeLine(*item, lr.Quantity)
			if lr.UnitPrice != nil {
				line.UnitPrice = *lr.UnitPrice
			} else if prev, ok := prevByID[lr.ItemID]; ok {
				// Operator price carries over on edit; only the cost
				// basis is re-snapshotted.
				line.UnitPrice = prev.UnitPrice
			}
			lines = append(lines, line)
		case errors.Is(err, catalog.ErrNotFound):
			prev, ok := prevByID[lr.ItemID]
			if !ok {
				return nil, fmt.Errorf("%w: unknown item %q", httpx.ErrValidation, lr.ItemID)
			}
			line := RehydrateForEdit(prev, nil)
			line.Quantity = lr.Quantity
			if lr.UnitPrice != nil {
				line.UnitPrice = *lr.UnitPrice
			}
			lines = append(lines, line)
		default:
			return nil, fmt.Errorf("resolve item %s: %w", lr.ItemID, err)
		}
	}
	return lines, nil
}

func itemFromLine(billID string, line DraftLine, order int) BillItem {
	cost := line.PurchasePrice
	pct := line.PurchasePercentage
	if !line.IsWireBox {
		pct = nil
	}
	return BillItem{
		BillID:             billID,
		ItemID:             line.ItemID,
		ItemName:           line.ItemName,
		ArabicName:         line.ArabicName,
		Unit:               line.Unit,
		Quantity:           line.Quantity,
		UnitPrice:          line.UnitPrice,
		BaseSellingPrice:   line.BaseSellingPrice,
		BuyingPrice:        cost,
		PurchasePercentage: pct,
		LineOrder:          order,
	}
}
