package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/domain"
	"github.com/jirafa27/TaplinkRetailCRMConnector/pkg/errors"
)

type itemService struct {
	crm    CRMGateway
	logger *zap.Logger
}

// NewItemService creates a new item resolution service
func NewItemService(crm CRMGateway, logger *zap.Logger) *itemService {
	return &itemService{
		crm:    crm,
		logger: logger,
	}
}

// Resolve maps each cart line to an actual CRM catalog offer, by derived
// external id when the line carries one and by product name otherwise.
// An unresolved line is not fatal: it is skipped and a human-readable line
// is added to the returned note, which ends up in the order's manager
// comment. The returned total is the sum of quantity x unit price over the
// resolved lines only. An all-unresolved cart comes back as an empty list
// with a non-empty note; the pipeline decides that no order can be created.
func (s *itemService) Resolve(ctx context.Context, items []domain.RawItem) ([]domain.ResolvedItem, decimal.Decimal, string) {
	resolved := make([]domain.ResolvedItem, 0, len(items))
	total := decimal.Zero
	var note strings.Builder

	for _, item := range items {
		offerRef, err := s.lookup(ctx, item)
		if err != nil {
			if _, isNotFound := err.(*errors.ErrNotFound); isNotFound {
				s.logger.Warn("Skipping item missing from catalog", zap.String("item", item.Label()))
			} else {
				s.logger.Error("Offer lookup failed, skipping item", zap.String("item", item.Label()), zap.Error(err))
			}
			fmt.Fprintf(&note, "%s не найдено: %v\n", item.Label(), err)
			continue
		}

		resolved = append(resolved, *offerRef)
		total = total.Add(decimal.NewFromFloat(offerRef.Price).Mul(decimal.NewFromInt(int64(offerRef.Quantity))))
	}

	return resolved, total, note.String()
}

// lookup resolves one cart line against the catalog. Article-shaped lines
// carry their own webhook price; title-shaped lines take the offer's first
// catalog price.
func (s *itemService) lookup(ctx context.Context, item domain.RawItem) (*domain.ResolvedItem, error) {
	externalID := item.ExternalID()

	if externalID != "" {
		offer, err := s.crm.FindOfferByExternalID(ctx, externalID)
		if err != nil {
			return nil, err
		}
		price := item.Price
		if item.Kind != domain.ItemByArticle || price == 0 {
			price = offer.FirstPrice()
		}
		result := &domain.ResolvedItem{
			ProductName: offer.Name,
			Quantity:    item.Quantity,
			Price:       price,
		}
		// Nominal-addressed offers go onto the order by external id, the
		// rest by internal id.
		if item.Nominal != "" {
			result.OfferExternalID = externalID
		} else {
			result.OfferID = offer.ID
		}
		return result, nil
	}

	offer, err := s.crm.FindOfferByName(ctx, item.Title)
	if err != nil {
		return nil, err
	}
	return &domain.ResolvedItem{
		OfferID:     offer.ID,
		ProductName: offer.Name,
		Quantity:    item.Quantity,
		Price:       offer.FirstPrice(),
	}, nil
}
