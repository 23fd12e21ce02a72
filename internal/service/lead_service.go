package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/domain"
	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/taplink"
	"github.com/jirafa27/TaplinkRetailCRMConnector/pkg/errors"
)

// LeadService drives a lead through the whole pipeline: extraction,
// customer reconciliation, item resolution, order assembly, submission.
// Each invocation is independent; the first stage failure aborts the rest
// and no partial order is ever submitted.
type LeadService struct {
	crm       CRMGateway
	customers *customerService
	items     *itemService
	logger    *zap.Logger
	now       func() time.Time
}

// NewLeadService creates the lead processing pipeline
func NewLeadService(crm CRMGateway, logger *zap.Logger) *LeadService {
	return &LeadService{
		crm:       crm,
		customers: NewCustomerService(crm, logger),
		items:     NewItemService(crm, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessLead reconciles the lead's customer and creates a CRM order from
// its cart. The result record is always returned, never an HTTP decision:
// the webhook endpoint translates it.
func (s *LeadService) ProcessLead(ctx context.Context, data taplink.LeadData) domain.Result {
	raw := taplink.ExtractCustomer(data.Records)
	rawItems := taplink.ExtractItems(data)
	s.logger.Info("Lead normalized",
		zap.String("phone", raw.Phone),
		zap.Int("item_count", len(rawItems)),
	)

	customer, err := s.customers.Reconcile(ctx, raw)
	if err != nil {
		return failure(err, nil)
	}

	resolved, total, note := s.items.Resolve(ctx, rawItems)
	if len(resolved) == 0 {
		s.logger.Error("No valid items after preparation", zap.String("note", note))
		return failure(&errors.ErrNoValidItems{Note: note}, nil)
	}

	order := AssembleOrder(*customer, resolved, total, note, raw, s.crm.Site(), s.now())

	orderID, err := s.crm.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("Failed to create order in RetailCRM", zap.Error(err))
		return failure(&errors.ErrOrderCreate{Err: err}, resolved)
	}

	s.logger.Info("Order created successfully",
		zap.Int("order_id", orderID),
		zap.String("number", order.Number),
		zap.Float64("total", order.TotalSumm),
	)
	return domain.Result{
		Success: true,
		OrderID: orderID,
		Items:   resolved,
	}
}

func failure(err error, items []domain.ResolvedItem) domain.Result {
	if items == nil {
		items = []domain.ResolvedItem{}
	}
	return domain.Result{
		Success: false,
		Error:   err.Error(),
		Items:   items,
	}
}
