package service

import (
	"context"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/retailcrm"
)

// CRMGateway is the slice of the RetailCRM client the pipeline consumes.
// It is passed into every service explicitly so tests can substitute a fake.
type CRMGateway interface {
	// FindCustomerByPhone returns (nil, nil) when no customer matches.
	FindCustomerByPhone(ctx context.Context, phone string) (*retailcrm.Customer, error)
	CreateCustomer(ctx context.Context, customer retailcrm.Customer) (int, error)
	EditCustomer(ctx context.Context, customer retailcrm.Customer) error
	// Offer lookups return *errors.ErrNotFound when the catalog has no match.
	FindOfferByExternalID(ctx context.Context, externalID string) (*retailcrm.Offer, error)
	FindOfferByName(ctx context.Context, name string) (*retailcrm.Offer, error)
	CreateOrder(ctx context.Context, order retailcrm.Order) (int, error)
	Site() string
}
