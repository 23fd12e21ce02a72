package service

import (
	"context"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/retailcrm"
	"github.com/jirafa27/TaplinkRetailCRMConnector/pkg/errors"
)

// fakeCRM is an in-memory CRMGateway double. Customer state behaves like the
// real CRM: create registers the record under its phone with an assigned id,
// edit replaces it, so re-fetch and idempotency behave as in production.
type fakeCRM struct {
	customersByPhone   map[string]*retailcrm.Customer
	offersByExternalID map[string]*retailcrm.Offer
	offersByName       map[string]*retailcrm.Offer

	findErr   error
	createErr error
	editErr   error
	orderErr  error

	nextCustomerID int
	nextOrderID    int

	findCalls   int
	createCalls int
	editCalls   int
	orderCalls  int

	lastEdited *retailcrm.Customer
	lastOrder  *retailcrm.Order
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{
		customersByPhone:   map[string]*retailcrm.Customer{},
		offersByExternalID: map[string]*retailcrm.Offer{},
		offersByName:       map[string]*retailcrm.Offer{},
		nextCustomerID:     100,
		nextOrderID:        500,
	}
}

func (f *fakeCRM) FindCustomerByPhone(_ context.Context, phone string) (*retailcrm.Customer, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	customer, ok := f.customersByPhone[phone]
	if !ok {
		return nil, nil
	}
	copied := *customer
	return &copied, nil
}

func (f *fakeCRM) CreateCustomer(_ context.Context, customer retailcrm.Customer) (int, error) {
	f.createCalls++
	if f.createErr != nil {
		return 0, f.createErr
	}
	customer.ID = f.nextCustomerID
	f.nextCustomerID++
	f.customersByPhone[customer.Phone()] = &customer
	return customer.ID, nil
}

func (f *fakeCRM) EditCustomer(_ context.Context, customer retailcrm.Customer) error {
	f.editCalls++
	if f.editErr != nil {
		return f.editErr
	}
	copied := customer
	f.lastEdited = &copied
	f.customersByPhone[customer.Phone()] = &copied
	return nil
}

func (f *fakeCRM) FindOfferByExternalID(_ context.Context, externalID string) (*retailcrm.Offer, error) {
	if offer, ok := f.offersByExternalID[externalID]; ok {
		return offer, nil
	}
	return nil, &errors.ErrNotFound{Resource: "offer", ID: "externalId=" + externalID}
}

func (f *fakeCRM) FindOfferByName(_ context.Context, name string) (*retailcrm.Offer, error) {
	if offer, ok := f.offersByName[name]; ok {
		return offer, nil
	}
	return nil, &errors.ErrNotFound{Resource: "offer", ID: "name=" + name}
}

func (f *fakeCRM) CreateOrder(_ context.Context, order retailcrm.Order) (int, error) {
	f.orderCalls++
	if f.orderErr != nil {
		return 0, f.orderErr
	}
	copied := order
	f.lastOrder = &copied
	id := f.nextOrderID
	f.nextOrderID++
	return id, nil
}

func (f *fakeCRM) Site() string { return "taplink2" }
