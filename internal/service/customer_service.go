package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/domain"
	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/retailcrm"
	"github.com/jirafa27/TaplinkRetailCRMConnector/pkg/errors"
)

type customerService struct {
	crm    CRMGateway
	logger *zap.Logger
}

// NewCustomerService creates a new customer reconciliation service
func NewCustomerService(crm CRMGateway, logger *zap.Logger) *customerService {
	return &customerService{
		crm:    crm,
		logger: logger,
	}
}

// CustomerChanges is the changeset between the stored customer and incoming
// lead data: only the name fields that differ, plus the address changeset.
type CustomerChanges struct {
	FirstName  *string
	LastName   *string
	Patronymic *string
	Address    AddressChanges
}

func (c CustomerChanges) Empty() bool {
	return c.FirstName == nil && c.LastName == nil && c.Patronymic == nil && c.Address.Empty()
}

// incomingAddress maps the lead's flat address fields onto the CRM address
// shape so it can be diffed and composed.
func incomingAddress(raw domain.RawCustomer) retailcrm.Address {
	return retailcrm.Address{
		City:     raw.City,
		Street:   raw.Street,
		Building: raw.Building,
		Housing:  raw.Housing,
		House:    raw.House,
		Flat:     raw.Flat,
		Block:    retailcrm.FlexString(raw.Block),
		Floor:    retailcrm.FlexString(raw.Floor),
	}
}

// diffCustomer compares the stored record against incoming lead data.
// Name fields compare literally; the address goes through DiffAddress with
// its partial-payload guard.
func diffCustomer(current retailcrm.Customer, raw domain.RawCustomer) CustomerChanges {
	changes := CustomerChanges{}
	if current.FirstName != raw.FirstName {
		changes.FirstName = &raw.FirstName
	}
	if current.LastName != raw.LastName {
		changes.LastName = &raw.LastName
	}
	if current.Patronymic != raw.Patronymic {
		changes.Patronymic = &raw.Patronymic
	}
	changes.Address = DiffAddress(current.Address, incomingAddress(raw))
	return changes
}

// applyCustomerChanges merges a changeset into an in-memory copy of the
// stored record. The copy is what gets pushed to the CRM and, on success,
// returned to the caller in place of a re-fetch.
func applyCustomerChanges(customer retailcrm.Customer, changes CustomerChanges) retailcrm.Customer {
	if changes.FirstName != nil {
		customer.FirstName = *changes.FirstName
	}
	if changes.LastName != nil {
		customer.LastName = *changes.LastName
	}
	if changes.Patronymic != nil {
		customer.Patronymic = *changes.Patronymic
	}
	customer.Address = ApplyAddressChanges(customer.Address, changes.Address)
	return customer
}

// newCustomer builds the fixed default profile for a first-time phone number.
func newCustomer(raw domain.RawCustomer) retailcrm.Customer {
	address := incomingAddress(raw)
	address.Text = ComposeAddress(address)
	address.CountryISO = "RU"
	return retailcrm.Customer{
		FirstName:  raw.FirstName,
		LastName:   raw.LastName,
		Patronymic: raw.Patronymic,
		Phones:     []retailcrm.Phone{{Number: raw.Phone}},
		Address:    address,
		Contragent: retailcrm.Contragent{ContragentType: "individual"},
		Source:     &retailcrm.Source{Source: "taplink", Medium: "web"},
		Comment:    raw.Comment,
	}
}

// Reconcile finds the CRM customer for the lead's phone, creating it when
// absent and patching it when the lead carries newer data. The read-modify-
// write has no locking: two leads for the same phone can race and the last
// writer wins at the CRM.
func (s *customerService) Reconcile(ctx context.Context, raw domain.RawCustomer) (*retailcrm.Customer, error) {
	if raw.Phone == "" {
		s.logger.Error("Lead has no phone number, cannot reconcile customer")
		return nil, &errors.ErrNoPhone{}
	}

	current, err := s.crm.FindCustomerByPhone(ctx, raw.Phone)
	if err != nil {
		s.logger.Error("Failed to look up customer by phone", zap.String("phone", raw.Phone), zap.Error(err))
		return nil, &errors.ErrCustomerLookup{Phone: raw.Phone, Err: err}
	}

	if current == nil {
		if _, err := s.crm.CreateCustomer(ctx, newCustomer(raw)); err != nil {
			s.logger.Error("Failed to create customer", zap.String("phone", raw.Phone), zap.Error(err))
			return nil, &errors.ErrCustomerCreate{Phone: raw.Phone, Err: err}
		}
		// The create response is not assumed to carry the full record;
		// re-fetch by phone to obtain the assigned id.
		created, err := s.crm.FindCustomerByPhone(ctx, raw.Phone)
		if err != nil || created == nil {
			s.logger.Error("Failed to fetch created customer", zap.String("phone", raw.Phone), zap.Error(err))
			return nil, &errors.ErrCustomerCreate{Phone: raw.Phone, Err: err}
		}
		s.logger.Info("Created new customer", zap.Int("customer_id", created.ID), zap.String("phone", raw.Phone))
		return created, nil
	}

	changes := diffCustomer(*current, raw)
	if changes.Empty() {
		return current, nil
	}

	updated := applyCustomerChanges(*current, changes)
	s.logger.Info("Customer has changes, updating",
		zap.Int("customer_id", current.ID),
		zap.Int("changed_address_fields", len(changes.Address.Fields)),
	)
	if err := s.crm.EditCustomer(ctx, updated); err != nil {
		s.logger.Error("Failed to update customer", zap.Int("customer_id", current.ID), zap.Error(err))
		return nil, &errors.ErrCustomerUpdate{CustomerID: current.ID, Err: err}
	}

	// The gateway response is trusted; no re-fetch after an update.
	return &updated, nil
}
