package errors

import "fmt"

// ErrNotFound is returned when a CRM resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrNoPhone is returned when a lead carries no phone number.
// The phone is the natural key for customer lookup, so nothing can be done.
type ErrNoPhone struct{}

func (e *ErrNoPhone) Error() string {
	return "no phone number provided"
}

// ErrCustomerLookup is returned when the customer search request fails
type ErrCustomerLookup struct {
	Phone string
	Err   error
}

func (e *ErrCustomerLookup) Error() string {
	return fmt.Sprintf("customer lookup failed for phone %s: %v", e.Phone, e.Err)
}

func (e *ErrCustomerLookup) Unwrap() error { return e.Err }

// ErrCustomerCreate is returned when customer creation (or the re-fetch of
// the freshly created record) fails
type ErrCustomerCreate struct {
	Phone string
	Err   error
}

func (e *ErrCustomerCreate) Error() string {
	return fmt.Sprintf("failed to create customer for phone %s: %v", e.Phone, e.Err)
}

func (e *ErrCustomerCreate) Unwrap() error { return e.Err }

// ErrCustomerUpdate is returned when pushing a customer changeset fails
type ErrCustomerUpdate struct {
	CustomerID int
	Err        error
}

func (e *ErrCustomerUpdate) Error() string {
	return fmt.Sprintf("failed to update customer %d: %v", e.CustomerID, e.Err)
}

func (e *ErrCustomerUpdate) Unwrap() error { return e.Err }

// ErrNoValidItems is returned when every line item failed to resolve against
// the CRM catalog, so there is nothing to put on the order
type ErrNoValidItems struct {
	Note string
}

func (e *ErrNoValidItems) Error() string {
	return "no valid items after preparation"
}

// ErrOrderCreate is returned when the CRM rejects the assembled order
type ErrOrderCreate struct {
	Err error
}

func (e *ErrOrderCreate) Error() string {
	return fmt.Sprintf("failed to create order: %v", e.Err)
}

func (e *ErrOrderCreate) Unwrap() error { return e.Err }
