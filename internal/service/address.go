package service

import (
	"strings"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/retailcrm"
)

// addressPart is one component of the composed address text. Order matters:
// the display string always reads city, street, building, housing, house,
// flat, block, floor.
type addressPart struct {
	field  string
	prefix string
}

var addressParts = []addressPart{
	{"city", ""},
	{"street", ""},
	{"building", "д."},
	{"housing", "корп."},
	{"house", "стр."},
	{"flat", "кв./офис"},
	{"block", "подъезд"},
	{"floor", "этаж"},
}

func addressField(a retailcrm.Address, field string) string {
	switch field {
	case "city":
		return a.City
	case "street":
		return a.Street
	case "building":
		return a.Building
	case "housing":
		return a.Housing
	case "house":
		return a.House
	case "flat":
		return a.Flat
	case "block":
		return string(a.Block)
	case "floor":
		return string(a.Floor)
	}
	return ""
}

func setAddressField(a *retailcrm.Address, field, value string) {
	switch field {
	case "city":
		a.City = value
	case "street":
		a.Street = value
	case "building":
		a.Building = value
	case "housing":
		a.Housing = value
	case "house":
		a.House = value
	case "flat":
		a.Flat = value
	case "block":
		a.Block = retailcrm.FlexString(value)
	case "floor":
		a.Floor = retailcrm.FlexString(value)
	}
}

// emptyValue treats "", whitespace and "0" as unset; RetailCRM defaults
// numeric address fields to 0.
func emptyValue(v string) bool {
	return retailcrm.FlexString(v).Empty()
}

// ComposeAddress renders a structured address into its display string:
// non-empty fields in fixed order, each with its short prefix, joined with
// ", ". An address with no filled fields composes to "".
func ComposeAddress(address retailcrm.Address) string {
	parts := make([]string, 0, len(addressParts))
	for _, part := range addressParts {
		value := addressField(address, part.field)
		if emptyValue(value) {
			continue
		}
		if part.prefix != "" {
			parts = append(parts, part.prefix+" "+value)
		} else {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, ", ")
}

// AddressChanges is the changeset between a stored address and incoming
// data: only the fields that actually differ, plus the recomposed display
// text when anything differs at all.
type AddressChanges struct {
	Fields map[string]string
	Text   string
}

func (c AddressChanges) Empty() bool {
	return len(c.Fields) == 0
}

// DiffAddress compares the stored address against incoming data field by
// field. An incoming empty/zero field is never a change: lead payloads are
// partial, and a customer who did not re-enter an address field must not be
// treated as clearing it. A field counts as changed when the incoming value
// is set and the stored one is unset or string-unequal.
func DiffAddress(current, incoming retailcrm.Address) AddressChanges {
	changes := AddressChanges{Fields: map[string]string{}}
	for _, part := range addressParts {
		incomingValue := addressField(incoming, part.field)
		if emptyValue(incomingValue) {
			continue
		}
		currentValue := addressField(current, part.field)
		if emptyValue(currentValue) || currentValue != incomingValue {
			changes.Fields[part.field] = incomingValue
		}
	}
	if !changes.Empty() {
		changes.Text = ComposeAddress(incoming)
	}
	return changes
}

// ApplyAddressChanges merges a changeset into an address copy and refreshes
// the derived text. The stored text is only regenerated when something
// changed; an empty changeset leaves the address untouched.
func ApplyAddressChanges(address retailcrm.Address, changes AddressChanges) retailcrm.Address {
	if changes.Empty() {
		return address
	}
	for field, value := range changes.Fields {
		setAddressField(&address, field, value)
	}
	address.Text = changes.Text
	return address
}
