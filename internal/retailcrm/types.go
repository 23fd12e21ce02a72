package retailcrm

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString unmarshals a JSON value that RetailCRM returns inconsistently
// as either a string or a number (floor, block). It always marshals back as
// a string; zero and empty both mean "not set".
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// Empty reports whether the value is unset. RetailCRM uses 0 as the default
// for numeric address fields, so "0" counts as unset too.
func (s FlexString) Empty() bool {
	v := strings.TrimSpace(string(s))
	if v == "" {
		return true
	}
	if n, err := strconv.Atoi(v); err == nil && n == 0 {
		return true
	}
	return false
}

// Address is the CRM's structured customer address. Text is always derived
// from the structured fields (see service.ComposeAddress); it is never
// edited independently.
type Address struct {
	Text       string     `json:"text,omitempty"`
	City       string     `json:"city,omitempty"`
	Street     string     `json:"street,omitempty"`
	Building   string     `json:"building,omitempty"`
	Housing    string     `json:"housing,omitempty"`
	House      string     `json:"house,omitempty"`
	Flat       string     `json:"flat,omitempty"`
	Block      FlexString `json:"block,omitempty"`
	Floor      FlexString `json:"floor,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CountryISO string     `json:"countryIso,omitempty"`
}

type Phone struct {
	Number string `json:"number"`
}

type Contragent struct {
	ContragentType string `json:"contragentType,omitempty"`
}

type Source struct {
	Source string `json:"source,omitempty"`
	Medium string `json:"medium,omitempty"`
}

// Customer is the CRM-resident customer record. The id is assigned by the
// CRM on create and immutable afterwards; the phone is the natural lookup key.
type Customer struct {
	ID         int        `json:"id,omitempty"`
	FirstName  string     `json:"firstName,omitempty"`
	LastName   string     `json:"lastName,omitempty"`
	Patronymic string     `json:"patronymic,omitempty"`
	Email      string     `json:"email,omitempty"`
	Phones     []Phone    `json:"phones,omitempty"`
	Address    Address    `json:"address,omitempty"`
	Contragent Contragent `json:"contragent,omitempty"`
	Source     *Source    `json:"source,omitempty"`
	Comment    string     `json:"comment,omitempty"`
}

// Phone returns the customer's primary phone number, if any.
func (c Customer) Phone() string {
	if len(c.Phones) == 0 {
		return ""
	}
	return c.Phones[0].Number
}

// OfferPrice is one price entry of a catalog offer.
type OfferPrice struct {
	Price float64 `json:"price"`
}

// Offer is a CRM catalog trade offer, addressable by internal id or by the
// external id the storefront knows it under.
type Offer struct {
	ID         int          `json:"id"`
	ExternalID string       `json:"externalId,omitempty"`
	XMLID      string       `json:"xmlId,omitempty"`
	Name       string       `json:"name,omitempty"`
	Prices     []OfferPrice `json:"prices,omitempty"`
}

// FirstPrice returns the offer's first catalog price, or 0 when the CRM
// returned no prices.
func (o Offer) FirstPrice() float64 {
	if len(o.Prices) == 0 {
		return 0
	}
	return o.Prices[0].Price
}

// OrderOffer references the catalog offer of an order item, either by
// internal id or by external id (never both).
type OrderOffer struct {
	ID         int    `json:"id,omitempty"`
	ExternalID string `json:"externalId,omitempty"`
	XMLID      string `json:"xmlId,omitempty"`
}

// OrderItem is one line of an order payload.
type OrderItem struct {
	Offer        OrderOffer `json:"offer"`
	ProductName  string     `json:"productName,omitempty"`
	InitialPrice float64    `json:"initialPrice,omitempty"`
	Quantity     int        `json:"quantity"`
	Status       string     `json:"status,omitempty"`
	Ordering     int        `json:"ordering,omitempty"`
	VatRate      string     `json:"vatRate,omitempty"`
}

// DeliveryTime is the CRM's delivery time window.
type DeliveryTime struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Delivery carries the order's delivery method, cost and destination.
type Delivery struct {
	Code    string        `json:"code,omitempty"`
	Cost    float64       `json:"cost"`
	NetCost float64       `json:"netCost"`
	Address Address       `json:"address"`
	Date    string        `json:"date,omitempty"`
	Time    *DeliveryTime `json:"time,omitempty"`
}

// Payment is one payment attached to an order.
type Payment struct {
	Type   string  `json:"type,omitempty"`
	Status string  `json:"status,omitempty"`
	Amount float64 `json:"amount"`
}

// CustomerRef references the order's customer/contact by CRM id within a site.
type CustomerRef struct {
	ID   int    `json:"id"`
	Site string `json:"site,omitempty"`
}

// Order is the CRM order payload. Orders are created by this connector and
// never updated afterwards.
type Order struct {
	Number          string        `json:"number,omitempty"`
	ExternalID      string        `json:"externalId,omitempty"`
	PrivilegeType   string        `json:"privilegeType,omitempty"`
	CountryISO      string        `json:"countryIso,omitempty"`
	CreatedAt       string        `json:"createdAt,omitempty"`
	StatusUpdatedAt string        `json:"statusUpdatedAt,omitempty"`
	FirstName       string        `json:"firstName,omitempty"`
	LastName        string        `json:"lastName,omitempty"`
	Patronymic      string        `json:"patronymic,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	Email           string        `json:"email,omitempty"`
	Call            bool          `json:"call"`
	Expired         bool          `json:"expired"`
	CustomerComment string        `json:"customerComment,omitempty"`
	ManagerComment  string        `json:"managerComment,omitempty"`
	Contragent      Contragent    `json:"contragent"`
	OrderType       string        `json:"orderType,omitempty"`
	OrderMethod     string        `json:"orderMethod,omitempty"`
	Status          string        `json:"status,omitempty"`
	Customer        CustomerRef   `json:"customer"`
	Contact         CustomerRef   `json:"contact"`
	Delivery        Delivery      `json:"delivery"`
	Payments        []Payment     `json:"payments,omitempty"`
	TotalSumm       float64       `json:"totalSumm"`
	Source          *Source       `json:"source,omitempty"`
	Items           []OrderItem   `json:"items"`
	FromAPI         bool          `json:"fromApi"`
	Shipped         bool          `json:"shipped"`
	CustomFields    []interface{} `json:"customFields"`
}
