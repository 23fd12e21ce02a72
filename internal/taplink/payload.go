package taplink

import "encoding/json"

// Webhook is the envelope Taplink POSTs to the connector. Only the
// "leads.created" action carries a payload we act on.
type Webhook struct {
	Action string   `json:"action"`
	Data   LeadData `json:"data"`
}

const ActionLeadCreated = "leads.created"

// LeadData is the body of a leads.created event. Taplink exports the order
// form as a flat list of labeled records plus the cart contents. Depending
// on the storefront version the cart arrives either as offers (title plus
// option strings) or as direct catalog items (article, nominal, price).
type LeadData struct {
	Records []Record `json:"records"`
	Offers  []Offer  `json:"offers"`
	Items   []Item   `json:"items"`
}

// Record is one labeled form field. Labels are whatever the storefront form
// is configured with; unrecognized labels are ignored.
type Record struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Offer is a cart line in the title-resolved shape. Options, when present,
// are variant strings like "Номинал 3000" whose second token is the nominal.
type Offer struct {
	Title   string      `json:"title"`
	Amount  json.Number `json:"amount"`
	Price   float64     `json:"price"`
	Options []string    `json:"options"`
}

// Item is a cart line in the direct-catalog shape.
type Item struct {
	Article  string      `json:"article"`
	Nominal  string      `json:"nominal"`
	Quantity json.Number `json:"quantity"`
	Price    float64     `json:"price"`
}
