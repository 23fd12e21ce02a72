package domain

// RawCustomer is the canonical customer data extracted from a Taplink lead.
// Every field is a plain string straight from the form; missing fields stay
// empty, which is never an error by itself (only a missing phone is fatal,
// and that is the reconciler's call).
type RawCustomer struct {
	FirstName    string
	LastName     string
	Patronymic   string
	Phone        string
	City         string
	Street       string
	Building     string
	Housing      string
	House        string
	Flat         string
	Block        string
	Floor        string
	Comment      string
	PromoCode    string
	PaymentType  string
	DeliveryDate string
	DeliveryTime string
	ExtraNotes   string
}

// RawItemKind discriminates the two item shapes Taplink has shipped over
// time: a direct catalog reference with article and price, and a
// title-resolved offer line possibly carrying a nominal option.
type RawItemKind string

const (
	ItemByArticle RawItemKind = "article"
	ItemByTitle   RawItemKind = "title"
)

// RawItem is one normalized cart line from the webhook.
type RawItem struct {
	Kind     RawItemKind
	Article  string
	Title    string
	Nominal  string
	Quantity int
	Price    float64
}

// ExternalID derives the CRM catalog external id for items that can be
// addressed directly. Title items use the fixed product id "1" (gift
// certificates are the only product sold by nominal). Returns "" when the
// item must be resolved by name instead.
func (i RawItem) ExternalID() string {
	switch i.Kind {
	case ItemByArticle:
		if i.Nominal != "" {
			return i.Article + "-" + i.Nominal
		}
		return i.Article
	case ItemByTitle:
		if i.Nominal != "" {
			return "1-" + i.Nominal
		}
	}
	return ""
}

// Label returns a human-readable identifier for log and manager-comment
// lines about this item.
func (i RawItem) Label() string {
	if i.Title != "" {
		if i.Nominal != "" {
			return i.Title + " " + i.Nominal
		}
		return i.Title
	}
	return "артикул " + i.Article
}

// ResolvedItem is a cart line matched to an actual CRM catalog offer.
// Exactly one of OfferID / OfferExternalID is set.
type ResolvedItem struct {
	OfferID         int     `json:"offer_id,omitempty"`
	OfferExternalID string  `json:"offer_external_id,omitempty"`
	ProductName     string  `json:"product_name,omitempty"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
}

// Result is what the pipeline hands back to the webhook endpoint. The
// endpoint translates it into an HTTP response; the core never decides
// status codes.
type Result struct {
	Success bool           `json:"success"`
	OrderID int            `json:"order_id,omitempty"`
	Error   string         `json:"error,omitempty"`
	Items   []ResolvedItem `json:"items"`
}
