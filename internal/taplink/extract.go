package taplink

import (
	"strconv"
	"strings"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/domain"
)

// recordLabels maps the storefront's form labels to RawCustomer fields.
// Adding a newly recognized label is a one-line change here; anything not in
// the map is dropped on purpose (the form changes more often than the CRM).
var recordLabels = map[string]func(*domain.RawCustomer, string){
	"Имя":            func(c *domain.RawCustomer, v string) { c.FirstName = v },
	"Фамилия":        func(c *domain.RawCustomer, v string) { c.LastName = v },
	"Отчество":       func(c *domain.RawCustomer, v string) { c.Patronymic = v },
	"Телефон":        func(c *domain.RawCustomer, v string) { c.Phone = v },
	"Город":          func(c *domain.RawCustomer, v string) { c.City = v },
	"Улица":          func(c *domain.RawCustomer, v string) { c.Street = v },
	"Дом":            func(c *domain.RawCustomer, v string) { c.Building = v },
	"Корпус":         func(c *domain.RawCustomer, v string) { c.Housing = v },
	"Строение":       func(c *domain.RawCustomer, v string) { c.House = v },
	"Кв./офис":       func(c *domain.RawCustomer, v string) { c.Flat = v },
	"Подъезд":        func(c *domain.RawCustomer, v string) { c.Block = v },
	"Этаж":           func(c *domain.RawCustomer, v string) { c.Floor = v },
	"Способ оплаты":  func(c *domain.RawCustomer, v string) { c.PaymentType = v },
	"Дата доставки":  func(c *domain.RawCustomer, v string) { c.DeliveryDate = v },
	"Время доставки": func(c *domain.RawCustomer, v string) { c.DeliveryTime = v },
	"Комментарий":    func(c *domain.RawCustomer, v string) { c.Comment = v },
	"Промокод":       func(c *domain.RawCustomer, v string) { c.PromoCode = v },
	"Время доставки / примечание / промокод": func(c *domain.RawCustomer, v string) { c.ExtraNotes = v },
}

// ExtractCustomer walks the lead's records once and fills a RawCustomer from
// every record whose label is recognized. Duplicate labels are last-write-wins.
// Extraction never fails; a lead with zero recognizable records yields an
// all-empty customer and the reconciler rejects it later for the missing phone.
func ExtractCustomer(records []Record) domain.RawCustomer {
	var customer domain.RawCustomer
	for _, record := range records {
		if assign, ok := recordLabels[record.Title]; ok {
			assign(&customer, record.Value)
		}
	}
	return customer
}

// ExtractItems normalizes the cart into RawItems, handling both payload
// shapes. Offers with options fan out to one item per option; the option
// string's second whitespace token is the nominal ("Номинал 3000" -> "3000").
func ExtractItems(data LeadData) []domain.RawItem {
	items := make([]domain.RawItem, 0, len(data.Offers)+len(data.Items))

	for _, offer := range data.Offers {
		quantity := coerceQuantity(string(offer.Amount))
		if len(offer.Options) == 0 {
			items = append(items, domain.RawItem{
				Kind:     domain.ItemByTitle,
				Title:    offer.Title,
				Quantity: quantity,
				Price:    offer.Price,
			})
			continue
		}
		for _, option := range offer.Options {
			items = append(items, domain.RawItem{
				Kind:     domain.ItemByTitle,
				Title:    offer.Title,
				Nominal:  optionNominal(option),
				Quantity: quantity,
				Price:    offer.Price,
			})
		}
	}

	for _, item := range data.Items {
		items = append(items, domain.RawItem{
			Kind:     domain.ItemByArticle,
			Article:  item.Article,
			Nominal:  item.Nominal,
			Quantity: coerceQuantity(string(item.Quantity)),
			Price:    item.Price,
		})
	}

	return items
}

// coerceQuantity parses a quantity, defaulting to 1 for anything absent or
// non-numeric. A broken amount must not drop the line from the order.
func coerceQuantity(raw string) int {
	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || quantity <= 0 {
		return 1
	}
	return quantity
}

func optionNominal(option string) string {
	parts := strings.Fields(option)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
