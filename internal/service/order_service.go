package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/domain"
	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/retailcrm"
)

const (
	crmTimeLayout  = "2006-01-02 15:04:05"
	crmDateLayout  = "2006-01-02"
	leadDateLayout = "02.01.2006"
)

// formatDeliveryDate reformats the lead's dd.mm.yyyy delivery date into the
// CRM's yyyy-mm-dd. Missing or unparsable dates are passed through as
// absent, never an error.
func formatDeliveryDate(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := time.Parse(leadDateLayout, raw)
	if err != nil {
		return ""
	}
	return parsed.Format(crmDateLayout)
}

// managerComment builds the manager-visible comment from the lead's promo
// code and the unresolved-items note.
func managerComment(raw domain.RawCustomer, unresolvedNote string) string {
	comment := unresolvedNote
	if raw.PromoCode != "" {
		line := fmt.Sprintf("Промокод: %s", raw.PromoCode)
		if comment != "" {
			comment = line + "\n" + comment
		} else {
			comment = line
		}
	}
	return comment
}

// AssembleOrder builds the CRM order payload from the reconciled customer,
// the resolved cart and the lead's delivery metadata. Pure: the clock is
// injected so the time-derived correlation id is testable.
func AssembleOrder(
	customer retailcrm.Customer,
	items []domain.ResolvedItem,
	total decimal.Decimal,
	unresolvedNote string,
	raw domain.RawCustomer,
	site string,
	now time.Time,
) retailcrm.Order {
	orderItems := make([]retailcrm.OrderItem, 0, len(items))
	for i, item := range items {
		orderItems = append(orderItems, retailcrm.OrderItem{
			Offer: retailcrm.OrderOffer{
				ID:         item.OfferID,
				ExternalID: item.OfferExternalID,
			},
			ProductName:  item.ProductName,
			InitialPrice: item.Price,
			Quantity:     item.Quantity,
			Status:       "new",
			Ordering:     i + 1,
			VatRate:      "none",
		})
	}

	deliveryAddress := customer.Address
	deliveryAddress.Notes = raw.ExtraNotes
	deliveryAddress.CountryISO = "RU"

	paymentType := raw.PaymentType
	if paymentType == "" {
		paymentType = "cash"
	}

	timestamp := now.Unix()
	totalSum, _ := total.Float64()

	order := retailcrm.Order{
		Number:          fmt.Sprintf("TAP-%d", timestamp),
		ExternalID:      fmt.Sprintf("taplink-%d", timestamp),
		PrivilegeType:   "none",
		CountryISO:      "RU",
		CreatedAt:       now.Format(crmTimeLayout),
		StatusUpdatedAt: now.Format(crmTimeLayout),
		FirstName:       customer.FirstName,
		LastName:        customer.LastName,
		Patronymic:      customer.Patronymic,
		Phone:           customer.Phone(),
		Email:           customer.Email,
		CustomerComment: customer.Comment,
		ManagerComment:  managerComment(raw, unresolvedNote),
		Contragent:      retailcrm.Contragent{ContragentType: "individual"},
		OrderType:       "main",
		OrderMethod:     "taplink",
		Status:          "new",
		Customer:        retailcrm.CustomerRef{ID: customer.ID, Site: site},
		Contact:         retailcrm.CustomerRef{ID: customer.ID, Site: site},
		Delivery: retailcrm.Delivery{
			Code:    "courier",
			Address: deliveryAddress,
			Date:    formatDeliveryDate(raw.DeliveryDate),
		},
		Payments: []retailcrm.Payment{{
			Type:   paymentType,
			Status: "not-paid",
			Amount: totalSum,
		}},
		TotalSumm:    totalSum,
		Source:       &retailcrm.Source{Source: "taplink", Medium: "web"},
		Items:        orderItems,
		FromAPI:      true,
		CustomFields: []interface{}{},
	}

	if raw.DeliveryTime != "" {
		order.Delivery.Time = &retailcrm.DeliveryTime{
			From: raw.DeliveryTime,
			To:   raw.DeliveryTime,
		}
	}

	return order
}
