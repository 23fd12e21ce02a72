package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/domain"
	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/retailcrm"
)

func TestFormatDeliveryDate(t *testing.T) {
	assert.Equal(t, "2024-03-20", formatDeliveryDate("20.03.2024"))
	assert.Equal(t, "", formatDeliveryDate(""))
	assert.Equal(t, "", formatDeliveryDate("завтра"))
	assert.Equal(t, "", formatDeliveryDate("2024-03-20"), "already-CRM-formatted dates are not expected from the form")
}

func TestAssembleOrder(t *testing.T) {
	customer := retailcrm.Customer{
		ID:        42,
		FirstName: "Иван",
		LastName:  "Петров",
		Phones:    []retailcrm.Phone{{Number: "79001234567"}},
		Address:   retailcrm.Address{City: "Москва", Street: "Ленина", Text: "Москва, Ленина"},
		Comment:   "домофон не работает",
	}
	items := []domain.ResolvedItem{
		{OfferID: 1, ProductName: "ТОВАР ОДИН", Quantity: 2, Price: 100},
		{OfferExternalID: "1-3000", ProductName: "ПОДАРОЧНЫЙ СЕРТИФИКАТ", Quantity: 1, Price: 3000},
	}
	raw := domain.RawCustomer{
		PromoCode:    "TEST123",
		PaymentType:  "cash",
		DeliveryDate: "20.03.2024",
		DeliveryTime: "14:00",
		ExtraNotes:   "позвонить за час",
	}
	now := time.Date(2024, 3, 18, 12, 30, 0, 0, time.UTC)

	order := AssembleOrder(customer, items, decimal.NewFromInt(3200), "ТОВАР ТРИ не найдено\n", raw, "taplink2", now)

	assert.Equal(t, "TAP-1710765000", order.Number)
	assert.Equal(t, "taplink-1710765000", order.ExternalID)
	assert.Equal(t, "new", order.Status)
	assert.Equal(t, "main", order.OrderType)
	assert.Equal(t, "taplink", order.OrderMethod)
	assert.Equal(t, "individual", order.Contragent.ContragentType)
	assert.Equal(t, "RU", order.CountryISO)
	assert.Equal(t, "taplink", order.Source.Source)
	assert.True(t, order.FromAPI)
	assert.False(t, order.Shipped)

	assert.Equal(t, 42, order.Customer.ID)
	assert.Equal(t, "taplink2", order.Customer.Site)
	assert.Equal(t, 42, order.Contact.ID)
	assert.Equal(t, "79001234567", order.Phone)
	assert.Equal(t, "домофон не работает", order.CustomerComment)

	assert.Equal(t, "courier", order.Delivery.Code)
	assert.Equal(t, "2024-03-20", order.Delivery.Date)
	require.NotNil(t, order.Delivery.Time)
	assert.Equal(t, "14:00", order.Delivery.Time.From)
	assert.Equal(t, "14:00", order.Delivery.Time.To)
	assert.Equal(t, "Москва, Ленина", order.Delivery.Address.Text)
	assert.Equal(t, "позвонить за час", order.Delivery.Address.Notes)

	assert.Equal(t, 3200.0, order.TotalSumm)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, "cash", order.Payments[0].Type)
	assert.Equal(t, "not-paid", order.Payments[0].Status)
	assert.Equal(t, 3200.0, order.Payments[0].Amount)

	require.Len(t, order.Items, 2)
	assert.Equal(t, 1, order.Items[0].Offer.ID)
	assert.Equal(t, 1, order.Items[0].Ordering)
	assert.Equal(t, "1-3000", order.Items[1].Offer.ExternalID)
	assert.Equal(t, 2, order.Items[1].Ordering)
	assert.Equal(t, "new", order.Items[0].Status)
	assert.Equal(t, "none", order.Items[0].VatRate)

	assert.Contains(t, order.ManagerComment, "Промокод: TEST123")
	assert.Contains(t, order.ManagerComment, "ТОВАР ТРИ не найдено")
}

func TestAssembleOrderDefaults(t *testing.T) {
	customer := retailcrm.Customer{ID: 7}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	order := AssembleOrder(customer, nil, decimal.Zero, "", domain.RawCustomer{}, "taplink2", now)

	assert.Equal(t, "cash", order.Payments[0].Type, "payment type defaults to cash")
	assert.Empty(t, order.Delivery.Date)
	assert.Nil(t, order.Delivery.Time)
	assert.Empty(t, order.ManagerComment)
	assert.Empty(t, order.Items)
}
