package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/config"
	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/domain"
	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/retailcrm"
	"github.com/jirafa27/TaplinkRetailCRMConnector/pkg/errors"
)

const testSecret = "test-secret"

// stubCRM is the minimal gateway double the webhook tests need: one known
// customer-free phone space and one catalog offer.
type stubCRM struct {
	customers  map[string]*retailcrm.Customer
	offers     map[string]*retailcrm.Offer
	orderCalls int
}

func newStubCRM() *stubCRM {
	return &stubCRM{
		customers: map[string]*retailcrm.Customer{},
		offers:    map[string]*retailcrm.Offer{},
	}
}

func (s *stubCRM) FindCustomerByPhone(_ context.Context, phone string) (*retailcrm.Customer, error) {
	if customer, ok := s.customers[phone]; ok {
		return customer, nil
	}
	return nil, nil
}

func (s *stubCRM) CreateCustomer(_ context.Context, customer retailcrm.Customer) (int, error) {
	customer.ID = 100
	s.customers[customer.Phone()] = &customer
	return 100, nil
}

func (s *stubCRM) EditCustomer(_ context.Context, customer retailcrm.Customer) error {
	s.customers[customer.Phone()] = &customer
	return nil
}

func (s *stubCRM) FindOfferByExternalID(_ context.Context, externalID string) (*retailcrm.Offer, error) {
	if offer, ok := s.offers[externalID]; ok {
		return offer, nil
	}
	return nil, &errors.ErrNotFound{Resource: "offer", ID: externalID}
}

func (s *stubCRM) FindOfferByName(_ context.Context, name string) (*retailcrm.Offer, error) {
	if offer, ok := s.offers[name]; ok {
		return offer, nil
	}
	return nil, &errors.ErrNotFound{Resource: "offer", ID: name}
}

func (s *stubCRM) CreateOrder(_ context.Context, _ retailcrm.Order) (int, error) {
	s.orderCalls++
	return 777, nil
}

func (s *stubCRM) Site() string { return "taplink2" }

func sign(body []byte) string {
	mac := hmac.New(sha1.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookRouter(crm *stubCRM) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{TaplinkWebhookSecret: testSecret}
	router := gin.New()
	router.POST("/webhook/taplink", HandleTaplinkWebhook(cfg, crm, zap.NewNop()))
	return router
}

func postWebhook(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/taplink", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("taplink-signature", signature)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func leadBody() []byte {
	return []byte(`{
		"action": "leads.created",
		"data": {
			"records": [
				{"title": "Имя", "value": "Иван"},
				{"title": "Телефон", "value": "79001234567"}
			],
			"offers": [
				{"title": "ПЕЛЬМЕНИ КУРИНЫЕ", "amount": 2}
			]
		}
	}`)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	router := newWebhookRouter(newStubCRM())

	recorder := postWebhook(router, leadBody(), "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	router := newWebhookRouter(newStubCRM())

	recorder := postWebhook(router, leadBody(), "deadbeef")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	router := newWebhookRouter(newStubCRM())
	body := []byte(`{"action": `)

	recorder := postWebhook(router, body, sign(body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestWebhookIgnoresUnknownAction(t *testing.T) {
	crm := newStubCRM()
	router := newWebhookRouter(crm)
	body := []byte(`{"action": "leads.deleted", "data": {}}`)

	recorder := postWebhook(router, body, sign(body))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ignored")
	assert.Zero(t, crm.orderCalls)
}

func TestWebhookProcessesLead(t *testing.T) {
	crm := newStubCRM()
	crm.offers["ПЕЛЬМЕНИ КУРИНЫЕ"] = &retailcrm.Offer{
		ID:     42,
		Name:   "ПЕЛЬМЕНИ КУРИНЫЕ",
		Prices: []retailcrm.OfferPrice{{Price: 100}},
	}
	router := newWebhookRouter(crm)
	body := leadBody()

	recorder := postWebhook(router, body, sign(body))

	require.Equal(t, http.StatusOK, recorder.Code)

	var result domain.Result
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 777, result.OrderID)
	assert.Equal(t, 1, crm.orderCalls)
}

func TestWebhookReturnsFailureResult(t *testing.T) {
	crm := newStubCRM() // no offers registered: nothing resolves
	router := newWebhookRouter(crm)
	body := leadBody()

	recorder := postWebhook(router, body, sign(body))

	// The sender always gets a structured acknowledgment, never a stack trace.
	require.Equal(t, http.StatusOK, recorder.Code)

	var result domain.Result
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "no valid items after preparation", result.Error)
	assert.Zero(t, crm.orderCalls)
}
