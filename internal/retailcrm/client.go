package retailcrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jirafa27/TaplinkRetailCRMConnector/internal/config"
	"github.com/jirafa27/TaplinkRetailCRMConnector/pkg/errors"
)

// Client is the RetailCRM API v5 HTTP client. All methods are synchronous
// request/response; an unsuccessful API envelope and a transport failure
// both come back as a plain error.
type Client struct {
	baseURL    string
	apiKey     string
	site       string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a RetailCRM client from config.
func NewClient(cfg config.RetailCRMConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		site:       cfg.Site,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Site returns the CRM site code orders and customers are created under.
func (c *Client) Site() string { return c.site }

// apiResponse is the common RetailCRM response envelope.
type apiResponse struct {
	Success   bool            `json:"success"`
	ErrorMsg  string          `json:"errorMsg,omitempty"`
	ID        int             `json:"id,omitempty"`
	Customers []Customer      `json:"customers,omitempty"`
	Offers    []Offer         `json:"offers,omitempty"`
	Errors    json.RawMessage `json:"errors,omitempty"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*apiResponse, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*apiResponse, error) {
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retailcrm request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read retailcrm response: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal retailcrm response: %w, body: %s", err, string(body))
	}

	if !envelope.Success {
		msg := envelope.ErrorMsg
		if msg == "" {
			msg = fmt.Sprintf("retailcrm returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("retailcrm API error: %s", msg)
	}

	return &envelope, nil
}

// FindCustomerByPhone looks a customer up by phone number. Returns (nil, nil)
// when no customer matches; the phone is assumed unique, so if the CRM ever
// returns several, the first match wins.
func (c *Client) FindCustomerByPhone(ctx context.Context, phone string) (*Customer, error) {
	query := url.Values{}
	query.Set("filter[phone]", phone)

	resp, err := c.get(ctx, "/api/v5/customers", query)
	if err != nil {
		return nil, err
	}
	if len(resp.Customers) == 0 {
		return nil, nil
	}
	return &resp.Customers[0], nil
}

// CreateCustomer creates a new customer and returns the id the CRM assigned.
func (c *Client) CreateCustomer(ctx context.Context, customer Customer) (int, error) {
	payload, err := json.Marshal(customer)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal customer: %w", err)
	}

	form := url.Values{}
	form.Set("customer", string(payload))
	form.Set("site", c.site)

	resp, err := c.postForm(ctx, "/api/v5/customers/create", form)
	if err != nil {
		return 0, err
	}
	c.logger.Info("Customer created in RetailCRM", zap.Int("customer_id", resp.ID))
	return resp.ID, nil
}

// EditCustomer pushes a full customer record back to the CRM by id.
func (c *Client) EditCustomer(ctx context.Context, customer Customer) error {
	payload, err := json.Marshal(customer)
	if err != nil {
		return fmt.Errorf("failed to marshal customer: %w", err)
	}

	form := url.Values{}
	form.Set("customer", string(payload))
	form.Set("by", "id")
	form.Set("site", c.site)

	path := fmt.Sprintf("/api/v5/customers/%d/edit", customer.ID)
	if _, err := c.postForm(ctx, path, form); err != nil {
		return err
	}
	c.logger.Info("Customer updated in RetailCRM", zap.Int("customer_id", customer.ID))
	return nil
}

// FindOfferByExternalID looks a catalog offer up by its external id.
// Returns *errors.ErrNotFound when the catalog has no such offer.
func (c *Client) FindOfferByExternalID(ctx context.Context, externalID string) (*Offer, error) {
	query := url.Values{}
	query.Set("filter[externalIds][]", externalID)

	resp, err := c.get(ctx, "/api/v5/store/offers", query)
	if err != nil {
		return nil, err
	}
	if len(resp.Offers) == 0 {
		return nil, &errors.ErrNotFound{Resource: "offer", ID: "externalId=" + externalID}
	}
	return &resp.Offers[0], nil
}

// FindOfferByName looks a catalog offer up by its product name.
// Returns *errors.ErrNotFound when the catalog has no such offer.
func (c *Client) FindOfferByName(ctx context.Context, name string) (*Offer, error) {
	query := url.Values{}
	query.Set("filter[name]", name)

	resp, err := c.get(ctx, "/api/v5/store/offers", query)
	if err != nil {
		return nil, err
	}
	if len(resp.Offers) == 0 {
		return nil, &errors.ErrNotFound{Resource: "offer", ID: "name=" + name}
	}
	return &resp.Offers[0], nil
}

// CreateOrder creates an order and returns the id the CRM assigned.
func (c *Client) CreateOrder(ctx context.Context, order Order) (int, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal order: %w", err)
	}

	form := url.Values{}
	form.Set("order", string(payload))
	form.Set("site", c.site)

	resp, err := c.postForm(ctx, "/api/v5/orders/create", form)
	if err != nil {
		return 0, err
	}
	c.logger.Info("Order created in RetailCRM", zap.Int("order_id", resp.ID), zap.String("number", order.Number))
	return resp.ID, nil
}
