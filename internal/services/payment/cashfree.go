package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"festmatch_backend/internal/config"
)

// OrderRequest is the order payload sent to Cashfree at checkout.
type OrderRequest struct {
	OrderID       string            `json:"order_id"`
	Amount        float64           `json:"order_amount"`
	Currency      string            `json:"order_currency"`
	CustomerID    string            `json:"-"`
	CustomerName  string            `json:"-"`
	CustomerEmail string            `json:"-"`
	CustomerPhone string            `json:"-"`
	Tags          map[string]string `json:"order_tags,omitempty"`
}

// OrderSession is what the client needs to redirect the payer.
type OrderSession struct {
	PaymentSessionID string
	OrderID          string
}

// Cashfree order_status values. Only OrderStatusPaid means money moved.
const (
	OrderStatusActive     = "ACTIVE"
	OrderStatusPaid       = "PAID"
	OrderStatusExpired    = "EXPIRED"
	OrderStatusTerminated = "TERMINATED"
)

// OrderStatus is the gateway's view of an order, fetched server-side.
// Callback parameters are never trusted on their own.
type OrderStatus struct {
	OrderID string
	Status  string
}

// Paid reports whether the gateway has collected the money for this order.
func (s *OrderStatus) Paid() bool {
	return s.Status == OrderStatusPaid
}

// Client abstracts the payment gateway so services and tests stay independent
// of the HTTP integration.
type Client interface {
	CreateOrder(req OrderRequest) (*OrderSession, error)
	GetOrderStatus(orderID string) (*OrderStatus, error)
}

// CashfreeClient talks to the Cashfree PG REST API.
type CashfreeClient struct {
	appID     string
	secretKey string
	baseURL   string
	returnURL string
	http      *http.Client
}

func NewCashfreeClient(cfg *config.Config) *CashfreeClient {
	return &CashfreeClient{
		appID:     cfg.Cashfree.AppID,
		secretKey: cfg.Cashfree.SecretKey,
		baseURL:   cfg.Cashfree.BaseURL,
		returnURL: cfg.Cashfree.ReturnURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

type cashfreeOrderBody struct {
	OrderID         string            `json:"order_id"`
	OrderAmount     float64           `json:"order_amount"`
	OrderCurrency   string            `json:"order_currency"`
	CustomerDetails map[string]string `json:"customer_details"`
	OrderMeta       map[string]string `json:"order_meta"`
	OrderTags       map[string]string `json:"order_tags,omitempty"`
}

type cashfreeOrderResponse struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
}

func (c *CashfreeClient) CreateOrder(req OrderRequest) (*OrderSession, error) {
	body := cashfreeOrderBody{
		OrderID:       req.OrderID,
		OrderAmount:   req.Amount,
		OrderCurrency: req.Currency,
		CustomerDetails: map[string]string{
			"customer_id":    req.CustomerID,
			"customer_name":  req.CustomerName,
			"customer_email": req.CustomerEmail,
			"customer_phone": req.CustomerPhone,
		},
		OrderMeta: map[string]string{
			"return_url": c.returnURL + "?order_id={order_id}&cf_id={cf_id}",
		},
		OrderTags: req.Tags,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order payload: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-version", "2023-08-01")
	httpReq.Header.Set("x-client-id", c.appID)
	httpReq.Header.Set("x-client-secret", c.secretKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cashfree order call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("cashfree order call returned %d: %s", resp.StatusCode, string(raw))
	}

	var orderResp cashfreeOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, fmt.Errorf("failed to decode cashfree response: %w", err)
	}

	return &OrderSession{
		PaymentSessionID: orderResp.PaymentSessionID,
		OrderID:          orderResp.OrderID,
	}, nil
}

type cashfreeOrderStatusResponse struct {
	OrderID     string `json:"order_id"`
	OrderStatus string `json:"order_status"`
}

func (c *CashfreeClient) GetOrderStatus(orderID string) (*OrderStatus, error) {
	httpReq, err := http.NewRequest(http.MethodGet, c.baseURL+"/orders/"+orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build order status request: %w", err)
	}
	httpReq.Header.Set("x-api-version", "2023-08-01")
	httpReq.Header.Set("x-client-id", c.appID)
	httpReq.Header.Set("x-client-secret", c.secretKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cashfree order status call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("cashfree order status call returned %d: %s", resp.StatusCode, string(raw))
	}

	var statusResp cashfreeOrderStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&statusResp); err != nil {
		return nil, fmt.Errorf("failed to decode cashfree status response: %w", err)
	}

	return &OrderStatus{OrderID: statusResp.OrderID, Status: statusResp.OrderStatus}, nil
}
