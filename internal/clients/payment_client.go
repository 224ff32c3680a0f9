package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

// PaymentClient talks to the external payment authorizer: it exchanges a
// client-supplied payment nonce plus an amount for a success/failure
// result. Timeout and retry policy toward the authorizer are the
// authorizer client's concern, not the order core's.
type PaymentClient interface {
	ClientToken() (string, error)
	Authorize(nonce string, amount float64) (*domain.PaymentResult, error)
}

type paymentHTTPClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func NewPaymentHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) PaymentClient {
	return &paymentHTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

type clientTokenResponse struct {
	ClientToken string `json:"client_token"`
}

func (c *paymentHTTPClient) ClientToken() (string, error) {
	url := fmt.Sprintf("%s/client_token", c.baseURL)
	c.log.Debugf("PaymentClient: Requesting client token from %s", url)

	resp, err := c.client.Get(url)
	if err != nil {
		c.log.Errorf("PaymentClient: Failed to request client token: %v", err)
		return "", fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Errorf("PaymentClient: Client token request failed with status %d", resp.StatusCode)
		return "", fmt.Errorf("payment service returned status %d for client token", resp.StatusCode)
	}

	var response clientTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		c.log.Errorf("PaymentClient: Failed to decode client token response: %v", err)
		return "", fmt.Errorf("failed to decode payment service response: %w", err)
	}
	if response.ClientToken == "" {
		return "", fmt.Errorf("payment service returned an empty client token")
	}

	return response.ClientToken, nil
}

type authorizeRequest struct {
	PaymentMethodNonce string  `json:"payment_method_nonce"`
	Amount             float64 `json:"amount"`
}

type authorizeResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
}

func (c *paymentHTTPClient) Authorize(nonce string, amount float64) (*domain.PaymentResult, error) {
	if nonce == "" {
		return nil, fmt.Errorf("payment nonce cannot be empty")
	}
	if amount < 0 {
		return nil, fmt.Errorf("payment amount cannot be negative")
	}

	url := fmt.Sprintf("%s/transactions", c.baseURL)
	payload, err := json.Marshal(authorizeRequest{
		PaymentMethodNonce: nonce,
		Amount:             amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare payment request: %w", err)
	}

	c.log.Infof("PaymentClient: Authorizing payment of %.2f via %s", amount, url)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		c.log.Errorf("PaymentClient: Failed to create authorize request: %v", err)
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("PaymentClient: Failed to execute authorize request: %v", err)
		return nil, fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorf("PaymentClient: Failed to read authorize response: %v", err)
		return nil, fmt.Errorf("failed to read payment service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Errorf("PaymentClient: Authorize request failed with status %d. Response body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}

	var response authorizeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		c.log.Errorf("PaymentClient: Failed to decode authorize response: %v", err)
		return nil, fmt.Errorf("failed to decode payment service response: %w", err)
	}

	// The raw authorizer result is stored on the order verbatim; callers
	// decide what Success=false means.
	result := &domain.PaymentResult{
		Success:       response.Success,
		TransactionID: response.TransactionID,
		Raw:           json.RawMessage(body),
	}

	if result.Success {
		c.log.Infof("PaymentClient: Payment authorized, transaction %s", result.TransactionID)
	} else {
		c.log.Warnf("PaymentClient: Payment declined by authorizer (transaction %s)", result.TransactionID)
	}
	return result, nil
}
