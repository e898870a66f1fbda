package walletapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the external wallet debit API that pushes an approval prompt
// (push STK) to the payer's phone. Only the trust-on-submit product variant
// uses it; the scored variant relies on the pasted SMS evidence instead.
type Client struct {
	BaseURL    string
	APIKey     string
	Mock       bool
	httpClient *http.Client
}

// NewClient creates a new wallet API client
func NewClient(baseURL, apiKey string, mock bool) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Mock:    mock,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type debitRequest struct {
	Numero   string `json:"numero"`
	Valor    int    `json:"valor"`
	Provider string `json:"provider"`
}

type debitResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RequestDebit asks the wallet API to debit the given number. The user still
// has to approve the prompt on their phone; success here only means the
// request was accepted.
func (c *Client) RequestDebit(ctx context.Context, number string, amount int, provider string) error {
	if c.Mock {
		fmt.Printf("[Mock Wallet API] debit %d MT from %s via %s\n", amount, number, provider)
		return nil
	}

	jsonBody, err := json.Marshal(debitRequest{Numero: number, Valor: amount, Provider: provider})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/debito-payment", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response debitResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !response.Success {
		return fmt.Errorf("debit rejected: %s", response.Error)
	}
	return nil
}
