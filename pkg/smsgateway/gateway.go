package smsgateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway sends transactional SMS. The payment service uses it to tell the
// payer how their boost claim ended up.
type Gateway interface {
	SendSMS(msisdn, message string) (string, error)
}

// HTTPGateway sends SMS through an API-key authenticated HTTP gateway.
type HTTPGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// MockGateway logs instead of sending, for development and tests.
type MockGateway struct{}

// NewHTTPGateway creates a new HTTPGateway
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewMockGateway creates a new MockGateway
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// SendSMS sends an SMS through the HTTP gateway and returns the message id
func (g *HTTPGateway) SendSMS(msisdn, message string) (string, error) {
	requestBody := map[string]string{
		"to":      msisdn,
		"message": message,
	}
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, g.baseURL+"/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return response.MessageID, nil
}

// SendSMS simulates a send and returns a synthetic message id
func (g *MockGateway) SendSMS(msisdn, message string) (string, error) {
	msgID := fmt.Sprintf("MOCK-MSG-%d", time.Now().UnixNano())
	fmt.Printf("[Mock SMS Gateway] to %s: %s -> %s\n", msisdn, message, msgID)
	return msgID, nil
}
