package affiliate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ConversionClient reports a claimed commission to the upstream
// affiliate network. The call is synchronous and is never retried;
// the caller decides what to do with a rejected response.
type ConversionClient interface {
	ReportConversion(ctx context.Context, request *ConversionRequest) (*ConversionResponse, error)
}

type ConversionRequest struct {
	AffiliateCode    string  `json:"affiliate_code"`
	CommissionAmount float64 `json:"commission_amount"`
	OrderID          string  `json:"order_id"`
}

// ConversionResponse carries the raw HTTP outcome. A non-nil response
// means the transport round-trip completed; rejection is signalled via
// the status code, not an error.
type ConversionResponse struct {
	StatusCode int
	Body       []byte
}

// Accepted reports whether the network confirmed the conversion.
func (r *ConversionResponse) Accepted() bool {
	return r.StatusCode == http.StatusOK || r.StatusCode == http.StatusCreated
}

// JSON decodes the response body, falling back to the raw string when
// the upstream did not return valid JSON.
func (r *ConversionResponse) JSON() interface{} {
	var decoded interface{}
	if err := json.Unmarshal(r.Body, &decoded); err != nil {
		return string(r.Body)
	}
	return decoded
}

type BloomClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

func NewBloomClient(apiURL, apiKey string, timeout time.Duration) *BloomClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &BloomClient{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *BloomClient) ReportConversion(ctx context.Context, request *ConversionRequest) (*ConversionResponse, error) {
	reqBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion API call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &ConversionResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
