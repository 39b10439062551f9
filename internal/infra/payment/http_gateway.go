package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// HTTPGateway 透過 HTTP API 對接金流服務
// 只發送一次，不在 server 端靜默重試，逾時直接回 ErrGatewayUnavailable
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ Gateway = (*HTTPGateway)(nil)

func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type createAuthorizationRequest struct {
	Amount   int64    `json:"amount"`
	Currency string   `json:"currency"`
	Metadata Metadata `json:"metadata"`
}

type gatewayErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (g *HTTPGateway) CreateAuthorization(ctx context.Context, amountMinorUnits int64, currency string, meta Metadata) (*Authorization, error) {
	body, err := json.Marshal(createAuthorizationRequest{
		Amount:   amountMinorUnits,
		Currency: currency,
		Metadata: meta,
	})
	if err != nil {
		return nil, err
	}

	var auth Authorization
	if err := g.do(ctx, http.MethodPost, "/v1/payment_intents", bytes.NewReader(body), &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (g *HTTPGateway) RetrieveStatus(ctx context.Context, authorizationID string) (*StatusResult, error) {
	var result StatusResult
	path := fmt.Sprintf("/v1/payment_intents/%s", authorizationID)
	if err := g.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		// 網路錯誤與逾時視為暫時性不可用
		return fmt.Errorf("%w: %s", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		var gwErr gatewayErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&gwErr); err == nil && gwErr.Error != "" {
			return fmt.Errorf("%w: %s", ErrPaymentRejected, gwErr.Error)
		}
		return ErrPaymentRejected
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: gateway returned %d", ErrGatewayUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("unexpected gateway response %d", resp.StatusCode)
	}
}

// IsRetryable 暫時性錯誤才建議 UI 層引導重試
func IsRetryable(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable)
}
