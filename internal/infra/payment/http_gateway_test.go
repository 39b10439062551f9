package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateAuthorizationSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payment_intents", r.URL.Path)
		require.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var req createAuthorizationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, int64(2500), req.Amount)
		require.Equal(t, "usd", req.Currency)
		require.Equal(t, 42, req.Metadata.UserID)

		json.NewEncoder(w).Encode(Authorization{ID: "pi_123", ClientSecret: "pi_123_secret"})
	}))
	defer server.Close()

	gateway := NewHTTPGateway(server.URL, "sk_test", time.Second)
	auth, err := gateway.CreateAuthorization(context.Background(), 2500, "usd", Metadata{UserID: 42})
	require.NoError(t, err)
	require.Equal(t, "pi_123", auth.ID)
	require.Equal(t, "pi_123_secret", auth.ClientSecret)
}

func TestCreateAuthorizationRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(gatewayErrorResponse{Error: "card declined", Code: "card_declined"})
	}))
	defer server.Close()

	gateway := NewHTTPGateway(server.URL, "sk_test", time.Second)
	_, err := gateway.CreateAuthorization(context.Background(), 2500, "usd", Metadata{UserID: 42})
	require.ErrorIs(t, err, ErrPaymentRejected)
	require.Contains(t, err.Error(), "card declined")
	require.False(t, IsRetryable(err))
}

func TestGatewayServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gateway := NewHTTPGateway(server.URL, "sk_test", time.Second)
	_, err := gateway.RetrieveStatus(context.Background(), "pi_123")
	require.ErrorIs(t, err, ErrGatewayUnavailable)
	require.True(t, IsRetryable(err))
}

func TestGatewayTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	// 逾時視為暫時性不可用
	gateway := NewHTTPGateway(server.URL, "sk_test", 50*time.Millisecond)
	_, err := gateway.RetrieveStatus(context.Background(), "pi_123")
	require.ErrorIs(t, err, ErrGatewayUnavailable)
	require.True(t, IsRetryable(err))
}

func TestGatewayConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	gateway := NewHTTPGateway(server.URL, "sk_test", time.Second)
	_, err := gateway.RetrieveStatus(context.Background(), "pi_123")
	require.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestRetrieveStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payment_intents/pi_123", r.URL.Path)
		json.NewEncoder(w).Encode(StatusResult{
			Status:        StatusSucceeded,
			PaymentMethod: "card",
			Metadata:      Metadata{UserID: 42},
		})
	}))
	defer server.Close()

	gateway := NewHTTPGateway(server.URL, "sk_test", time.Second)
	result, err := gateway.RetrieveStatus(context.Background(), "pi_123")
	require.NoError(t, err)
	require.Equal(t, StatusSucceeded, result.Status)
	require.Equal(t, "card", result.PaymentMethod)
	require.Equal(t, 42, result.Metadata.UserID)
}
