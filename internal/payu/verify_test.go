package payu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyClient_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "verify_payment", r.PostForm.Get("command"))
		assert.Equal(t, "PFX-1", r.PostForm.Get("var1"))
		assert.NotEmpty(t, r.PostForm.Get("hash"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": 1,
			"transaction_details": map[string]interface{}{
				"PFX-1": map[string]string{
					"txnid":    "PFX-1",
					"status":   "success",
					"amt":      "499.00",
					"mihpayid": "403993715531",
					"mode":     "UPI",
				},
			},
		})
	}))
	defer server.Close()

	client := NewVerifyClient(server.URL, "merchantKey", "testsalt", 5*time.Second)

	result, err := client.Verify(context.Background(), "PFX-1")
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "499.00", result.Amount)
	assert.Equal(t, "403993715531", result.MihpayID)
	assert.Equal(t, "UPI", result.Mode)
}

func TestVerifyClient_TxnNotInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":              1,
			"transaction_details": map[string]interface{}{},
		})
	}))
	defer server.Close()

	client := NewVerifyClient(server.URL, "merchantKey", "testsalt", 5*time.Second)

	_, err := client.Verify(context.Background(), "PFX-missing")
	assert.ErrorContains(t, err, "not found")
}

func TestVerifyClient_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewVerifyClient(server.URL, "merchantKey", "testsalt", 5*time.Second)

	_, err := client.Verify(context.Background(), "PFX-1")
	assert.ErrorContains(t, err, "status 502")
}
