package payu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// VerifyResult is the subset of the verify_payment response the storefront
// cares about. The API nests per-transaction details; everything else is
// ignored.
type VerifyResult struct {
	TxnID    string
	Status   string
	Amount   string
	MihpayID string
	Mode     string
}

type verifyResponse struct {
	Status             int                           `json:"status"`
	TransactionDetails map[string]transactionDetails `json:"transaction_details"`
}

type transactionDetails struct {
	TxnID    string `json:"txnid"`
	Status   string `json:"status"`
	Amount   string `json:"amt"`
	MihpayID string `json:"mihpayid"`
	Mode     string `json:"mode"`
}

// VerifyClient queries PayU's verify_payment API server-to-server. Calls run
// through a circuit breaker so a degraded gateway cannot pile up blocked
// requests during callback reconciliation.
type VerifyClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*VerifyResult]
	baseURL    string
	key        string
	salt       string
}

func NewVerifyClient(baseURL, key, salt string, timeout time.Duration) *VerifyClient {
	return &VerifyClient{
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*VerifyResult](gobreaker.Settings{
			Name:    "payu-verify",
			Timeout: 30 * time.Second,
		}),
		baseURL: baseURL,
		key:     key,
		salt:    salt,
	}
}

func (c *VerifyClient) Verify(ctx context.Context, txnID string) (*VerifyResult, error) {
	return c.breaker.Execute(func() (*VerifyResult, error) {
		return c.verify(ctx, txnID)
	})
}

func (c *VerifyClient) verify(ctx context.Context, txnID string) (*VerifyResult, error) {
	const command = "verify_payment"

	form := url.Values{}
	form.Set("key", c.key)
	form.Set("command", command)
	form.Set("var1", txnID)
	form.Set("hash", hexSHA512(strings.Join([]string{c.key, command, txnID, c.salt}, "|")))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read verify response: %w", err)
	}

	var decoded verifyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	details, ok := decoded.TransactionDetails[txnID]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found in verify response", txnID)
	}

	return &VerifyResult{
		TxnID:    details.TxnID,
		Status:   details.Status,
		Amount:   details.Amount,
		MihpayID: details.MihpayID,
		Mode:     details.Mode,
	}, nil
}
