package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoframix/storefront/internal/domain"
	"github.com/photoframix/storefront/internal/outcome"
)

type mockClearer struct {
	m       sync.Mutex
	cleared []string
	err     error
}

func (m *mockClearer) Clear(_ context.Context, sessionID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cleared = append(m.cleared, sessionID)
	return nil
}

func (m *mockClearer) clearedSessions() []string {
	m.m.Lock()
	defer m.m.Unlock()
	return m.cleared
}

func newResultSut(stash outcome.Stash, clearer CartClearer) *ResultHandler {
	return NewResultHandler(stash, clearer, 0, zerolog.Nop())
}

func TestResultFailure_RendersFromQueryAlone(t *testing.T) {
	sut := newResultSut(outcome.NewMemoryStash(), &mockClearer{})

	request := httptest.NewRequest(http.MethodGet, "/failure?txnid=T1&status=failure&error_Message=card+declined", nil)
	recorder := httptest.NewRecorder()
	sut.Failure(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, "T1")
	assert.Contains(t, body, "card declined")
	assert.Contains(t, body, "did not go through")
}

func TestResultSuccess_RendersFromStash(t *testing.T) {
	stash := outcome.NewMemoryStash()
	require.NoError(t, stash.Put(context.Background(), domain.OutcomeSuccess, "s1", map[string]string{
		"txnid":    "T55",
		"amount":   "1299.00",
		"mihpayid": "403993715531",
	}))
	sut := newResultSut(stash, &mockClearer{})

	request := withSession(httptest.NewRequest(http.MethodGet, "/success", nil), "s1")
	recorder := httptest.NewRecorder()
	sut.Success(recorder, request)

	body := recorder.Body.String()
	assert.Contains(t, body, "T55")
	assert.Contains(t, body, "1299.00")
	assert.Contains(t, body, "403993715531")
}

func TestResultSuccess_StashIsConsumedOnce(t *testing.T) {
	stash := outcome.NewMemoryStash()
	require.NoError(t, stash.Put(context.Background(), domain.OutcomeSuccess, "s1", map[string]string{
		"txnid": "T55",
	}))
	sut := newResultSut(stash, &mockClearer{})

	first := httptest.NewRecorder()
	sut.Success(first, withSession(httptest.NewRequest(http.MethodGet, "/success", nil), "s1"))
	assert.Contains(t, first.Body.String(), "T55")

	second := httptest.NewRecorder()
	sut.Success(second, withSession(httptest.NewRequest(http.MethodGet, "/success", nil), "s1"))
	assert.NotContains(t, second.Body.String(), "T55")
	assert.Contains(t, second.Body.String(), "No payment details")
}

func TestResultSuccess_QueryOverridesStash(t *testing.T) {
	stash := outcome.NewMemoryStash()
	require.NoError(t, stash.Put(context.Background(), domain.OutcomeSuccess, "s1", map[string]string{
		"txnid":  "stashed",
		"amount": "100.00",
	}))
	sut := newResultSut(stash, &mockClearer{})

	request := withSession(httptest.NewRequest(http.MethodGet, "/success?txnid=from-query", nil), "s1")
	recorder := httptest.NewRecorder()
	sut.Success(recorder, request)

	body := recorder.Body.String()
	assert.Contains(t, body, "from-query")
	assert.NotContains(t, body, "stashed")
	assert.Contains(t, body, "100.00", "stash fields absent from the query still render")
}

func TestResultSuccess_ClearsCart(t *testing.T) {
	clearer := &mockClearer{}
	sut := newResultSut(outcome.NewMemoryStash(), clearer)

	request := withSession(httptest.NewRequest(http.MethodGet, "/success?txnid=T1", nil), "s1")
	sut.Success(httptest.NewRecorder(), request)

	assert.Equal(t, []string{"s1"}, clearer.clearedSessions())
}

func TestResultSuccess_RendersWithZeroData(t *testing.T) {
	sut := newResultSut(outcome.NewMemoryStash(), &mockClearer{})

	recorder := httptest.NewRecorder()
	sut.Success(recorder, httptest.NewRequest(http.MethodGet, "/success", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "No payment details")
}

func TestResultFailure_ClearerUntouched(t *testing.T) {
	clearer := &mockClearer{}
	sut := newResultSut(outcome.NewMemoryStash(), clearer)

	request := withSession(httptest.NewRequest(http.MethodGet, "/failure?txnid=T1", nil), "s1")
	sut.Failure(httptest.NewRecorder(), request)

	assert.Empty(t, clearer.clearedSessions(), "failed payments keep the cart")
}
