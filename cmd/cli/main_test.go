package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

type requestLog struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (l *requestLog) all() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedRequest(nil), l.reqs...)
}

// newAPI serves a canned response per "METHOD path" and records every request.
func newAPI(t *testing.T, routes map[string]struct {
	status int
	body   string
}) (*httptest.Server, *requestLog) {
	t.Helper()

	seen := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &rec.Body))
		}
		seen.mu.Lock()
		seen.reqs = append(seen.reqs, rec)
		seen.mu.Unlock()

		route, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(route.status)
		_, _ = w.Write([]byte(route.body))
	}))
	t.Cleanup(srv.Close)

	return srv, seen
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "lon...", truncate("longerstring", 6))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.50", formatMoney(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "-$150.00", formatMoney(decimal.NewFromInt(-150), "USD"))
	assert.Equal(t, "12.00 XYZ", formatMoney(decimal.NewFromInt(12), "XYZ"))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	printJSON(&buf, []byte(`{"a":1}`))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestSettlementCommand(t *testing.T) {
	srv, seen := newAPI(t, map[string]struct {
		status int
		body   string
	}{
		"GET /api/v1/trips/trip-1/settlement": {http.StatusOK, `{
			"trip_id":"trip-1","currency":"USD","total_estimated":"300","total_actual":"300",
			"balances":[
				{"traveler_id":"t-alice","name":"Alice","should_pay":"150","actually_paid":"300","balance":"150"},
				{"traveler_id":"t-bob","name":"Bob","should_pay":"150","actually_paid":"0","balance":"-150"}
			],
			"settlement_transactions":[
				{"from_traveler_id":"t-bob","from_name":"Bob","to_traveler_id":"t-alice","to_name":"Alice","amount":"150"}
			]}`},
	})

	out, err := execute(t, "--url", srv.URL, "settlement", "trip-1")
	require.NoError(t, err)

	assert.Contains(t, out, "Bob pays Alice $150.00")
	assert.Contains(t, out, "Estimated: $300.00")
	require.Len(t, seen.all(), 1)
}

func TestActualsTransferAndReset(t *testing.T) {
	srv, seen := newAPI(t, map[string]struct {
		status int
		body   string
	}{
		"POST /api/v1/trips/trip-1/actuals/transfer": {http.StatusOK, `{"transferred_count":3}`},
		"DELETE /api/v1/trips/trip-1/actuals":        {http.StatusOK, `{"deleted_count":3}`},
	})

	out, err := execute(t, "--url", srv.URL, "actuals", "transfer", "trip-1")
	require.NoError(t, err)
	assert.Equal(t, "Transferred 3 actual(s)\n", out)

	out, err = execute(t, "--url", srv.URL, "actuals", "reset", "trip-1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 3 actual(s)\n", out)

	require.Len(t, seen.all(), 2)
	assert.Equal(t, http.MethodDelete, seen.all()[1].Method)
}

func TestActualsUpdateSendsOnlyChangedFields(t *testing.T) {
	srv, seen := newAPI(t, map[string]struct {
		status int
		body   string
	}{
		"PATCH /api/v1/actuals/act-1": {http.StatusOK, `{"id":"act-1","expense_id":"exp-1","traveler_id":"t-bob",
			"installment_number":1,"amount":"32.5","currency":"USD","paid_by_traveler_id":"t-alice"}`},
	})

	out, err := execute(t, "--url", srv.URL, "actuals", "update", "act-1",
		"--amount", "32.50", "--paid-by", "t-alice", "--date", "2026-05-02", "--clear", "notes")
	require.NoError(t, err)
	assert.Contains(t, out, "$32.50")

	require.Len(t, seen.all(), 1)
	body := seen.all()[0].Body
	assert.Equal(t, "32.5", body["amount"])
	assert.Equal(t, "t-alice", body["paid_by_traveler_id"])
	assert.Equal(t, "2026-05-02T00:00:00Z", body["date"])
	v, ok := body["notes"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.NotContains(t, body, "receipt_url")
}

func TestActualsUpdateValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no fields", []string{"actuals", "update", "act-1"}},
		{"bad amount", []string{"actuals", "update", "act-1", "--amount", "ten"}},
		{"bad date", []string{"actuals", "update", "act-1", "--date", "05/02/2026"}},
		{"clear amount", []string{"actuals", "update", "act-1", "--clear", "amount"}},
		{"set and clear", []string{"actuals", "update", "act-1", "--notes", "x", "--clear", "notes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"--url", "http://127.0.0.1:0"}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}

func TestForecastCollectAndShow(t *testing.T) {
	report := `{"trip_id":"trip-1","base_currency":"USD","collected_at":"2026-10-16T00:00:00Z","total":"90",
		"modules":[{"module":"accommodation","total":"90","items":[{"item_id":"h-1"}]}],
		"traveler_shares":[{"traveler_id":"t-alice","name":"Alice","amount":"45"}],
		"skipped":[{"item_id":"a-9","module":"activities","reason":"missing currency"}]}`
	srv, seen := newAPI(t, map[string]struct {
		status int
		body   string
	}{
		"POST /api/v1/trips/trip-1/forecast": {http.StatusOK, report},
		"GET /api/v1/trips/trip-1/forecast":  {http.StatusOK, report},
	})

	out, err := execute(t, "--url", srv.URL, "forecast", "collect", "trip-1", "--status", "confirmed")
	require.NoError(t, err)
	assert.Contains(t, out, "accommodation")
	assert.Contains(t, out, "$90.00")
	assert.Contains(t, out, "skipped activities/a-9")
	assert.Equal(t, []any{"confirmed"}, seen.all()[0].Body["statuses"])

	out, err = execute(t, "--url", srv.URL, "--json", "forecast", "show", "trip-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n"))
}

func TestRatesCommand(t *testing.T) {
	srv, seen := newAPI(t, map[string]struct {
		status int
		body   string
	}{
		"GET /api/v1/rates": {http.StatusOK, `{"base":"USD","rates":{"EUR":"0.92"},"fetched_at":"2026-10-16T00:00:00Z"}`},
	})

	out, err := execute(t, "--url", srv.URL, "rates", "--base", "USD", "--symbols", "eur,JPY")
	require.NoError(t, err)
	assert.Contains(t, out, "EUR  0.92")
	assert.Contains(t, out, "JPY  unavailable")
	assert.Equal(t, "base=USD&symbols=eur%2CJPY", seen.all()[0].Query)

	_, err = execute(t, "--url", srv.URL, "rates")
	assert.Error(t, err)
}

func TestAPIErrorIsReported(t *testing.T) {
	srv, _ := newAPI(t, map[string]struct {
		status int
		body   string
	}{
		"GET /api/v1/trips/trip-404/settlement": {http.StatusNotFound, `{"error":"failed to compute settlement","message":"trip not found"}`},
	})

	_, err := execute(t, "--url", srv.URL, "settlement", "trip-404")
	require.Error(t, err)

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "trip not found", apiErr.Details)
}
