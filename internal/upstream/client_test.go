package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const twoRecords = `{
	"status": "ok",
	"records": [
		{"state_name":"UTTAR PRADESH","district_code":"3101","district_name":"AGRA","fin_year":"2024-2025","Approved_Labour_Budget":"1500"},
		{"state_name":"UTTAR PRADESH","district_code":3102,"district_name":"ALIGARH","fin_year":"2024-2025","Approved_Labour_Budget":900}
	]
}`

func newTestClient(srv *httptest.Server, mutate ...func(*Config)) *Client {
	cfg := Config{
		BaseURL:     srv.URL,
		ResourceID:  "res-1",
		APIKey:      "secret",
		BackoffStep: time.Millisecond,
		Timeout:     time.Second,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewClient(cfg, srv.Client())
}

func TestClient_Fetch_Success(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/res-1", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		gotQuery.Store(r.URL.Query())
		_, _ = w.Write([]byte(twoRecords))
	}))
	defer srv.Close()

	res := newTestClient(srv).Fetch(context.Background(), Query{Region: "UTTAR PRADESH", FinYear: "2024-2025"}, 3)

	require.Equal(t, StatusFetched, res.Status)
	require.Equal(t, 1, res.Attempts)
	require.NoError(t, res.Err)
	require.Len(t, res.Records, 2)
	require.Equal(t, "3102", res.Records[1].DistrictCode)
	require.Equal(t, "900", res.Records[1].ApprovedBudget().String())

	q := gotQuery.Load().(url.Values)
	require.Equal(t, []string{"secret"}, q["api-key"])
	require.Equal(t, []string{"json"}, q["format"])
	require.Equal(t, []string{"UTTAR PRADESH"}, q["filters[state_name]"])
	require.Equal(t, []string{"2024-2025"}, q["filters[fin_year]"])
	require.Equal(t, []string{"1000"}, q["limit"])
}

func TestClient_Fetch_OmitsYearFilterWhenEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["filters[fin_year]"]
		require.False(t, present)
		_, _ = w.Write([]byte(twoRecords))
	}))
	defer srv.Close()

	res := newTestClient(srv).Fetch(context.Background(), Query{Region: "UTTAR PRADESH"}, 1)
	require.Equal(t, StatusFetched, res.Status)
}

func TestClient_Fetch_Empty(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty array", body: `{"records":[]}`},
		{name: "no records field", body: `{"status":"ok"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res := newTestClient(srv).Fetch(context.Background(), Query{Region: "GOA"}, 3)

			require.Equal(t, StatusEmpty, res.Status)
			require.NotNil(t, res.Records)
			require.Empty(t, res.Records)
			require.Equal(t, int32(1), atomic.LoadInt32(&calls), "empty result is not retried")
		})
	}
}

func TestClient_Fetch_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		switch n {
		case 1:
			w.WriteHeader(http.StatusBadGateway)
		case 2:
			_, _ = w.Write([]byte(`{not json`))
		default:
			_, _ = w.Write([]byte(twoRecords))
		}
	}))
	defer srv.Close()

	res := newTestClient(srv).Fetch(context.Background(), Query{Region: "UTTAR PRADESH"}, 3)

	require.Equal(t, StatusFetched, res.Status)
	require.Equal(t, 3, res.Attempts)
	require.Len(t, res.Records, 2)
}

func TestClient_Fetch_Exhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	res := newTestClient(srv).Fetch(context.Background(), Query{Region: "UTTAR PRADESH"}, 2)

	require.Equal(t, StatusFailed, res.Status)
	require.Equal(t, 2, res.Attempts)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Nil(t, res.Records)

	var httpErr *HTTPError
	require.True(t, errors.As(res.Err, &httpErr))
	require.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestClient_Fetch_DefaultAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := newTestClient(srv).Fetch(context.Background(), Query{Region: "GOA"}, 0)

	require.Equal(t, StatusFailed, res.Status)
	require.Equal(t, int32(DefaultMaxAttempts), atomic.LoadInt32(&calls))
}

func TestClient_Fetch_PerAttemptTimeout(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		_, _ = w.Write([]byte(twoRecords))
	}))
	defer srv.Close()

	client := newTestClient(srv, func(c *Config) { c.Timeout = 50 * time.Millisecond })
	res := client.Fetch(context.Background(), Query{Region: "GOA"}, 2)

	require.Equal(t, StatusFetched, res.Status)
	require.Equal(t, 2, res.Attempts)
}

func TestClient_Fetch_ResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[` + strings.Repeat(" ", 256) + `]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, func(c *Config) { c.MaxResponseBytes = 64 })
	res := client.Fetch(context.Background(), Query{Region: "GOA"}, 1)

	require.Equal(t, StatusFailed, res.Status)
	require.ErrorIs(t, res.Err, ErrResponseTooLarge)
}

func TestClient_Fetch_CancelledContext(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newTestClient(srv).Fetch(ctx, Query{Region: "GOA"}, 3)

	require.Equal(t, StatusFailed, res.Status)
	require.LessOrEqual(t, res.Attempts, 1)
	require.Error(t, res.Err)
}

func TestLinearBackOff(t *testing.T) {
	b := &linearBackOff{step: 2 * time.Second}
	require.Equal(t, 2*time.Second, b.NextBackOff())
	require.Equal(t, 4*time.Second, b.NextBackOff())
	b.Reset()
	require.Equal(t, 2*time.Second, b.NextBackOff())
}
