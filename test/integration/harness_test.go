//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aevon-lab/nrega-dashboard/internal/core/storage"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage/file"
	"github.com/aevon-lab/nrega-dashboard/internal/core/targets"
	"github.com/aevon-lab/nrega-dashboard/internal/ingestion"
	"github.com/aevon-lab/nrega-dashboard/internal/projection"
	"github.com/aevon-lab/nrega-dashboard/internal/server"
	"github.com/aevon-lab/nrega-dashboard/internal/syncer"
	"github.com/aevon-lab/nrega-dashboard/internal/upstream"
	"github.com/stretchr/testify/require"
)

const defaultRegion = "UTTAR PRADESH"

// fakeUpstream mimics the resource API: records are served by filters[state_name].
type fakeUpstream struct {
	mu       sync.Mutex
	byState  map[string][]map[string]interface{}
	down     atomic.Bool
	requests atomic.Int32
	srv      *httptest.Server
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{byState: make(map[string][]map[string]interface{})}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	if f.down.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	state := q.Get("filters[state_name]")
	year := q.Get("filters[fin_year]")

	f.mu.Lock()
	var out []map[string]interface{}
	for _, rec := range f.byState[state] {
		if year == "" || rec["fin_year"] == year {
			out = append(out, rec)
		}
	}
	f.mu.Unlock()

	if out == nil {
		out = []map[string]interface{}{}
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "records": out})
}

func (f *fakeUpstream) seed(state string, districts int, years ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, year := range years {
		for i := 1; i <= districts; i++ {
			f.byState[state] = append(f.byState[state], map[string]interface{}{
				"state_name":                           state,
				"district_code":                        fmt.Sprintf("%d", 3100+i),
				"district_name":                        fmt.Sprintf("DISTRICT %d", i),
				"fin_year":                             year,
				"Approved_Labour_Budget":               fmt.Sprintf("%d", i*1000),
				"Average_Wage_rate_per_day_per_person": "230.5",
				"Total_Individuals_Worked":             fmt.Sprintf("%d", i*10),
			})
		}
	}
}

type harnessOptions struct {
	storePath string
	scheduler bool
	interval  time.Duration
}

type integrationHarness struct {
	baseURL       string
	client        *http.Client
	store         *storage.RecordStore
	cancel        context.CancelFunc
	serverDone    chan error
	schedulerDone chan error
}

func (h *integrationHarness) close(t *testing.T) {
	t.Helper()

	h.cancel()
	select {
	case <-h.serverDone:
	case <-time.After(5 * time.Second):
		t.Log("server shutdown timed out")
	}

	if h.schedulerDone != nil {
		select {
		case <-h.schedulerDone:
		case <-time.After(5 * time.Second):
			t.Log("scheduler shutdown timed out")
		}
	}
}

func startHarness(t *testing.T, up *fakeUpstream, opts harnessOptions) *integrationHarness {
	t.Helper()

	if opts.storePath == "" {
		opts.storePath = filepath.Join(t.TempDir(), "db.json")
	}

	ctx, cancel := context.WithCancel(context.Background())

	store := storage.NewRecordStore(file.NewSnapshotStore(opts.storePath))
	require.NoError(t, store.Open(ctx))

	client := upstream.NewClient(upstream.Config{
		BaseURL:     up.srv.URL,
		ResourceID:  "test-resource",
		APIKey:      "test-key",
		Timeout:     2 * time.Second,
		BackoffStep: 10 * time.Millisecond,
	}, nil)
	syncSvc := syncer.NewService(client, store, syncer.Options{})

	addr := fmt.Sprintf("127.0.0.1:%d", freePort(t))
	httpServer := server.New(addr, store, "release")
	ingestion.NewService(syncSvc, 0).RegisterRoutes(httpServer.Engine)
	projection.NewService(store, syncSvc).RegisterRoutes(httpServer.Engine)

	var schedulerDone chan error
	if opts.scheduler {
		schedulerDone = make(chan error, 1)
		sched := syncer.NewScheduler(opts.interval, syncSvc, store, targets.WithDefault(defaultRegion, nil), true)
		go func() { schedulerDone <- sched.Start(ctx) }()
	}

	serverDone := make(chan error, 1)
	go func() { serverDone <- httpServer.Run(ctx) }()

	baseURL := "http://" + addr
	waitForHealthy(t, baseURL)

	return &integrationHarness{
		baseURL:       baseURL,
		client:        &http.Client{Timeout: 5 * time.Second},
		store:         store,
		cancel:        cancel,
		serverDone:    serverDone,
		schedulerDone: schedulerDone,
	}
}

func waitForHealthy(t *testing.T, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server did not become healthy at %s", baseURL)
}

func postJSON(t *testing.T, client *http.Client, endpoint string, payload interface{}) (int, []byte) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBody
}

func getJSON(t *testing.T, client *http.Client, endpoint string, out interface{}) int {
	t.Helper()

	resp, err := client.Get(endpoint)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
