package projection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage"
	projectionmocks "github.com/aevon-lab/nrega-dashboard/internal/mocks/projection"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const up = "UTTAR PRADESH"

func rec(state, code, year, budget string) v1.Record {
	return v1.Record{
		StateName:    state,
		DistrictCode: code,
		DistrictName: "NAME-" + code,
		FinYear:      year,
		Attributes: map[string]interface{}{
			v1.FieldApprovedBudget:       budget,
			v1.FieldAverageDailyWage:     "200",
			v1.FieldTotalWorkersEmployed: "10",
		},
	}
}

func seededStore(t *testing.T) *storage.RecordStore {
	t.Helper()
	ctx := context.Background()
	store := storage.NewRecordStore(storage.NewMemorySnapshotStore())
	require.NoError(t, store.Open(ctx))

	_, err := store.Merge(ctx, storage.Scope{Region: up}, []v1.Record{
		rec(up, "D1", "2021-2022", "300"),
		rec(up, "D1", "2020-2021", "100"),
		rec(up, "D2", "2021-2022", "500"),
	})
	require.NoError(t, err)
	return store
}

func serve(t *testing.T, svc *Service, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r)

	req := httptest.NewRequest(method, target, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestHandleDistricts(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		configure  func(b *projectionmocks.Backfiller)
		wantStatus int
		wantCount  float64
	}{
		{
			name:       "cached region",
			target:     "/api/districts/UTTAR%20PRADESH",
			configure:  func(_ *projectionmocks.Backfiller) {},
			wantStatus: http.StatusOK,
			wantCount:  3,
		},
		{
			name:       "cached region and year",
			target:     "/api/districts/UTTAR%20PRADESH?fin_year=2021-2022",
			configure:  func(_ *projectionmocks.Backfiller) {},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name:   "cache miss filled by backfill",
			target: "/api/districts/BIHAR",
			configure: func(b *projectionmocks.Backfiller) {
				b.EXPECT().FetchMissing(mock.Anything, "BIHAR", "").
					Return([]v1.Record{rec("BIHAR", "B1", "2021-2022", "50")}).Once()
			},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:   "cache miss and upstream empty",
			target: "/api/districts/GOA?fin_year=2019-2020",
			configure: func(b *projectionmocks.Backfiller) {
				b.EXPECT().FetchMissing(mock.Anything, "GOA", "2019-2020").
					Return([]v1.Record{}).Once()
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed year",
			target:     "/api/districts/GOA?fin_year=2019",
			configure:  func(_ *projectionmocks.Backfiller) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backfiller := projectionmocks.NewBackfiller(t)
			tc.configure(backfiller)

			resp := serve(t, NewService(seededStore(t), backfiller), http.MethodGet, tc.target)

			if resp.Code != tc.wantStatus {
				t.Logf("unexpected response body: %s", resp.Body.String())
			}
			require.Equal(t, tc.wantStatus, resp.Code)

			body := decode(t, resp)
			switch tc.wantStatus {
			case http.StatusOK:
				require.Equal(t, true, body["success"])
				require.Equal(t, tc.wantCount, body["count"])
				require.NotNil(t, body["lastSync"])
			case http.StatusNotFound:
				require.Equal(t, false, body["success"])
				require.Equal(t, "GOA", body["state"])
				require.Equal(t, true, body["cached"])
			default:
				require.Equal(t, false, body["success"])
			}
		})
	}
}

func TestHandleDistrict(t *testing.T) {
	svc := NewService(seededStore(t), nil)

	resp := serve(t, svc, http.MethodGet, "/api/district/UTTAR%20PRADESH/D1")
	require.Equal(t, http.StatusOK, resp.Code)

	var body DistrictResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	require.Equal(t, "2020-2021", body.Data[0].FinYear)
	require.Equal(t, "2021-2022", body.Data[1].FinYear)
	require.NotNil(t, body.Comparison)
	require.Equal(t, 0.75, body.Comparison.Budget) // 300 against an average of 400

	resp = serve(t, svc, http.MethodGet, "/api/district/UTTAR%20PRADESH/D9")
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Equal(t, "D9", decode(t, resp)["district_code"])
}

func TestHandleStats(t *testing.T) {
	svc := NewService(seededStore(t), nil)

	resp := serve(t, svc, http.MethodGet, "/api/stats/UTTAR%20PRADESH")
	require.Equal(t, http.StatusOK, resp.Code)

	var body StatsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, up, body.State)
	require.Equal(t, "all", body.FinYear)
	require.Equal(t, 2, body.Stats.TotalDistricts)
	require.Equal(t, 400.0, body.Stats.AvgBudget)
	require.Equal(t, "D2", body.Stats.TopDistricts[0].Code)
	require.NotNil(t, body.LastSync)

	resp = serve(t, svc, http.MethodGet, "/api/stats/KERALA?fin_year=2021-2022")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "2021-2022", body.FinYear)
	require.Equal(t, 0, body.Stats.TotalDistricts)
	require.Empty(t, body.Stats.TopDistricts)
}

func TestHandleYears(t *testing.T) {
	resp := serve(t, NewService(seededStore(t), nil), http.MethodGet, "/api/years/UTTAR%20PRADESH")
	require.Equal(t, http.StatusOK, resp.Code)

	var body YearsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, []string{"2020-2021", "2021-2022"}, body.Years)
}

func TestHandleHealth(t *testing.T) {
	resp := serve(t, NewService(seededStore(t), nil), http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, "ok", body.Status)
	require.Equal(t, 3, body.Database.TotalRecords)
	require.Equal(t, 2, body.Database.UniqueDistricts)
	require.Equal(t, []string{"2020-2021", "2021-2022"}, body.Database.Years)
	require.NotNil(t, body.Database.LastSync)
	require.NotEmpty(t, body.Server.GoVersion)
	require.Positive(t, body.Server.Goroutines)
}
