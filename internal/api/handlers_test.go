package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wxtools/internal/observability"
	"wxtools/internal/storage/sqlite"
	"wxtools/pkg/logger"
)

const rawKJFK = "KJFK 281951Z 27015G25KT 10SM FEW250 22/18 A3002"

const rawHDOB = `URNT15 KNHC 121303
AF302 0214A KARL               HDOB 30 20221012
125400 2051N 09403W 8434 01569 0106 +160 +143 214030 034 034 006 00
$$
;`

type mockFetcher struct {
	metar    string
	metarErr error
	recon    string
	reconErr error
}

func (m *mockFetcher) FetchMETAR(ctx context.Context, stationCode string) (string, error) {
	return m.metar, m.metarErr
}

func (m *mockFetcher) FetchRecon(ctx context.Context, productID string) (string, error) {
	return m.recon, m.reconErr
}

type mockArchive struct {
	stored     []*sqlite.ReportRecord
	storeErr   error
	history    []*sqlite.ReportRecord
	historyErr error
	lastLimit  int
}

func (m *mockArchive) StoreReport(record *sqlite.ReportRecord) (int64, error) {
	if m.storeErr != nil {
		return 0, m.storeErr
	}
	m.stored = append(m.stored, record)
	return int64(len(m.stored)), nil
}

func (m *mockArchive) ReportHistory(station string, limit int) ([]*sqlite.ReportRecord, error) {
	m.lastLimit = limit
	return m.history, m.historyErr
}

func newTestRouter(fetcher *mockFetcher, archive *mockArchive) http.Handler {
	handler := NewHandler(fetcher, archive, observability.NewMetricsForTesting(), logger.NewNop(), 100)
	return NewRouter(handler)
}

func TestGetReport(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{metar: rawKJFK}
	archive := &mockArchive{}
	router := newTestRouter(fetcher, archive)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/report/KJFK", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "KJFK", resp.Station)
	assert.Equal(t, rawKJFK, resp.RawText)
	assert.Contains(t, resp.Summary, "Station Identifier -- KJFK")

	require.Len(t, archive.stored, 1)
	assert.Equal(t, "KJFK", archive.stored[0].Station)
	assert.Equal(t, "METAR", archive.stored[0].ReportType)
	assert.Equal(t, rawKJFK, archive.stored[0].RawText)
}

func TestGetReport_fetchFailure(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{metarErr: fmt.Errorf("unexpected status code: 502")}
	router := newTestRouter(fetcher, &mockArchive{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/report/KJFK", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestGetReport_archiveFailureStillResponds(t *testing.T) {
	t.Parallel()

	fetcher := &mockFetcher{metar: rawKJFK}
	archive := &mockArchive{storeErr: fmt.Errorf("disk full")}
	router := newTestRouter(fetcher, archive)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/report/KJFK", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetReportHistory(t *testing.T) {
	t.Parallel()

	archive := &mockArchive{
		history: []*sqlite.ReportRecord{
			{ID: 2, Station: "KJFK", ReportType: "METAR", RawText: rawKJFK, FetchedAt: time.Now().UTC()},
		},
	}
	router := newTestRouter(&mockFetcher{}, archive)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/report/KJFK/history?limit=5", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5, archive.lastLimit)

	var records []*sqlite.ReportRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "KJFK", records[0].Station)
}

func TestGetReportHistory_badLimit(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockFetcher{}, &mockArchive{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/report/KJFK/history?limit=zero", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDecodeReport(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockFetcher{}, &mockArchive{})

	body, err := json.Marshal(map[string]string{"raw": rawKJFK})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/decode", strings.NewReader(string(body))))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "KJFK", resp.Station)
	assert.Contains(t, resp.Summary, "Wind -- ")
}

func TestDecodeReport_badRequests(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockFetcher{}, &mockArchive{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", "raw text", http.StatusBadRequest},
		{"empty raw", `{"raw": ""}`, http.StatusBadRequest},
		{"invalid report", `{"raw": "KJFK"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/decode", strings.NewReader(tc.body)))
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestDecodeRecon(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockFetcher{}, &mockArchive{})

	body, err := json.Marshal(map[string]string{"raw": rawHDOB})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/recon", strings.NewReader(string(body))))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ReconResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "KARL", resp.StormName)
	assert.Equal(t, "Atlantic", resp.Basin)
	assert.Equal(t, "Air Force C130J Hercules", resp.Aircraft)
	require.Len(t, resp.Observations, 1)
	assert.Equal(t, "20.85N 94.05W", resp.Observations[0].Position)
	assert.Equal(t, "All parameters of nominal accuracy", resp.Observations[0].MetQuality)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockFetcher{}, &mockArchive{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rr.Body.String())
}
