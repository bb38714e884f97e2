package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wxtools/pkg/logger"
)

func testConfig(serverURL string) Config {
	return Config{
		AviationBaseURL:       serverURL,
		ReconBaseURL:          serverURL,
		RequestTimeoutSeconds: 5,
		MaxRetries:            2,
	}
}

func TestFetchMETAR(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/metar", r.URL.Path)
		assert.Equal(t, "KJFK", r.URL.Query().Get("ids"))
		assert.Equal(t, "raw", r.URL.Query().Get("format"))
		fmt.Fprintln(w, "KJFK 281951Z 27015G25KT 10SM FEW250 22/18 A3002")
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewNop())
	raw, err := client.FetchMETAR(context.Background(), "KJFK")
	require.NoError(t, err)
	assert.Equal(t, "KJFK 281951Z 27015G25KT 10SM FEW250 22/18 A3002", raw)
}

func TestFetchMETAR_empty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "  \n")
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewNop())
	_, err := client.FetchMETAR(context.Background(), "XXXX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no METAR data found")
}

func TestFetchRecon(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/URNT15-KNHC.shtml", r.URL.Path)
		fmt.Fprint(w, "URNT15 KNHC 281857\n")
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewNop())
	raw, err := client.FetchRecon(context.Background(), "URNT15-KNHC.shtml")
	require.NoError(t, err)
	assert.Equal(t, "URNT15 KNHC 281857", raw)
}

func TestFetchWithRetry_recoversAfterFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "KLGA 281951Z 00000KT 10SM CLR 22/18 A3002")
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewNop())
	raw, err := client.FetchMETAR(context.Background(), "KLGA")
	require.NoError(t, err)
	assert.Equal(t, "KLGA 281951Z 00000KT 10SM CLR 22/18 A3002", raw)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchWithRetry_exhaustsAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.NewNop())
	_, err := client.FetchMETAR(context.Background(), "KJFK")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchWithRetry_contextCancelled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(testConfig(server.URL), logger.NewNop())
	_, err := client.FetchMETAR(ctx, "KJFK")
	require.Error(t, err)
}
