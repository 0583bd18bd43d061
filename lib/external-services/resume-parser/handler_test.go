package resumeparser

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"talent-backend/lib/external-services/resume-parser/client"
	parserapimodels "talent-backend/models/api/parser"
)

func testSettings() gatewaySettings {
	return gatewaySettings{
		attemptTimeout:   time.Second,
		retryAttempts:    2,
		retryDelay:       time.Millisecond,
		failureThreshold: 0.5,
		minRequests:      2,
		window:           10 * time.Second,
		cooldown:         50 * time.Millisecond,
		probeRequests:    1,
	}
}

func TestParseSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/parse", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		require.Equal(t, "resume.pdf", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
			"skills":            []string{"Go", "Kafka"},
			"yearsOfExperience": 5,
		}))
	}))
	defer server.Close()

	gateway := newInstance(client.NewProvider(server.URL), testSettings())
	result := gateway.Parse(context.Background(), "cand-1", "resume.pdf", []byte("pdf-body"))
	require.Equal(t, parserapimodels.StatusOk, result.Status)
	require.False(t, result.IsFallback())
	require.Equal(t, "cand-1", result.CandidateID)
	require.Equal(t, float64(5), result.Data["yearsOfExperience"])
}

func TestParseFallbackIsDeterministic(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gateway := newInstance(client.NewProvider(server.URL), testSettings())
	result := gateway.Parse(context.Background(), "cand-42", "resume.pdf", []byte("pdf-body"))
	require.True(t, result.IsFallback())
	require.Equal(t, "cand-42", result.CandidateID)
	require.Equal(t, "manual review required", result.Message)
	require.Empty(t, result.Data)

	// серия попыток внутри одного вызова
	require.Equal(t, int64(2), atomic.LoadInt64(&calls))

	t.Run("заглушка привязана к кандидату", func(t *testing.T) {
		other := gateway.Parse(context.Background(), "cand-43", "resume.pdf", []byte("pdf-body"))
		require.True(t, other.IsFallback())
		require.Equal(t, "cand-43", other.CandidateID)
	})
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	var calls int64
	var healthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		if !healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"skills":["Go"]}`))
	}))
	defer server.Close()

	gateway := newInstance(client.NewProvider(server.URL), testSettings())
	require.Equal(t, "closed", gateway.State())

	// два неудачных вызова достигают порога и размыкают предохранитель
	for i := 0; i < 2; i++ {
		result := gateway.Parse(context.Background(), "cand-1", "resume.pdf", []byte("x"))
		require.True(t, result.IsFallback())
	}
	require.Equal(t, "open", gateway.State())
	callsBefore := atomic.LoadInt64(&calls)

	// разомкнутый предохранитель отвечает заглушкой без обращения к сервису
	result := gateway.Parse(context.Background(), "cand-1", "resume.pdf", []byte("x"))
	require.True(t, result.IsFallback())
	require.Equal(t, callsBefore, atomic.LoadInt64(&calls))

	// после паузы проходит пробный вызов, успех замыкает предохранитель
	healthy.Store(true)
	time.Sleep(60 * time.Millisecond)
	result = gateway.Parse(context.Background(), "cand-1", "resume.pdf", []byte("x"))
	require.False(t, result.IsFallback())
	require.Equal(t, "closed", gateway.State())
	require.Equal(t, callsBefore+1, atomic.LoadInt64(&calls))
}

func TestOpenBreakerFailureThresholdRespectsMinRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gateway := newInstance(client.NewProvider(server.URL), testSettings())

	// одного отказа недостаточно для размыкания
	result := gateway.Parse(context.Background(), "cand-1", "resume.pdf", []byte("x"))
	require.True(t, result.IsFallback())
	require.Equal(t, "closed", gateway.State())
}
