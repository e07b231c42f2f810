package dispatch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"forwarder/internal/adapters/out/dispatch"
	"forwarder/internal/core/domain/model/kernel"
	"forwarder/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBooking(t *testing.T) ports.DispatchBooking {
	t.Helper()
	address, err := kernel.NewAddress("Jane Doe", "1 Main St", "IL", "Springfield", "62701", "US")
	require.NoError(t, err)

	return ports.DispatchBooking{
		ShipmentUID:  "424242",
		Address:      address,
		PackageCount: 2,
		TotalWeight:  10,
	}
}

func TestHTTPGateway_BookDelivery(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/jobs", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"job_id":"job-42"}`))
	}))
	defer server.Close()

	gateway, err := dispatch.NewHTTPGateway(server.URL, "secret")
	require.NoError(t, err)

	jobID, err := gateway.BookDelivery(context.Background(), testBooking(t))
	require.NoError(t, err)
	assert.Equal(t, "job-42", jobID)

	assert.Equal(t, "424242", captured["reference"])
	assert.Equal(t, "1 Main St", captured["street"])
	assert.Equal(t, float64(2), captured["package_count"])
	assert.Equal(t, float64(10), captured["total_weight"])
}

func TestHTTPGateway_BookDelivery_ServerErrorWrapsDispatchFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no capacity", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	gateway, err := dispatch.NewHTTPGateway(server.URL, "")
	require.NoError(t, err)

	jobID, err := gateway.BookDelivery(context.Background(), testBooking(t))
	assert.Empty(t, jobID)
	require.ErrorIs(t, err, ports.ErrDispatchFailed)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPGateway_BookDelivery_MissingJobReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	gateway, err := dispatch.NewHTTPGateway(server.URL, "")
	require.NoError(t, err)

	_, err = gateway.BookDelivery(context.Background(), testBooking(t))
	require.ErrorIs(t, err, ports.ErrDispatchFailed)
}

func TestNewHTTPGateway_RequiresBaseURL(t *testing.T) {
	gateway, err := dispatch.NewHTTPGateway("", "secret")
	assert.Nil(t, gateway)
	require.Error(t, err)
}
