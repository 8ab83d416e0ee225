package affiliate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportConversion(t *testing.T) {
	t.Run("accepted conversion", func(t *testing.T) {
		var received ConversionRequest
		var authHeader string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"conversion_id":"abc"}`))
		}))
		defer server.Close()

		client := NewBloomClient(server.URL, "secret-key", 5*time.Second)
		resp, err := client.ReportConversion(context.Background(), &ConversionRequest{
			AffiliateCode:    "partner42",
			CommissionAmount: 12.5,
			OrderID:          "ord-1",
		})
		require.NoError(t, err)

		assert.True(t, resp.Accepted())
		assert.Equal(t, "partner42", received.AffiliateCode)
		assert.Equal(t, 12.5, received.CommissionAmount)
		assert.Equal(t, "Bearer secret-key", authHeader)

		decoded, ok := resp.JSON().(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "abc", decoded["conversion_id"])
	})

	t.Run("created counts as accepted", func(t *testing.T) {
		resp := &ConversionResponse{StatusCode: http.StatusCreated}
		assert.True(t, resp.Accepted())
	})

	t.Run("rejection is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("upstream exploded"))
		}))
		defer server.Close()

		client := NewBloomClient(server.URL, "", 5*time.Second)
		resp, err := client.ReportConversion(context.Background(), &ConversionRequest{OrderID: "ord-1"})
		require.NoError(t, err)

		assert.False(t, resp.Accepted())
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "upstream exploded", string(resp.Body))
		// Not valid JSON, so the raw string comes back.
		assert.Equal(t, "upstream exploded", resp.JSON())
	})

	t.Run("transport failure returns an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := NewBloomClient(server.URL, "", time.Second)
		_, err := client.ReportConversion(context.Background(), &ConversionRequest{OrderID: "ord-1"})
		assert.Error(t, err)
	})

	t.Run("no api key means no auth header", func(t *testing.T) {
		var sawAuth bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawAuth = r.Header.Get("Authorization") != ""
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewBloomClient(server.URL, "", 5*time.Second)
		_, err := client.ReportConversion(context.Background(), &ConversionRequest{OrderID: "ord-1"})
		require.NoError(t, err)
		assert.False(t, sawAuth)
	})
}
