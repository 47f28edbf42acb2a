package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry(t *testing.T, handler http.HandlerFunc) (*RedexClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewRedexClient(server.URL, "key", "client", "secret", zap.NewNop())
	return client, server
}

func TestGenerateToken(t *testing.T) {
	client, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/connect/token", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "api_key", body["GrantType"])
		assert.Equal(t, "key", body["ApiKey"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"Data": map[string]string{"AccessToken": "tok-123"},
		})
	})

	token, err := client.GenerateToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestGenerateTokenSurfacesAPIErrors(t *testing.T) {
	client, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	})

	_, err := client.GenerateToken(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestUploadDeviceFile(t *testing.T) {
	client, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/connect/token" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"Data": map[string]string{"AccessToken": "tok"},
			})
			return
		}

		require.Equal(t, "/documents/devices", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("File")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "declaration.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"Data": map[string]string{"Id": "file-1", "ValidationCode": "v-1"},
		})
	})

	result, err := client.UploadDeviceFile(context.Background(), "declaration.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "file-1", result.ID)
	assert.Equal(t, "v-1", result.ValidationCode)
}

func TestPushMonthlyGeneration(t *testing.T) {
	var pushed []MonthlyGeneration
	client, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/connect/token" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"Data": map[string]string{"AccessToken": "tok"},
			})
			return
		}
		require.Equal(t, "/generation-datas/monthly-data", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&pushed))
		w.WriteHeader(http.StatusOK)
	})

	reports := []MonthlyGeneration{{
		RemoteInvID: "inv-1",
		Data: MonthlyGenerationData{
			Year:                          2026,
			PeriodProductionPerMonthInKWh: map[string]float64{"Jan": 150},
		},
	}}
	require.NoError(t, client.PushMonthlyGeneration(context.Background(), reports))

	require.Len(t, pushed, 1)
	assert.Equal(t, "inv-1", pushed[0].RemoteInvID)
	assert.Equal(t, 2026, pushed[0].Data.Year)
}

func TestEnabled(t *testing.T) {
	assert.False(t, NewRedexClient("", "", "", "", zap.NewNop()).Enabled())
	assert.True(t, NewRedexClient("http://registry", "k", "c", "s", zap.NewNop()).Enabled())
}
