package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"tcw-alerts/internal/alert"
	"tcw-alerts/internal/store"
)

func newTestServer() (*Server, *store.Memory) {
	gin.SetMode(gin.TestMode)
	st := store.NewMemory()
	return NewServer(st), st
}

func doRequest(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestListAlertsEmptyIsArray(t *testing.T) {
	srv, _ := newTestServer()

	w := doRequest(srv, http.MethodGet, "/alerts", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestCreateAlert(t *testing.T) {
	srv, st := newTestServer()

	body := `{"symbol":"btcusdt","side":"Long","entryPrice":67000,"signalTime":"2024-05-01T10:00:00Z"}`
	w := doRequest(srv, http.MethodPost, "/alerts", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.ID)

	alerts, err := st.ListAll()
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, resp.ID, alerts[0].ID)
	require.Equal(t, "BTCUSDT", alerts[0].Symbol)
	require.Equal(t, alert.SideLong, alerts[0].Side)
	require.Equal(t, alert.DefaultTag, alerts[0].Tag)
}

func TestCreateAlertLegacyMessageField(t *testing.T) {
	srv, st := newTestServer()

	body := `{"symbol":"BTCUSDT","side":"short","entryPrice":67000,"signalTime":"T","message":"fade the move"}`
	w := doRequest(srv, http.MethodPost, "/alerts", body)
	require.Equal(t, http.StatusCreated, w.Code)

	alerts, err := st.ListAll()
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, "fade the move", alerts[0].Tag)
}

func TestCreateAlertRejectsBadInput(t *testing.T) {
	srv, st := newTestServer()

	cases := map[string]string{
		"missing symbol":     `{"side":"long","entryPrice":67000,"signalTime":"T"}`,
		"missing side":       `{"symbol":"BTCUSDT","entryPrice":67000,"signalTime":"T"}`,
		"missing entryPrice": `{"symbol":"BTCUSDT","side":"long","signalTime":"T"}`,
		"missing signalTime": `{"symbol":"BTCUSDT","side":"long","entryPrice":67000}`,
		"unknown side":       `{"symbol":"BTCUSDT","side":"sideways","entryPrice":1,"signalTime":"T"}`,
		"negative price":     `{"symbol":"BTCUSDT","side":"long","entryPrice":-5,"signalTime":"T"}`,
		"not json":           `not json`,
	}

	for name, body := range cases {
		w := doRequest(srv, http.MethodPost, "/alerts", body)
		require.Equal(t, http.StatusBadRequest, w.Code, name)
	}

	alerts, err := st.ListAll()
	require.NoError(t, err)
	require.Empty(t, alerts, "rejected requests must not touch the store")
}

func TestOverwriteAlerts(t *testing.T) {
	srv, st := newTestServer()
	require.NoError(t, st.Insert(alert.Alert{
		ID: "old", Symbol: "ETHUSDT", Side: alert.SideLong, EntryPrice: 3000, Tag: "t", SignalTime: "T",
	}))

	body := `[
		{"id":"n1","symbol":"BTCUSDT","side":"long","entryPrice":67000,"signalTime":"T"},
		{"symbol":"SOLUSDT","side":"short","entryPrice":150,"signalTime":"T"}
	]`
	w := doRequest(srv, http.MethodPost, "/alerts-overwrite", body)
	require.Equal(t, http.StatusOK, w.Code)

	alerts, err := st.ListAll()
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	byID := map[string]alert.Alert{}
	for _, a := range alerts {
		byID[a.ID] = a
	}
	require.Contains(t, byID, "n1")
	require.NotContains(t, byID, "old")
}

func TestOverwriteRejectsNonArray(t *testing.T) {
	srv, st := newTestServer()
	require.NoError(t, st.Insert(alert.Alert{
		ID: "old", Symbol: "ETHUSDT", Side: alert.SideLong, EntryPrice: 3000, Tag: "t", SignalTime: "T",
	}))

	for _, body := range []string{`{"symbol":"BTCUSDT"}`, `"alerts"`, `42`} {
		w := doRequest(srv, http.MethodPost, "/alerts-overwrite", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, "Invalid data", resp["error"])
	}

	alerts, err := st.ListAll()
	require.NoError(t, err)
	require.Len(t, alerts, 1, "rejected overwrite must not be applied")
}

func TestOverwriteRejectsInvalidRecord(t *testing.T) {
	srv, st := newTestServer()

	body := `[
		{"symbol":"BTCUSDT","side":"long","entryPrice":67000,"signalTime":"T"},
		{"symbol":"SOLUSDT","side":"short","entryPrice":0,"signalTime":"T"}
	]`
	w := doRequest(srv, http.MethodPost, "/alerts-overwrite", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	alerts, err := st.ListAll()
	require.NoError(t, err)
	require.Empty(t, alerts, "no partial application on invalid payload")
}
