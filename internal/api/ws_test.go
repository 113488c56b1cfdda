package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshpulse/atlas/internal/domain"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHub_BroadcastsStatusEvents(t *testing.T) {
	hub := NewHub([]string{"*"}, testLogger())
	defer hub.Close()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	hub.NotifyStatus("FRA", domain.CategoryOutlook, domain.StatusGenerating, at)
	hub.NotifyStatus("FRA", domain.CategoryOutlook, domain.StatusCompleted, at.Add(time.Second))

	conn.SetReadDeadline(time.Now().Add(time.Second))

	var event StatusEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "FRA", event.ISOCode)
	assert.Equal(t, domain.CategoryOutlook, event.Category)
	assert.Equal(t, domain.StatusGenerating, event.Status)
	assert.True(t, at.Equal(event.At))

	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, domain.StatusCompleted, event.Status)
}

func TestHub_NotifyWithoutSubscribers(t *testing.T) {
	hub := NewHub(nil, testLogger())
	defer hub.Close()

	// Must neither panic nor block.
	hub.NotifyStatus("FRA", domain.CategoryOutlook, domain.StatusGenerating, time.Now())
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_RejectsDisallowedOrigin(t *testing.T) {
	hub := NewHub([]string{"http://localhost:5173"}, testLogger())
	defer hub.Close()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	require.Error(t, err)
	require.Nil(t, conn)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
}

func TestHub_CloseDisconnectsSubscribers(t *testing.T) {
	hub := NewHub([]string{"*"}, testLogger())

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())

	// Closing twice is safe, and late events go nowhere.
	hub.Close()
	hub.NotifyStatus("FRA", domain.CategoryOutlook, domain.StatusCompleted, time.Now())

	conn.SetReadDeadline(time.Now().Add(time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func TestStatusFeed_EndToEnd(t *testing.T) {
	f := newTestRouter(t, nil)

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"/api/v1/insights/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return f.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	resp, err := http.Post(srv.URL+"/api/v1/insights/FRA/outlook/regenerate", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var event StatusEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "FRA", event.ISOCode)
	assert.Equal(t, domain.CategoryOutlook, event.Category)
	assert.Equal(t, domain.StatusGenerating, event.Status)

	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, domain.StatusCompleted, event.Status)
	assert.False(t, event.At.IsZero())
}
