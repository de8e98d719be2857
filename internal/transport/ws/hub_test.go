package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func receive(t *testing.T, c *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var m Message
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
	return Message{}
}

func TestHub_BroadcastReachesEveryViewer(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil)
	a := &Connection{ID: "a", Send: make(chan []byte, 4)}
	b := &Connection{ID: "b", Send: make(chan []byte, 4)}
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))

	hub.Broadcast("table_refreshed", map[string]int{"rows": 3})

	for _, c := range []*Connection{a, b} {
		m := receive(t, c)
		assert.Equal(t, MessageType("table_refreshed"), m.Type)
		assert.JSONEq(t, `{"rows":3}`, string(m.Payload))
	}

	hub.Close()
	_, open := <-a.Send
	assert.False(t, open, "close disconnects viewers")
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil)
	defer hub.Close()

	c := &Connection{ID: "c", Send: make(chan []byte, 1)}
	require.True(t, hub.Register(c))
	hub.Unregister(c)

	_, open := <-c.Send
	assert.False(t, open)

	// a second unregister is a no-op
	hub.Unregister(c)
}

func TestHub_ClosedHubRejectsWork(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil)
	hub.Close()
	hub.Close()

	assert.False(t, hub.Register(&Connection{ID: "late", Send: make(chan []byte, 1)}))
	hub.Broadcast("table_refreshed", nil)
	hub.Unregister(&Connection{ID: "late"})
}

func TestHub_FullBufferDropsMessage(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil)
	defer hub.Close()

	slow := &Connection{ID: "slow", Send: make(chan []byte, 1)}
	require.True(t, hub.Register(slow))

	hub.Broadcast("first", 1)
	hub.Broadcast("second", 2)

	assert.Equal(t, MessageType("first"), receive(t, slow).Type)
}

func TestDashboardWS_EndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, nil, nil).DashboardWS))
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	received := make(chan []byte, 1)
	go func() {
		defer close(received)
		client.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, data, err := client.ReadMessage(); err == nil {
			received <- data
		}
	}()

	// registration completes after the handshake, so keep announcing until
	// the viewer hears one
	var got Message
	for done := false; !done; {
		select {
		case data, ok := <-received:
			require.True(t, ok, "viewer never received a message")
			require.NoError(t, json.Unmarshal(data, &got))
			done = true
		case <-time.After(20 * time.Millisecond):
			hub.Broadcast("table_refreshed", map[string]int{"rows": 7})
		}
	}
	assert.Equal(t, MessageType("table_refreshed"), got.Type)
	assert.JSONEq(t, `{"rows":7}`, string(got.Payload))
}

func TestDashboardWS_RejectsUnknownOrigin(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, []string{"https://dash.example.org"}, nil).DashboardWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := map[string][]string{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}
