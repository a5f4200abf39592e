package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

var upgrader = websocket.Upgrader{}

// chatServer is an httptest server speaking the ticket and chat endpoints.
type chatServer struct {
	srv      *httptest.Server
	tickets  int32
	inbound  chan chatFrame
	behavior func(n int32, conn *websocket.Conn, inbound chan chatFrame)
}

func newChatServer(t *testing.T, behavior func(n int32, conn *websocket.Conn, inbound chan chatFrame)) *chatServer {
	t.Helper()
	cs := &chatServer{inbound: make(chan chatFrame, 8), behavior: behavior}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/ticket", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&cs.tickets, 1)
		_ = json.NewEncoder(w).Encode(types.WSTicketResponse{Ticket: "t-" + string(rune('0'+n)), ExpiresIn: 30})
	})
	mux.HandleFunc("/ws/chat", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cs.behavior(atomic.LoadInt32(&cs.tickets), conn, cs.inbound)
	})
	cs.srv = httptest.NewServer(mux)
	t.Cleanup(cs.srv.Close)
	return cs
}

func trustPeer(t *testing.T, c *Client, peer string) {
	t.Helper()
	req, _ := c.SubmitTrustRequest(TrustSubmission{FromLabel: "peer", FromUserKey: peer})
	require.NoError(t, c.AcceptTrust(req.ID))
}

func TestOpenChat_RequiresTrust(t *testing.T) {
	cs := newChatServer(t, func(int32, *websocket.Conn, chan chatFrame) {})
	c := newTestClient(t, cs.srv.URL)

	_, err := c.OpenChat(context.Background(), "user_stranger", ChatEvents{})
	assert.ErrorIs(t, err, ErrNotTrusted)
	assert.Zero(t, atomic.LoadInt32(&cs.tickets), "no ticket before trust")
}

func TestChatRoundTrip(t *testing.T) {
	cs := newChatServer(t, func(_ int32, conn *websocket.Conn, inbound chan chatFrame) {
		// Greet, then echo everything the client sends into inbound.
		_ = conn.WriteJSON(chatFrame{Type: "text", From: "user_peer1", Text: "hey", TS: time.Now().UTC()})
		for {
			var f chatFrame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			inbound <- f
		}
	})
	c := newTestClient(t, cs.srv.URL)
	trustPeer(t, c, "user_peer1")

	got := make(chan ChatTextMessage, 1)
	cc, err := c.OpenChat(context.Background(), "user_peer1", ChatEvents{
		OnText: func(msg ChatTextMessage) { got <- msg },
	})
	require.NoError(t, err)
	defer func() { _ = cc.Close() }()

	select {
	case msg := <-got:
		assert.Equal(t, "hey", msg.Text)
		assert.False(t, msg.FromMe)
	case <-time.After(2 * time.Second):
		t.Fatal("no incoming message")
	}

	require.NoError(t, cc.Send("hello back"))
	select {
	case f := <-cs.inbound:
		assert.Equal(t, "hello back", f.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("server saw no frame")
	}

	// Both directions land in the local thread.
	msgs := c.ThreadMessages(cc.ThreadID())
	require.Len(t, msgs, 2)
}

func TestChatRetriesOnceOnTicketRejection(t *testing.T) {
	cs := newChatServer(t, func(n int32, conn *websocket.Conn, inbound chan chatFrame) {
		if n == 1 {
			// Reject the first ticket after the upgrade.
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "ticket expired"),
				time.Now().Add(time.Second))
			_ = conn.Close()
			return
		}
		_ = conn.WriteJSON(chatFrame{Type: "text", From: "user_peer2", Text: "second try", TS: time.Now().UTC()})
		var f chatFrame
		_ = conn.ReadJSON(&f) // hold the socket open
	})
	c := newTestClient(t, cs.srv.URL)
	trustPeer(t, c, "user_peer2")

	got := make(chan ChatTextMessage, 1)
	cc, err := c.OpenChat(context.Background(), "user_peer2", ChatEvents{
		OnText: func(msg ChatTextMessage) { got <- msg },
	})
	require.NoError(t, err)
	defer func() { _ = cc.Close() }()

	select {
	case msg := <-got:
		assert.Equal(t, "second try", msg.Text)
	case <-time.After(3 * time.Second):
		t.Fatal("reconnect did not deliver")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&cs.tickets))
}
