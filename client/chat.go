package client

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/Zephy88r/AnoN-sub000/internal/api"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

const (
	chatPingInterval = 30 * time.Second
	chatWriteWait    = 10 * time.Second
)

// ChatEvents carries the callbacks a chat connection invokes from its read
// loop. Nil callbacks are skipped. Callbacks run on the read goroutine, so
// they must not block.
type ChatEvents struct {
	// OnText fires for each incoming peer message, after it has been
	// appended to the local thread.
	OnText func(msg ChatTextMessage)

	// OnClose fires once when the read loop ends. err is nil on a clean
	// local Close.
	OnClose func(err error)
}

// chatFrame is the wire shape of one WebSocket chat event.
type chatFrame struct {
	Type string    `json:"type"`
	From string    `json:"from"`
	Text string    `json:"text"`
	TS   time.Time `json:"ts"`
}

// ChatConn is a live chat socket bound to one trusted peer's thread.
// Incoming messages are mirrored into the local thread directory, so the
// conversation survives the socket.
type ChatConn struct {
	client   *Client
	peer     string
	threadID string
	events   ChatEvents

	mu        sync.Mutex // guards conn writes and replacement
	conn      *websocket.Conn
	done      chan struct{}
	closeOnce sync.Once
}

// OpenChat dials the chat socket for a trusted peer. The thread is created
// on first use. A ticket rejected with close code 1008 is retried once with
// a fresh ticket before the connection gives up.
func (c *Client) OpenChat(ctx context.Context, peerKey string, events ChatEvents) (*ChatConn, error) {
	if !c.trust.IsTrusted(peerKey) {
		return nil, types.ErrNotTrusted
	}
	thread := c.threads.EnsureThread(c.localKey(), peerKey)

	conn, err := c.dialChat(ctx, peerKey)
	if err != nil {
		return nil, err
	}

	cc := &ChatConn{
		client:   c,
		peer:     peerKey,
		threadID: thread.ID,
		events:   events,
		conn:     conn,
		done:     make(chan struct{}),
	}
	go cc.readLoop()
	go cc.pingLoop()
	return cc, nil
}

// dialChat fetches a ticket and upgrades the WebSocket.
func (c *Client) dialChat(ctx context.Context, peerKey string) (*websocket.Conn, error) {
	ticket, err := api.WSTicket(ctx, c.http, c.baseURL, types.WSTicketRequest{Peer: peerKey})
	if err != nil {
		return nil, err
	}
	u := c.wsURL + "/ws/chat?ticket=" + url.QueryEscape(ticket.Ticket)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// readLoop consumes frames until the socket dies. A single 1008 close
// (expired or rejected ticket) triggers one re-dial with a fresh ticket.
func (cc *ChatConn) readLoop() {
	retried := false
	for {
		var frame chatFrame
		err := cc.currentConn().ReadJSON(&frame)
		if err != nil {
			select {
			case <-cc.done:
				cc.fireClose(nil)
				return
			default:
			}
			if websocket.IsCloseError(err, websocket.ClosePolicyViolation) && !retried {
				retried = true
				if cc.redial() {
					continue
				}
			}
			cc.fireClose(err)
			_ = cc.Close()
			return
		}

		if frame.Type != "text" {
			continue
		}
		at := frame.TS
		if at.IsZero() {
			at = time.Now().UTC()
		}
		msg := cc.client.threads.AppendIncoming(cc.threadID, frame.Text, at)
		chatMessagesTotal.WithLabelValues("in").Inc()
		if cc.events.OnText != nil {
			cc.events.OnText(msg)
		}
	}
}

// redial replaces the dead socket with a fresh-ticket connection.
func (cc *ChatConn) redial() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var conn *websocket.Conn
	op := func() error {
		nc, err := cc.client.dialChat(ctx, cc.peer)
		if err != nil {
			return err
		}
		conn = nc
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		cc.client.log.Warn().Err(err).Str("peer", cc.peer).Msg("chat redial failed")
		return false
	}

	cc.mu.Lock()
	old := cc.conn
	cc.conn = conn
	cc.mu.Unlock()
	_ = old.Close()
	chatReconnectsTotal.Inc()
	return true
}

func (cc *ChatConn) currentConn() *websocket.Conn {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.conn
}

// pingLoop keeps intermediaries from idling the socket out.
func (cc *ChatConn) pingLoop() {
	t := time.NewTicker(chatPingInterval)
	defer t.Stop()
	for {
		select {
		case <-cc.done:
			return
		case <-t.C:
			cc.mu.Lock()
			err := cc.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(chatWriteWait))
			cc.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Send appends the text to the local thread and pushes it over the socket.
// Blank text is dropped without touching the wire.
func (cc *ChatConn) Send(text string) error {
	msg, ok := cc.client.threads.SendText(cc.threadID, text)
	if !ok {
		return nil
	}
	chatMessagesTotal.WithLabelValues("out").Inc()

	cc.mu.Lock()
	defer cc.mu.Unlock()
	_ = cc.conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
	return cc.conn.WriteJSON(chatFrame{Type: "text", Text: msg.Text, TS: msg.CreatedAt})
}

// ThreadID returns the id of the thread this socket feeds.
func (cc *ChatConn) ThreadID() string { return cc.threadID }

// Close shuts the socket down. Safe to call multiple times.
func (cc *ChatConn) Close() error {
	var err error
	cc.closeOnce.Do(func() {
		close(cc.done)
		cc.mu.Lock()
		conn := cc.conn
		cc.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(chatWriteWait))
		err = conn.Close()
	})
	return err
}

func (cc *ChatConn) fireClose(err error) {
	if cc.events.OnClose != nil {
		cc.events.OnClose(err)
	}
}
