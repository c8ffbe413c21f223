package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// State reports the client's connectivity. Consumers use it to gate
// mutation affordances while offline; already-seeded collections stay
// readable regardless.
type State string

const (
	StateOnline  State = "online"
	StateOffline State = "offline"
)

// Handler receives change events for one subscribed scope.
type Handler func(Event)

const (
	writeTimeout = 10 * time.Second
	readTimeout  = 5 * time.Minute
)

// Client is a cancellable subscription to the server's change feed.
// One Client multiplexes any number of scopes over a single websocket.
type Client struct {
	url   string
	token string

	onState func(State)

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string]Handler
	closed   bool
	done     chan struct{}
}

// Option configures a Client.
type Option func(*Client)

// WithStateHandler registers a connectivity callback. It fires with
// StateOnline after a successful connect and StateOffline when the
// connection drops or the client is closed.
func WithStateHandler(fn func(State)) Option {
	return func(c *Client) { c.onState = fn }
}

// NewClient creates a feed client for the given websocket URL
// (e.g. ws://host/ws/v1/feed) authenticating with a bearer token.
func NewClient(url, token string, opts ...Option) *Client {
	c := &Client{
		url:      url,
		token:    token,
		handlers: make(map[string]Handler),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the feed endpoint and starts the read loop. It must be
// called before Subscribe.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url+"?token="+c.token, nil)
	if err != nil {
		return fmt.Errorf("dial feed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.setState(StateOnline)
	go c.readLoop()
	return nil
}

// Subscribe registers a handler for a scope and asks the server to start
// delivering its changes. Re-subscribing a scope replaces the handler.
func (c *Client) Subscribe(scope string, h Handler) error {
	c.mu.Lock()
	if c.conn == nil || c.closed {
		c.mu.Unlock()
		return fmt.Errorf("feed client not connected")
	}
	c.handlers[scope] = h
	c.mu.Unlock()

	return c.send(ClientMessage{Action: ActionSubscribe, Scopes: []string{scope}})
}

// Unsubscribe stops delivery for a scope. Call on scope change before
// subscribing the new scope so stale events never reach the wrong handler.
func (c *Client) Unsubscribe(scope string) error {
	c.mu.Lock()
	delete(c.handlers, scope)
	connected := c.conn != nil && !c.closed
	c.mu.Unlock()

	if !connected {
		return nil
	}
	return c.send(ClientMessage{Action: ActionUnsubscribe, Scopes: []string{scope}})
}

// Close tears the subscription down and releases the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	close(c.done)
	c.setState(StateOffline)
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// Done is closed when the client has shut down, either via Close or a
// dropped connection.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) send(msg ClientMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("feed client not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *Client) readLoop() {
	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		var msg ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			c.mu.Lock()
			alreadyClosed := c.closed
			c.closed = true
			c.mu.Unlock()
			if !alreadyClosed {
				conn.Close()
				close(c.done)
				c.setState(StateOffline)
			}
			return
		}

		if msg.Type != MessageChange || msg.Event == nil {
			continue
		}

		c.mu.Lock()
		h := c.handlers[msg.Event.Scope]
		c.mu.Unlock()
		if h != nil {
			h(*msg.Event)
		}
	}
}

func (c *Client) setState(s State) {
	if c.onState != nil {
		c.onState(s)
	}
}
