// Package feed is a standalone market tick subscriber. It is not part
// of the report/series pipeline; the watch command exposes it on its
// own.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kpraghav/scripdesk/internal/config"
)

const (
	// Time allowed to write a message to the feed.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the feed.
	pongWait = 60 * time.Second

	// Ping period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Tick is one market data update from the feed.
type Tick struct {
	Symbol   string  `json:"symbol"`
	Exchange string  `json:"exchange"`
	Last     float64 `json:"last"`
	Volume   int64   `json:"volume"`
	Time     int64   `json:"time"`
}

// Handler receives decoded ticks.
type Handler func(Tick)

// Client subscribes to a broker tick websocket. Credentials come from
// the environment, never from source.
type Client struct {
	cfg  config.FeedConfig
	conn *websocket.Conn
	log  *zap.Logger
}

// NewClient validates that all feed credentials are present.
// A .env file in the working directory is honored when it exists.
func NewClient(cfg config.FeedConfig, log *zap.Logger) (*Client, error) {
	_ = godotenv.Load()

	if cfg.APIKey == "" || cfg.APISecret == "" || cfg.SessionToken == "" {
		return nil, fmt.Errorf("feed credentials missing: set SCRIPDESK_FEED_API_KEY, SCRIPDESK_FEED_API_SECRET and SCRIPDESK_FEED_SESSION_TOKEN")
	}
	return &Client{cfg: cfg, log: log}, nil
}

// Connect dials the feed and authenticates the session.
func (c *Client) Connect(ctx context.Context) error {
	header := http.Header{}
	header.Set("X-Api-Key", c.cfg.APIKey)
	header.Set("X-Session-Token", c.cfg.SessionToken)

	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return fmt.Errorf("dial feed %s: %w", c.cfg.URL, err)
	}
	c.conn = conn

	auth := map[string]string{
		"action":  "auth",
		"api_key": c.cfg.APIKey,
		"token":   c.cfg.SessionToken,
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(auth); err != nil {
		conn.Close()
		c.conn = nil
		return fmt.Errorf("feed auth: %w", err)
	}

	c.log.Info("connected to tick feed", zap.String("url", c.cfg.URL))
	return nil
}

// Subscribe registers interest in one instrument.
func (c *Client) Subscribe(symbol, exchange string) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	sub := map[string]string{
		"action":     "subscribe",
		"instrument": symbol + "@" + exchange,
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribe %s@%s: %w", symbol, exchange, err)
	}
	c.log.Info("subscribed", zap.String("symbol", symbol), zap.String("exchange", exchange))
	return nil
}

// Listen reads ticks until the context ends or the connection drops.
// Each decoded tick goes to the handler on the read goroutine.
func (c *Client) Listen(ctx context.Context, handle Handler) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}

	// Keepalive pings on a side goroutine.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.PingMessage, nil)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Cancellation must interrupt a blocked read, not wait for the
	// next pong deadline.
	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return fmt.Errorf("feed read: %w", err)
			}
			return nil
		}

		var tick Tick
		if err := json.Unmarshal(message, &tick); err != nil {
			c.log.Debug("skipping undecodable frame", zap.Error(err))
			continue
		}
		handle(tick)
	}
}

// Close tears the connection down.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := c.conn.Close()
	c.conn = nil
	return err
}
