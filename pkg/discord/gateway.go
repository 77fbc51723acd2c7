package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	DefaultGatewayURL = "wss://gateway.discord.gg/?v=10&encoding=json"
	gatewayQuery      = "?v=10&encoding=json"

	writeTimeout = 10 * time.Second
)

var (
	errReconnectRequested = errors.New("gateway requested reconnect")
	errInvalidSession     = errors.New("gateway invalidated session")
	errZombieConnection   = errors.New("heartbeat not acknowledged")
)

// EventHandler receives dispatch events. It is called from the read loop and
// must not block for long.
type EventHandler func(eventType string, data json.RawMessage)

// Gateway keeps one Discord gateway session alive, resuming or
// re-identifying after disconnects.
type Gateway struct {
	url     string
	token   string
	intents int
	handler EventHandler
	logger  *zap.Logger

	dialer         *websocket.Dialer
	reconnectDelay time.Duration

	writeMu sync.Mutex

	mu        sync.Mutex
	sessionID string
	resumeURL string
	seq       atomic.Int64
	acked     atomic.Bool
}

// NewGateway creates a gateway client. An empty url selects DefaultGatewayURL.
func NewGateway(url, token string, intents int, logger *zap.Logger) *Gateway {
	if url == "" {
		url = DefaultGatewayURL
	}
	if intents == 0 {
		intents = DefaultIntents
	}
	return &Gateway{
		url:            url,
		token:          token,
		intents:        intents,
		logger:         logger,
		dialer:         websocket.DefaultDialer,
		reconnectDelay: 3 * time.Second,
	}
}

// SetEventHandler sets the function to handle dispatch events.
func (g *Gateway) SetEventHandler(h EventHandler) {
	g.handler = h
}

// Run connects and keeps the session alive until ctx is cancelled.
func (g *Gateway) Run(ctx context.Context) error {
	for {
		err := g.runSession(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		g.logger.Warn("gateway session ended", zap.Error(err))

		// Retry reconnecting indefinitely
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.reconnectDelay):
		}
		g.logger.Info("reconnecting to gateway")
	}
}

// runSession lives for one websocket connection.
func (g *Gateway) runSession(ctx context.Context) error {
	sessionID, resumeURL := g.session()
	canResume := sessionID != "" && resumeURL != ""

	dialURL := g.url
	if canResume {
		dialURL = resumeURL
	}

	conn, _, err := g.dialer.DialContext(ctx, dialURL, nil)
	if err != nil {
		return fmt.Errorf("dial gateway: %w", err)
	}
	defer conn.Close()
	g.logger.Info("gateway connected", zap.String("url", dialURL), zap.Bool("resume", canResume))

	// Unblock ReadJSON on shutdown
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	// Step 1: the server speaks first with the heartbeat interval
	var first GatewayPayload
	if err := conn.ReadJSON(&first); err != nil {
		return fmt.Errorf("read hello: %w", err)
	}
	if first.Op != OpHello {
		return fmt.Errorf("expected hello, got op %d", first.Op)
	}
	var hello Hello
	if err := json.Unmarshal(first.D, &hello); err != nil {
		return fmt.Errorf("decode hello: %w", err)
	}

	hbCtx, cancelHeartbeat := context.WithCancel(ctx)
	defer cancelHeartbeat()
	g.acked.Store(true)
	go g.heartbeat(hbCtx, conn, time.Duration(hello.HeartbeatInterval)*time.Millisecond)

	// Step 2: resume the previous session or start a new one
	if canResume {
		err = g.send(conn, OpResume, Resume{Token: g.token, SessionID: sessionID, Seq: g.seq.Load()})
	} else {
		err = g.send(conn, OpIdentify, Identify{
			Token:   g.token,
			Intents: g.intents,
			Properties: IdentifyProperties{
				OS:      "linux",
				Browser: "tickerbot",
				Device:  "tickerbot",
			},
		})
	}
	if err != nil {
		return err
	}

	// Step 3: read until the connection drops or the server asks us to leave
	for {
		var p GatewayPayload
		if err := conn.ReadJSON(&p); err != nil {
			return fmt.Errorf("gateway read: %w", err)
		}

		switch p.Op {
		case OpDispatch:
			if p.S != nil {
				g.seq.Store(*p.S)
			}
			g.dispatch(p)
		case OpHeartbeat:
			if err := g.send(conn, OpHeartbeat, g.seqPayload()); err != nil {
				return err
			}
		case OpHeartbeatAck:
			g.acked.Store(true)
		case OpReconnect:
			return errReconnectRequested
		case OpInvalidSession:
			var resumable bool
			_ = json.Unmarshal(p.D, &resumable)
			if !resumable {
				g.resetSession()
			}
			return errInvalidSession
		}
	}
}

func (g *Gateway) dispatch(p GatewayPayload) {
	switch p.T {
	case EventReady:
		var ready Ready
		if err := json.Unmarshal(p.D, &ready); err != nil {
			g.logger.Warn("failed to decode READY", zap.Error(err))
			break
		}
		g.setSession(ready.SessionID, ready.ResumeGatewayURL)
		g.logger.Info("gateway ready",
			zap.String("user", ready.User.Username),
			zap.String("session_id", ready.SessionID))
	case EventResumed:
		g.logger.Info("gateway session resumed")
	}

	if g.handler != nil {
		g.handler(p.T, p.D)
	}
}

// heartbeat sends op 1 every interval. The first beat is jittered. A beat
// that finds the previous one unacknowledged closes the connection so the
// read loop fails and Run reconnects.
func (g *Gateway) heartbeat(ctx context.Context, conn *websocket.Conn, interval time.Duration) {
	if interval <= 0 {
		return
	}

	timer := time.NewTimer(time.Duration(float64(interval) * rand.Float64()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if !g.acked.Swap(false) {
			g.logger.Warn("closing zombie gateway connection", zap.Error(errZombieConnection))
			_ = conn.Close()
			return
		}
		if err := g.send(conn, OpHeartbeat, g.seqPayload()); err != nil {
			g.logger.Warn("heartbeat failed", zap.Error(err))
			return
		}
		timer.Reset(interval)
	}
}

func (g *Gateway) send(conn *websocket.Conn, op int, d any) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode op %d: %w", op, err)
	}

	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(GatewayPayload{Op: op, D: raw}); err != nil {
		return fmt.Errorf("websocket write op %d failed: %w", op, err)
	}
	return nil
}

// seqPayload is the last sequence number, or nil before the first dispatch.
func (g *Gateway) seqPayload() *int64 {
	s := g.seq.Load()
	if s == 0 {
		return nil
	}
	return &s
}

func (g *Gateway) session() (string, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessionID, g.resumeURL
}

func (g *Gateway) setSession(id, resumeURL string) {
	if resumeURL != "" && !strings.Contains(resumeURL, "?") {
		resumeURL = strings.TrimSuffix(resumeURL, "/") + "/" + gatewayQuery
	}
	g.mu.Lock()
	g.sessionID = id
	g.resumeURL = resumeURL
	g.mu.Unlock()
}

func (g *Gateway) resetSession() {
	g.setSession("", "")
	g.seq.Store(0)
}
