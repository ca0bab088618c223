package channel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/Neio/wordmaster/internal/speech"
)

const writeTimeout = 10 * time.Second

// WebSocketHandler serves the live drill channel. Each connection is one client.
type WebSocketHandler struct {
	processor      Processor
	originPatterns []string
}

// NewWebSocketHandler creates a handler that accepts connections from allowedOrigins.
// Origins are full URLs or "*".
func NewWebSocketHandler(p Processor, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		processor:      p,
		originPatterns: originPatterns(allowedOrigins),
	}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	clientID := uuid.NewString()
	h.processor.Connect(clientID, &connSpeaker{conn: conn})
	defer h.processor.Disconnect(clientID)

	if err := send(ctx, conn, h.processor.Process(ctx, clientID, Command{Type: CommandSetup})); err != nil {
		slog.Warn("failed to send initial view", "client_id", clientID, "error", err)
		return
	}

	for {
		var cmd Command
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			logClosed(clientID, err)
			return
		}
		if err := send(ctx, conn, h.processor.Process(ctx, clientID, cmd)); err != nil {
			slog.Warn("failed to send view", "client_id", clientID, "error", err)
			return
		}
	}
}

func send(ctx context.Context, conn *websocket.Conn, ev Event) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, ev)
}

func logClosed(clientID string, err error) {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		slog.Debug("websocket closed", "client_id", clientID)
	default:
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Warn("websocket read failed", "client_id", clientID, "error", err)
	}
}

// connSpeaker forwards speech requests to the browser, which owns the speech engine.
type connSpeaker struct {
	conn *websocket.Conn
}

func (s *connSpeaker) Speak(ctx context.Context, u speech.Utterance) error {
	return send(ctx, s.conn, Event{Type: EventPronounce, Payload: u})
}

func (s *connSpeaker) Cancel(ctx context.Context) error {
	return send(ctx, s.conn, Event{Type: EventCancelSpeech})
}

// originPatterns converts origin URLs into the host patterns websocket.Accept expects.
func originPatterns(origins []string) []string {
	var patterns []string
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			patterns = append(patterns, o)
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}
