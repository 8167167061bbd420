// Package relayws wraps a websocket connection with the write locking the
// engine's synchronous fan-out requires.
package relayws

import (
	"net/http"
	"os"
	"sync"

	"github.com/fasthttp/websocket"
	"github.com/nostrtools/simulatr/pkg/nostr/envelope"
	"github.com/nostrtools/simulatr/pkg/slog"
)

var log, chk = slog.New(os.Stderr)

// WebSocket is a wrapper around a fasthttp/websocket with mutex locking, as
// backlog replay, live fan-out and acknowledgments may interleave writes
// from different goroutines.
type WebSocket struct {
	Conn    *websocket.Conn
	Request *http.Request // original request
	mutex   sync.Mutex
}

func New(conn *websocket.Conn, req *http.Request) *WebSocket {
	return &WebSocket{Conn: conn, Request: req}
}

// WriteMessage writes a message with a given websocket type specifier.
func (ws *WebSocket) WriteMessage(t int, b []byte) (err error) {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	return ws.Conn.WriteMessage(t, b)
}

// WriteEnvelope marshals and sends an envelope as one text message.
func (ws *WebSocket) WriteEnvelope(env envelope.E) (err error) {
	var b []byte
	if b, err = env.MarshalJSON(); chk.E(err) {
		return
	}
	log.T.F("sending message to %s\n%s", ws.Remote(), string(b))
	return ws.WriteMessage(websocket.TextMessage, b)
}

// Remote is the peer address for log lines.
func (ws *WebSocket) Remote() string {
	if ws.Request != nil {
		return ws.Request.RemoteAddr
	}
	return ws.Conn.RemoteAddr().String()
}
