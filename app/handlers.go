package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/nostrtools/simulatr/pkg/nostr/context"
	"github.com/nostrtools/simulatr/pkg/nostr/envelope"
	"github.com/nostrtools/simulatr/pkg/nostr/relayws"
	"github.com/rs/cors"
)

// ServeHTTP implements the http.Handler interface: websocket upgrades go to
// the relay protocol, anything else gets the status document.
func (rl *Relay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Upgrade") == "websocket" {
		rl.HandleWebsocket(w, r)
	} else {
		cors.AllowAll().Handler(http.HandlerFunc(rl.HandleStatus)).
			ServeHTTP(w, r)
	}
}

// HandleStatus serves the engine Status as JSON for quick inspection.
func (rl *Relay) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	chk.E(json.NewEncoder(w).Encode(rl.Status()))
}

func (rl *Relay) HandleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := rl.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.E.F("failed to upgrade websocket: %v", err)
		return
	}
	rl.clients.Store(conn, struct{}{})
	ticker := time.NewTicker(PingPeriod)

	ws := relayws.New(conn, r)
	rl.Connect(ws)
	c, cancel := context.Cancel(context.Bg())

	kill := func() {
		ticker.Stop()
		cancel()
		if _, ok := rl.clients.Load(conn); ok {
			conn.Close()
			rl.clients.Delete(conn)
			// connection teardown cascades to its subscriptions
			rl.Disconnect(ws)
		}
	}

	go rl.websocketReadLoop(c, kill, conn, ws)
	go rl.websocketWatcher(c, kill, ticker, ws)
}

func (rl *Relay) websocketReadLoop(c context.T, kill func(),
	conn *websocket.Conn, ws *relayws.WebSocket) {

	defer kill()
	conn.SetReadLimit(MaxMessageSize)
	chk.E(conn.SetReadDeadline(time.Now().Add(PongWait)))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(PongWait))
	})
	for {
		typ, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
				websocket.CloseAbnormalClosure,
			) {
				log.E.F("unexpected close error from %s: %v", ws.Remote(), err)
			}
			return
		}
		if typ == websocket.PingMessage {
			chk.D(ws.WriteMessage(websocket.PongMessage, nil))
			continue
		}
		rl.wsProcessMessage(c, ws, message)
	}
}

func (rl *Relay) websocketWatcher(c context.T, kill func(),
	ticker *time.Ticker, ws *relayws.WebSocket) {

	defer kill()
	for {
		select {
		case <-c.Done():
			return
		case <-ticker.C:
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.D.F("error writing ping: %v; closing websocket", err)
				return
			}
		}
	}
}

// wsProcessMessage parses one inbound message and drives the engine verb it
// carries. A malformed message gets a NOTICE and touches nothing; every
// error is local to the message that produced it.
func (rl *Relay) wsProcessMessage(c context.T, ws *relayws.WebSocket,
	message []byte) {

	en, err := envelope.ParseMessage(message)
	if err != nil {
		log.D.F("malformed message from %s: %v", ws.Remote(), err)
		chk.D(ws.WriteEnvelope(&envelope.Notice{Text: err.Error()}))
		return
	}
	switch env := en.(type) {
	case *envelope.Event:
		accepted, msg := rl.AddEvent(c, env.Event)
		chk.D(ws.WriteEnvelope(&envelope.OK{
			ID:     env.Event.ID,
			OK:     accepted,
			Reason: msg,
		}))
	case *envelope.Req:
		chk.D(rl.HandleReq(c, ws, env.SubscriptionID, env.Filters))
	case *envelope.Close:
		rl.HandleClose(ws, env.SubscriptionID)
	default:
		// relay-to-client verbs arriving inbound are not ours to answer
		chk.D(ws.WriteEnvelope(&envelope.Notice{
			Text: "unexpected envelope: " + en.Label(),
		}))
	}
}

// Shutdown closes every live websocket.
func (rl *Relay) Shutdown() {
	rl.clients.Range(func(conn *websocket.Conn, _ struct{}) bool {
		chk.D(conn.Close())
		rl.clients.Delete(conn)
		return true
	})
}
