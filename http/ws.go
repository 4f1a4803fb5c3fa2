package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// peerSendTimeout bounds each broadcast write so one stalled client cannot
// stall delivery to the rest.
const peerSendTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the bridge serves local tooling and browser userscripts on judge
	// pages, so any origin may connect
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsPeer adapts a websocket connection to the relaysrvc.Peer interface.
type wsPeer struct {
	id      uuid.UUID
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func newWsPeer(conn *websocket.Conn) *wsPeer {
	return &wsPeer{
		id:   uuid.New(),
		conn: conn,
	}
}

func (p *wsPeer) ID() uuid.UUID {
	return p.id
}

func (p *wsPeer) Send(msg []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(peerSendTimeout))
	return p.conn.WriteMessage(websocket.TextMessage, msg)
}

func (p *wsPeer) Close() error {
	return p.conn.Close()
}

// wsConnect upgrades the request, registers the peer and then holds the
// connection open. Inbound frames are read and discarded; the channel is
// used for server-to-client fan-out only.
func (httpserver *HttpServer) wsConnect(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Default().Warn("websocket upgrade failed", "error", err)
		return
	}

	peer := newWsPeer(conn)
	registry := httpserver.relay.Registry()
	registry.Connect(peer)
	slog.Default().Info("peer connected",
		"peer_id", peer.ID(), "peer_count", registry.Count())

	defer func() {
		registry.Disconnect(peer)
		peer.Close()
		slog.Default().Info("peer disconnected",
			"peer_id", peer.ID(), "peer_count", registry.Count())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
