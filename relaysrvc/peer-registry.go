package relaysrvc

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Peer is a live duplex connection that the bridge can push messages to.
// The registry owns the peer while it is connected; a peer that fails a
// send is evicted and closed.
type Peer interface {
	ID() uuid.UUID
	Send(msg []byte) error
	Close() error
}

type PeerRegistry struct {
	lock  sync.Mutex
	peers map[uuid.UUID]Peer
}

func NewPeerRegistry() *PeerRegistry {
	return &PeerRegistry{
		peers: make(map[uuid.UUID]Peer),
	}
}

func (r *PeerRegistry) Connect(p Peer) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.peers[p.ID()] = p
}

// Disconnect removes the peer if present. Removing an already absent peer
// is a no-op since a client disconnect may race with broadcast eviction.
func (r *PeerRegistry) Disconnect(p Peer) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.peers, p.ID())
}

func (r *PeerRegistry) Count() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.peers)
}

// Broadcast sends msg to every peer in a snapshot of the current membership
// and returns the snapshot size, i.e. the number of attempted deliveries.
// A failed send evicts that peer and delivery to the rest continues.
func (r *PeerRegistry) Broadcast(msg []byte) int {
	r.lock.Lock()
	snapshot := make([]Peer, 0, len(r.peers))
	for _, p := range r.peers {
		snapshot = append(snapshot, p)
	}
	r.lock.Unlock()

	for _, p := range snapshot {
		if err := p.Send(msg); err != nil {
			slog.Default().Warn("evicting peer after failed send",
				"peer_id", p.ID(), "error", err)
			r.Disconnect(p)
			p.Close()
		}
	}

	return len(snapshot)
}
