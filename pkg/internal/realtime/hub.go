package realtime

import (
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

// FrameSink is where a peer's outbound frames go, usually a websocket
// connection. Implementations do not need to be safe for concurrent use;
// the peer serializes writes.
type FrameSink interface {
	WriteFrame(frame Frame) error
}

// Peer is one subscribed connection. The mutex keeps frame writes whole and
// preserves the order publishes were issued in for this connection.
type Peer struct {
	mu   sync.Mutex
	sink FrameSink
}

func NewPeer(sink FrameSink) *Peer {
	return &Peer{sink: sink}
}

func (p *Peer) WriteFrame(frame Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sink.WriteFrame(frame)
}

// Send marshals payload and writes a single frame to this peer only.
func (p *Peer) Send(event string, payload any) error {
	data, err := jsoniter.Marshal(payload)
	if err != nil {
		return err
	}
	return p.WriteFrame(Frame{Event: event, Payload: data})
}

func (p *Peer) SendError(code string, message string) {
	if err := p.Send(EventError, ErrorPayload{Code: code, Message: message}); err != nil {
		log.Debug().Err(err).Msg("Unable to deliver error event to peer...")
	}
}

// RoomHub tracks which peers are subscribed to which session code and fans
// events out to them. Delivery is best-effort with no confirmation.
type RoomHub struct {
	mu    sync.Mutex
	rooms map[string]map[*Peer]struct{}
}

func NewRoomHub() *RoomHub {
	return &RoomHub{rooms: make(map[string]map[*Peer]struct{})}
}

// Subscribe adds the peer to the room under code. Idempotent.
func (h *RoomHub) Subscribe(peer *Peer, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[code]
	if !ok {
		room = make(map[*Peer]struct{})
		h.rooms[code] = room
	}
	room[peer] = struct{}{}
}

// Publish delivers one event to every peer currently in the room. Publishing
// to an empty or unknown room is a no-op, never an error.
func (h *RoomHub) Publish(code string, event string, payload any) {
	data, err := jsoniter.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("Unable to marshal broadcast payload...")
		return
	}
	frame := Frame{Event: event, Payload: data}

	h.mu.Lock()
	peers := make([]*Peer, 0, len(h.rooms[code]))
	for peer := range h.rooms[code] {
		peers = append(peers, peer)
	}
	h.mu.Unlock()

	for _, peer := range peers {
		if err := peer.WriteFrame(frame); err != nil {
			log.Debug().Err(err).Str("event", event).Str("code", code).
				Msg("Unable to deliver event to room member...")
		}
	}
}

// Disconnect removes the peer from every room it joined. No notification is
// generated for remaining members.
func (h *RoomHub) Disconnect(peer *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for code, room := range h.rooms {
		delete(room, peer)
		if len(room) == 0 {
			delete(h.rooms, code)
		}
	}
}

// Len reports how many peers are in the room under code.
func (h *RoomHub) Len(code string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[code])
}
