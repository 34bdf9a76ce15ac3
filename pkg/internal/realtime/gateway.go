package realtime

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

// Gateway owns the websocket edge of the realtime channel: upgrading
// connections, decoding frames and feeding them to the coordinator.
type Gateway struct {
	coordinator *Coordinator
}

func NewGateway(coordinator *Coordinator) *Gateway {
	return &Gateway{coordinator: coordinator}
}

// Upgrade gates the route so only websocket upgrade requests reach the
// handler.
func (g *Gateway) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler runs one connection's read loop. Each decoded frame is handled as
// its own task context; a read failure or close ends the loop and silently
// removes the peer from all rooms.
func (g *Gateway) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		peer := NewPeer(&wsSink{conn: conn})
		defer g.coordinator.Disconnect(peer)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Msg("Realtime connection closed.")
				return
			}

			var frame Frame
			if err := jsoniter.Unmarshal(data, &frame); err != nil {
				peer.SendError(CodeValidationError, "malformed frame")
				continue
			}

			g.coordinator.Dispatch(context.Background(), peer, frame)
		}
	})
}

type wsSink struct {
	conn *websocket.Conn
}

func (s *wsSink) WriteFrame(frame Frame) error {
	data, err := jsoniter.Marshal(frame)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
