package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/ws/:athleteID", websocket.New(func(c *websocket.Conn) {
		athleteKey := c.Params("athleteID")
		client := hub.Register(athleteKey)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		// unregister first: closing Send releases the write loop
		hub.Unregister(client)
		<-done
	}))
}
