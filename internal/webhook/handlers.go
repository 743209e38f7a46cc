package webhook

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes wires the subscription verification handshake and the
// event intake. Strava expects the challenge echoed within 2s and a fast
// 200 on every event, so processing happens off the request path.
func RegisterRoutes(r fiber.Router, verifyToken string, proc *Processor) {
	r.Get("/", func(c *fiber.Ctx) error {
		if c.Query("hub.mode") != "subscribe" || c.Query("hub.verify_token") != verifyToken {
			return fiber.NewError(fiber.StatusForbidden, "verification failed")
		}
		return c.JSON(fiber.Map{"hub.challenge": c.Query("hub.challenge")})
	})

	r.Post("/", func(c *fiber.Ctx) error {
		var event Event
		if err := c.BodyParser(&event); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		proc.Enqueue(event)
		return c.JSON(fiber.Map{"status": "received"})
	})
}
