package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, session fiber.Handler) {
	r.Get("/login", func(c *fiber.Ctx) error {
		return c.Redirect(svc.AuthorizeURL(c.Query("state")), fiber.StatusTemporaryRedirect)
	})

	r.Get("/callback", func(c *fiber.Ctx) error {
		if errCode := c.Query("error"); errCode != "" {
			return fiber.NewError(fiber.StatusBadRequest, "authorization denied: "+errCode)
		}
		code := c.Query("code")
		if code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "code required")
		}

		u, token, err := svc.HandleCallback(c.Context(), code)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		c.Cookie(&fiber.Cookie{
			Name:     "session",
			Value:    token,
			Expires:  time.Now().Add(sessionTTL),
			HTTPOnly: true,
		})
		return c.JSON(fiber.Map{
			"token": token,
			"athlete": fiber.Map{
				"athlete_id": u.AthleteID,
				"username":   u.Username,
				"firstname":  u.Firstname,
				"lastname":   u.Lastname,
				"profile":    u.Profile,
			},
		})
	})

	r.Post("/refresh", session, func(c *fiber.Ctx) error {
		u, err := svc.RefreshStravaToken(c.Context(), AthleteID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(fiber.Map{
			"athlete_id": u.AthleteID,
			"expires_at": u.TokenExpiresAt,
		})
	})

	r.Get("/me", session, func(c *fiber.Ctx) error {
		u, err := svc.users.ByAthleteID(c.Context(), AthleteID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(fiber.Map{
			"athlete_id": u.AthleteID,
			"username":   u.Username,
			"firstname":  u.Firstname,
			"lastname":   u.Lastname,
			"profile":    u.Profile,
			"created_at": u.CreatedAt,
		})
	})
}
