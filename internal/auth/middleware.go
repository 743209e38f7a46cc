package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionMiddleware validates session tokens and stores athlete_id in
// locals. Tokens arrive as a bearer header or the session cookie set by
// the OAuth callback.
func SessionMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			token = c.Cookies("session")
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing session token")
		}

		parsed, err := parseMiddlewareClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims, ok := parsed.Claims.(*Claims)
		if !ok || !parsed.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "session invalid")
		}

		c.Locals("athlete_id", claims.AthleteID)
		return c.Next()
	}
}

var parseMiddlewareClaimsFn = jwt.ParseWithClaims

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// AthleteID reads the athlete id stored by SessionMiddleware.
func AthleteID(c *fiber.Ctx) int64 {
	id, _ := c.Locals("athlete_id").(int64)
	return id
}
