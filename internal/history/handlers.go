package history

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/swfrancis/strava-workout-description-generator/internal/auth"
)

func RegisterRoutes(r fiber.Router, svc *Service, session fiber.Handler) {
	r.Use(session)

	r.Get("/", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 20)
		records, err := svc.ForAthlete(c.Context(), auth.AthleteID(c), limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if records == nil {
			records = []Record{}
		}
		return c.JSON(records)
	})

	r.Get("/:activityID", func(c *fiber.Ctx) error {
		activityID, err := c.ParamsInt("activityID")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid activity id")
		}
		rec, err := svc.ForActivity(c.Context(), auth.AthleteID(c), int64(activityID))
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(rec)
	})

	r.Delete("/:activityID", func(c *fiber.Ctx) error {
		activityID, err := c.ParamsInt("activityID")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid activity id")
		}
		if err := svc.Delete(c.Context(), auth.AthleteID(c), int64(activityID)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
