package activity

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/swfrancis/strava-workout-description-generator/internal/auth"
	"github.com/swfrancis/strava-workout-description-generator/internal/strava"
	"github.com/swfrancis/strava-workout-description-generator/internal/user"
)

func RegisterRoutes(r fiber.Router, svc *Service, session fiber.Handler) {
	r.Use(session)

	r.Get("/", func(c *fiber.Ctx) error {
		opts := strava.ActivityListOptions{
			Page:    c.QueryInt("page", 1),
			PerPage: c.QueryInt("per_page", 30),
			Before:  int64(c.QueryInt("before")),
			After:   int64(c.QueryInt("after")),
		}
		activities, err := svc.List(c.Context(), auth.AthleteID(c), opts)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(activities)
	})

	r.Get("/recent", func(c *fiber.Ctx) error {
		activities, err := svc.Recent(c.Context(), auth.AthleteID(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(activities)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		activityID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid activity id")
		}
		activity, err := svc.Detail(c.Context(), auth.AthleteID(c), int64(activityID))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(activity)
	})

	r.Get("/:id/laps", func(c *fiber.Ctx) error {
		activityID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid activity id")
		}
		laps, err := svc.Laps(c.Context(), auth.AthleteID(c), int64(activityID))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(laps)
	})

	r.Get("/:id/analysis", func(c *fiber.Ctx) error {
		activityID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid activity id")
		}
		result, err := svc.Analyse(c.Context(), auth.AthleteID(c), int64(activityID))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(result)
	})

	r.Post("/:id/description", func(c *fiber.Ctx) error {
		activityID, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid activity id")
		}
		var req struct {
			Apply bool `json:"apply"`
		}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
			}
		}
		result, err := svc.GenerateDescription(c.Context(), auth.AthleteID(c), int64(activityID), req.Apply)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(result)
	})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, user.ErrNotFound), errors.Is(err, strava.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, strava.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, strava.ErrRateLimited):
		return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}
