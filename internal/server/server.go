package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/swfrancis/strava-workout-description-generator/internal/activity"
	"github.com/swfrancis/strava-workout-description-generator/internal/analysis"
	"github.com/swfrancis/strava-workout-description-generator/internal/auth"
	"github.com/swfrancis/strava-workout-description-generator/internal/config"
	"github.com/swfrancis/strava-workout-description-generator/internal/history"
	"github.com/swfrancis/strava-workout-description-generator/internal/strava"
	"github.com/swfrancis/strava-workout-description-generator/internal/stream"
	"github.com/swfrancis/strava-workout-description-generator/internal/user"
	"github.com/swfrancis/strava-workout-description-generator/internal/webhook"
)

type Server struct {
	App       *fiber.App
	Cfg       config.Config
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Stream    *stream.Hub
	Processor *webhook.Processor
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	session := auth.SessionMiddleware(s.Cfg.JWTSecret)

	oauth := &strava.OAuth{
		ClientID:     s.Cfg.StravaClientID,
		ClientSecret: s.Cfg.StravaClientSecret,
	}
	users := user.NewService(s.DB, s.Redis)
	analyzer := analysis.NewAnalyzer(analysis.DefaultConfig())
	activities := activity.NewService(activity.Config{
		ClientID:     s.Cfg.StravaClientID,
		ClientSecret: s.Cfg.StravaClientSecret,
	}, users, analyzer)
	records := history.NewService(s.DB)
	s.Processor = webhook.NewProcessor(activities, users, records, s.Stream, s.Cfg.WebhookProcessDelay)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, oauth, users, s.Cfg.StravaRedirectURI), session)
	activity.RegisterRoutes(s.App.Group("/activities"), activities, session)
	history.RegisterRoutes(s.App.Group("/history"), records, session)
	webhook.RegisterRoutes(s.App.Group("/webhook"), s.Cfg.WebhookVerifyToken, s.Processor)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
