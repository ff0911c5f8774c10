package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/controllers"
	"github.com/DedS3t/monopoly-engine/pkg/routes"
	"github.com/DedS3t/monopoly-engine/platform/board"
	"github.com/DedS3t/monopoly-engine/platform/cache"
	"github.com/DedS3t/monopoly-engine/platform/config"
	"github.com/DedS3t/monopoly-engine/platform/database"
	"github.com/DedS3t/monopoly-engine/platform/engine"
	"github.com/DedS3t/monopoly-engine/platform/logging"
	"github.com/DedS3t/monopoly-engine/platform/queries"
	socket "github.com/DedS3t/monopoly-engine/platform/sockets"
	"github.com/DedS3t/monopoly-engine/platform/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}
	logging.Init(cfg.LogLevel)
	log := logging.For("main")

	db := database.PostgreSQLConnection(cfg)
	defer db.Close()
	if err := database.CreateSchema(db); err != nil {
		log.WithError(err).Fatal("creating schema")
	}

	games := engine.NewRegistry(engine.Options{
		TradeTTL:   cfg.TradeTTL,
		AuctionTTL: cfg.AuctionTTL,
		Log:        logging.For("engine"),
	})
	if cfg.BoardDir != "" {
		if _, err := board.LoadDir(cfg.BoardDir); err != nil {
			log.WithError(err).WithField("dir", cfg.BoardDir).Fatal("loading board")
		}
		games.NewBoard = func() (*board.Board, error) { return board.LoadDir(cfg.BoardDir) }
	}

	var onFinish func(string, []string)
	if cfg.StateBackend == config.BackendRedis {
		pool := cache.CreateRedisPool(cfg.RedisURL)
		defer pool.Close()
		games.NewStore = func(gameID string) state.Store { return cache.NewPlayerStore(pool, gameID) }
		onFinish = func(gameID string, players []string) {
			if err := cache.NewPlayerStore(pool, gameID).Clear(players); err != nil {
				log.WithError(err).WithField("game", gameID).Warn("clearing redis state")
			}
		}
	}

	srv, err := socket.NewServer(games, &queries.PgRoster{DB: db}, cfg.JWTSecret, onFinish)
	if err != nil {
		log.WithError(err).Fatal("creating socket.io server")
	}
	go func() {
		if err := srv.ListenAndServe(cfg.SocketAddr, cfg.CORSOrigin); err != nil {
			log.WithError(err).Fatal("socket.io server")
		}
	}()

	h := controllers.New(db, games, cfg.JWTSecret)
	app := fiber.New()

	app.Use(cors.New())
	routes.AuthRoutes(app, h)
	routes.GameRoutes(app, h)
	routes.InspectRoutes(app, h)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))
	routes.PrivateRoutes(app, h)

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.WithError(err).Fatal("http server")
	}
}
