package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DedS3t/monopoly-engine/app/controllers"
)

func GameRoutes(a *fiber.App, h *controllers.Controller) {
	route := a.Group("/game")
	route.Post("/create", h.CreateGame)
	route.Get("/verify", h.VerifyGame)
	route.Get("/all", h.GetAllAvailGames)
}

func InspectRoutes(a *fiber.App, h *controllers.Controller) {
	route := a.Group("/game/:id")
	route.Get("/board", h.Board)
	route.Get("/space/:label", h.Space)
	route.Get("/deed/:label", h.Deed)
	route.Get("/player/:user", h.Player)
	route.Get("/trades", h.Trades)
}
