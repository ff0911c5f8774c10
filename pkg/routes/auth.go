package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DedS3t/monopoly-engine/app/controllers"
)

func AuthRoutes(a *fiber.App, h *controllers.Controller) {
	route := a.Group("/user")

	route.Post("/create", h.CreateUser)
	route.Post("/login", h.Login)
}

// PrivateRoutes must be registered after the jwt middleware.
func PrivateRoutes(a *fiber.App, h *controllers.Controller) {
	a.Get("/user/cur", h.Cur)
}
