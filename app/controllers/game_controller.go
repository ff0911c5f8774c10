package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/pkg"
)

const gameCodeLength = 8

func (h *Controller) CreateGame(c *fiber.Ctx) error {
	gameCreateDto := new(models.GameCreateDto)
	if err := c.BodyParser(gameCreateDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	game := &models.Game{
		Id:     pkg.RandString(gameCodeLength),
		Name:   gameCreateDto.Name,
		Type:   gameCreateDto.Type,
		Status: models.GameOpen,
	}
	if _, err := h.DB.Model(game).Insert(); err != nil {
		h.Log.WithError(err).Error("creating game")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(fiber.Map{"id": game.Id})
}

func (h *Controller) GetAllAvailGames(c *fiber.Ctx) error {
	var games []models.Game
	if err := h.DB.Model(&games).Where("status = ?", models.GameOpen).Select(); err != nil {
		h.Log.WithError(err).Error("listing games")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(games)
}

func (h *Controller) VerifyGame(c *fiber.Ctx) error {
	verifyGameDto := new(models.VerifyGameDto)
	if err := c.QueryParser(verifyGameDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	game := &models.Game{Id: verifyGameDto.Code}
	if err := h.DB.Model(game).WherePK().Select(); err != nil {
		return c.JSON(fiber.Map{"status": false})
	}
	return c.JSON(fiber.Map{"status": game.Status == models.GameOpen})
}
