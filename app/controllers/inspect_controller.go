package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DedS3t/monopoly-engine/platform/engine"
	"github.com/DedS3t/monopoly-engine/platform/queries"
)

func (h *Controller) game(c *fiber.Ctx) (*engine.Game, error) {
	g, ok := h.Games.Get(c.Params("id"))
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "game is not running")
	}
	return g, nil
}

func (h *Controller) Board(c *fiber.Ctx) error {
	g, err := h.game(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"spaces": queries.BoardView(g),
		"turn":   g.Turn(),
	})
}

func (h *Controller) Space(c *fiber.Ctx) error {
	g, err := h.game(c)
	if err != nil {
		return err
	}
	s, err := queries.SpaceInfo(g, c.Params("label"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(s)
}

func (h *Controller) Deed(c *fiber.Ctx) error {
	g, err := h.game(c)
	if err != nil {
		return err
	}
	deed, err := queries.DeedInfo(g, c.Params("label"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(deed)
}

func (h *Controller) Player(c *fiber.Ctx) error {
	g, err := h.game(c)
	if err != nil {
		return err
	}
	p, err := queries.PlayerInfo(g, c.Params("user"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (h *Controller) Trades(c *fiber.Ctx) error {
	g, err := h.game(c)
	if err != nil {
		return err
	}
	return c.JSON(queries.Trades(g))
}
