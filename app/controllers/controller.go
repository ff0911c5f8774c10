package controllers

import (
	"errors"

	"github.com/go-pg/pg/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/engine"
)

// Controller holds what the HTTP handlers share.
type Controller struct {
	DB     *pg.DB
	Games  *engine.Registry
	Secret string
	Log    *logrus.Entry
}

func New(db *pg.DB, games *engine.Registry, secret string) *Controller {
	return &Controller{
		DB:     db,
		Games:  games,
		Secret: secret,
		Log:    logrus.WithField("component", "http"),
	}
}

// status maps engine errors onto HTTP codes.
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrUnknownPlayer):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrInvalidFormat),
		errors.Is(err, models.ErrOutOfRange),
		errors.Is(err, models.ErrNotAProperty):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(status(err)).JSON(fiber.Map{"error": err.Error()})
}
