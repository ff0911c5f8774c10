package controllers

import (
	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/gofiber/fiber/v2"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/auth"
)

func encrypt(pass string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	return string(hash), err
}

func (h *Controller) CreateUser(c *fiber.Ctx) error {
	userDto := new(models.UserDto)
	if err := c.BodyParser(userDto); err != nil || userDto.Email == "" || userDto.Pass == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	hash, err := encrypt(userDto.Pass)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	user := &models.User{
		Id:       uuid.NewV4().String(),
		Email:    userDto.Email,
		Password: hash,
	}
	if _, err := h.DB.Model(user).Insert(); err != nil {
		h.Log.WithError(err).Warn("creating user")
		return c.SendStatus(fiber.StatusConflict)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": user.Id})
}

func (h *Controller) Login(c *fiber.Ctx) error {
	userDto := new(models.UserDto)
	if err := c.BodyParser(userDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	user := new(models.User)
	if err := h.DB.Model(user).Where("email = ?", userDto.Email).Select(); err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(userDto.Pass)) != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	t, err := auth.Issue(h.Secret, user.Id)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(fiber.Map{"access_token": t})
}

func (h *Controller) Cur(c *fiber.Ctx) error {
	token, _ := c.Locals("user").(*jwt.Token)
	userID, err := auth.UserID(token)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	return c.SendString(userID)
}
