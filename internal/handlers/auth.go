package handlers

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/pointtally/internal/auth"
	"github.com/yourorg/pointtally/internal/models"
	"github.com/yourorg/pointtally/internal/store"
)

// AccountStore is the slice of the store the handlers depend on.
type AccountStore interface {
	CreateAccount(ctx context.Context, username, email, password string) (*models.Account, error)
	FindByHandle(ctx context.Context, username string) (*models.Account, error)
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	ReplacePoints(ctx context.Context, id int64, points int64) (int64, error)
	ReplaceButtons(ctx context.Context, id int64, buttons []models.Button) ([]models.Button, error)
}

// AuthHandler resolves signup and login against the account store.
type AuthHandler struct {
	store  AccountStore
	issuer *auth.TokenIssuer
}

func NewAuthHandler(st AccountStore, issuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{store: st, issuer: issuer}
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{Error: "username and password required"})
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{Error: "invalid email"})
	}

	acc, err := h.store.CreateAccount(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "username already exists"})
		}
		log.Printf("❌ Error creando cuenta: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "server error"})
	}

	log.Printf("✅ Cuenta registrada: id=%d, username=%s", acc.ID, acc.Username)
	c.Set("Cache-Control", "no-store")
	return c.Status(fiber.StatusCreated).JSON(models.SignupResponse{Message: "user created successfully"})
}

// Login handles POST /api/login.
// Unknown username and wrong password produce an identical response, so
// the endpoint leaks nothing about which accounts exist.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || strings.TrimSpace(req.Password) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{Error: "username and password required"})
	}

	acc, err := h.store.FindByHandle(c.UserContext(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "invalid credentials"})
		}
		log.Printf("❌ Error consultando cuenta: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "server error"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "invalid credentials"})
	}

	token, expiresAt, err := h.issuer.Issue(acc.ID, acc.Username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "failed to sign token"})
	}

	c.Set("Cache-Control", "no-store")
	return c.Status(fiber.StatusOK).JSON(models.LoginResponse{
		Token:     token,
		Points:    acc.Points,
		Buttons:   acc.Buttons,
		ExpiresAt: expiresAt,
	})
}
