package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/pointtally/internal/cache"
	"github.com/yourorg/pointtally/internal/debug"
	"github.com/yourorg/pointtally/internal/models"
	"github.com/yourorg/pointtally/internal/store"
)

// AccountHandler serves the authenticated points/buttons operations.
// Every request resolves the caller from c.Locals("accountID") (set by
// the auth middleware) and touches exactly one account record.
type AccountHandler struct {
	store     AccountStore
	snapshots *cache.Cache
}

// NewAccountHandler wires the store and the snapshot cache. snapshots may
// be nil to disable caching (tests).
func NewAccountHandler(st AccountStore, snapshots *cache.Cache) *AccountHandler {
	return &AccountHandler{store: st, snapshots: snapshots}
}

func snapshotKey(accountID int64) string {
	return fmt.Sprintf("account:%d", accountID)
}

// callerID extrae el account id colocado por el middleware RequireAuth.
func callerID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals("accountID").(int64)
	return id, ok
}

// GetPoints handles GET /api/points.
func (h *AccountHandler) GetPoints(c *fiber.Ctx) error {
	accountID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "no token provided"})
	}

	acc, err := h.store.FindByID(c.UserContext(), accountID)
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(models.PointsResponse{Points: acc.Points})
}

// UpdatePoints handles POST /api/points.
// The client computes the new total from the clicked button; the server
// does no arithmetic here beyond the store's floor-at-zero clamp. Any
// non-negative total the caller sends is accepted as-is.
func (h *AccountHandler) UpdatePoints(c *fiber.Ctx) error {
	accountID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "no token provided"})
	}

	var req models.PointsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	if req.Points == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{Error: "points required"})
	}

	stored, err := h.store.ReplacePoints(c.UserContext(), accountID, *req.Points)
	if err != nil {
		return h.storeError(c, err)
	}

	if h.snapshots != nil {
		h.snapshots.Delete(snapshotKey(accountID))
	}
	debug.LogInfo("points updated", map[string]interface{}{"account_id": accountID, "points": stored})
	return c.JSON(models.PointsResponse{Points: stored})
}

// GetUserData handles GET /api/user-data.
func (h *AccountHandler) GetUserData(c *fiber.Ctx) error {
	accountID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "no token provided"})
	}

	if h.snapshots != nil {
		if cached, found := h.snapshots.Get(snapshotKey(accountID)); found {
			if snap, ok := cached.(models.UserDataResponse); ok {
				return c.JSON(snap)
			}
		}
	}

	acc, err := h.store.FindByID(c.UserContext(), accountID)
	if err != nil {
		return h.storeError(c, err)
	}

	snap := models.UserDataResponse{Points: acc.Points, Buttons: acc.Buttons}
	if h.snapshots != nil {
		h.snapshots.Set(snapshotKey(accountID), snap)
	}
	return c.JSON(snap)
}

// UpdateButtons handles POST /api/buttons.
// The whole list is replaced wholesale on every save; there is no
// per-button create or delete endpoint. Malformed buttons are rejected
// here, never coerced — the store below trusts this boundary.
func (h *AccountHandler) UpdateButtons(c *fiber.Ctx) error {
	accountID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "no token provided"})
	}

	var req models.ButtonsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	if err := models.ValidateButtons(req.Buttons); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{Error: err.Error()})
	}

	stored, err := h.store.ReplaceButtons(c.UserContext(), accountID, req.Buttons)
	if err != nil {
		return h.storeError(c, err)
	}

	if h.snapshots != nil {
		h.snapshots.Delete(snapshotKey(accountID))
	}
	debug.LogInfo("buttons replaced", map[string]interface{}{"account_id": accountID, "count": len(stored)})
	return c.JSON(models.ButtonsResponse{Buttons: stored})
}

// storeError traduce errores del store a la respuesta HTTP. Cualquier
// falla inesperada se reporta como un server error opaco.
func (h *AccountHandler) storeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "user not found"})
	}
	log.Printf("❌ Store error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "server error"})
}
