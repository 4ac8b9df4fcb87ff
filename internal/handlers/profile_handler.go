package handlers

import (
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/config"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/representation"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService *services.ProfileService
	renderer
}

func NewProfileHandler(profileService *services.ProfileService, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, renderer: renderer{cfg: cfg}}
}

func (h *ProfileHandler) List(c *fiber.Ctx) error {
	p := parsePage(c)
	users, total, err := h.profileService.List(c.UserContext(), middleware.CurrentIdentity(c), p.limit, p.offset)
	if err != nil {
		return respondError(c, err)
	}
	return h.list(c, representation.KindProfile, userRecords(users), total, p)
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	u, err := h.profileService.Get(c.UserContext(), middleware.CurrentIdentity(c), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return h.one(c, fiber.StatusOK, representation.KindProfile, userRecord{u})
}
