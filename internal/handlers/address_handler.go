package handlers

import (
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/config"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/representation"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AddressHandler struct {
	addressService *services.AddressService
	renderer
}

func NewAddressHandler(addressService *services.AddressService, cfg *config.Config) *AddressHandler {
	return &AddressHandler{addressService: addressService, renderer: renderer{cfg: cfg}}
}

func (h *AddressHandler) List(c *fiber.Ctx) error {
	p := parsePage(c)
	addresses, total, err := h.addressService.List(c.UserContext(), middleware.CurrentIdentity(c), p.limit, p.offset)
	if err != nil {
		return respondError(c, err)
	}
	return h.list(c, representation.KindAddress, addressRecords(addresses), total, p)
}

func (h *AddressHandler) Get(c *fiber.Ctx) error {
	a, err := h.addressService.Get(c.UserContext(), middleware.CurrentIdentity(c), parseID(c))
	if err != nil {
		return respondError(c, err)
	}
	return h.one(c, fiber.StatusOK, representation.KindAddress, addressRecord{a})
}

func (h *AddressHandler) Create(c *fiber.Ctx) error {
	spec, err := h.spec(c, representation.KindAddress, representation.OpWrite)
	if err != nil {
		return respondError(c, err)
	}
	a, err := h.addressService.Create(c.UserContext(), middleware.CurrentIdentity(c), spec, c.Body())
	if err != nil {
		return respondError(c, err)
	}
	return h.one(c, fiber.StatusCreated, representation.KindAddress, addressRecord{a})
}

func (h *AddressHandler) Update(c *fiber.Ctx) error {
	return h.update(c, representation.ModeReplace)
}

func (h *AddressHandler) Patch(c *fiber.Ctx) error {
	return h.update(c, representation.ModePatch)
}

func (h *AddressHandler) update(c *fiber.Ctx, mode representation.Mode) error {
	spec, err := h.spec(c, representation.KindAddress, representation.OpWrite)
	if err != nil {
		return respondError(c, err)
	}
	a, err := h.addressService.Update(c.UserContext(), middleware.CurrentIdentity(c), parseID(c), spec, c.Body(), mode)
	if err != nil {
		return respondError(c, err)
	}
	return h.one(c, fiber.StatusOK, representation.KindAddress, addressRecord{a})
}

func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	if err := h.addressService.Delete(c.UserContext(), middleware.CurrentIdentity(c), parseID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
