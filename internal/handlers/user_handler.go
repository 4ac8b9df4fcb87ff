package handlers

import (
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/config"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/dto"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/representation"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
	renderer
}

func NewUserHandler(userService *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{userService: userService, renderer: renderer{cfg: cfg}}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	p := parsePage(c)
	users, total, err := h.userService.List(c.UserContext(), middleware.CurrentIdentity(c), p.limit, p.offset)
	if err != nil {
		return respondError(c, err)
	}
	return h.list(c, representation.KindUser, userRecords(users), total, p)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	u, err := h.userService.Get(c.UserContext(), middleware.CurrentIdentity(c), parseID(c))
	if err != nil {
		return respondError(c, err)
	}
	return h.one(c, fiber.StatusOK, representation.KindUser, userRecord{u})
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	spec, err := h.spec(c, representation.KindUser, representation.OpWrite)
	if err != nil {
		return respondError(c, err)
	}
	u, err := h.userService.Create(c.UserContext(), middleware.CurrentIdentity(c), spec, c.Body())
	if err != nil {
		return respondError(c, err)
	}
	return h.one(c, fiber.StatusCreated, representation.KindUser, userRecord{u})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	return h.update(c, representation.ModeReplace)
}

func (h *UserHandler) Patch(c *fiber.Ctx) error {
	return h.update(c, representation.ModePatch)
}

func (h *UserHandler) update(c *fiber.Ctx, mode representation.Mode) error {
	spec, err := h.spec(c, representation.KindUser, representation.OpWrite)
	if err != nil {
		return respondError(c, err)
	}
	u, err := h.userService.Update(c.UserContext(), middleware.CurrentIdentity(c), parseID(c), spec, c.Body(), mode)
	if err != nil {
		return respondError(c, err)
	}
	return h.one(c, fiber.StatusOK, representation.KindUser, userRecord{u})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.userService.Delete(c.UserContext(), middleware.CurrentIdentity(c), parseID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadAvatar stores the multipart "avatar" file as the caller's avatar.
func (h *UserHandler) UploadAvatar(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)
	if err := access.RequireAuthenticated(identity); err != nil {
		return respondError(c, err)
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid input.",
			Fields: map[string][]string{"avatar": {"No file was submitted."}},
		})
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	u, err := h.userService.SetAvatar(c.UserContext(), identity, parseID(c), services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return respondError(c, err)
	}
	return h.one(c, fiber.StatusOK, representation.KindUser, userRecord{u})
}
