package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/access"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/config"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/dto"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/representation"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/services"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/validation"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxOffset       = math.MaxInt32
)

// respondError maps service and gate errors to status codes. Anything
// unrecognised is logged and reported as a bare 500.
func respondError(c *fiber.Ctx, err error) error {
	var fieldErrs validation.Errors
	switch {
	case errors.As(err, &fieldErrs):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid input.", Fields: fieldErrs,
		})
	case errors.Is(err, representation.ErrMalformedBody):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "JSON parse error.",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Unable to log in with provided credentials.",
			Fields: validation.Errors{validation.NonFieldErrors: {"Unable to log in with provided credentials."}},
		})
	case errors.Is(err, access.ErrAuthenticationRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Authentication credentials were not provided.",
		})
	case errors.Is(err, access.ErrReadOnly):
		return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.ErrorResponse{
			Error: true, Message: "Method not allowed.",
		})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAddressNotFound),
		errors.Is(err, services.ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Not found.",
		})
	case errors.Is(err, services.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Avatar storage is not available.",
		})
	}

	slog.Error("request failed",
		"request_id", requestID(c),
		"user_id", middleware.CurrentIdentity(c).String(),
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// sendJSON writes an already encoded JSON document.
func sendJSON(c *fiber.Ctx, status int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(body)
}

// parseID returns 0 for anything that is not a positive integer; no row
// has id 0, so lookups with it end in not found.
func parseID(c *fiber.Ctx) uint {
	id, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil {
		return 0
	}
	return uint(id)
}

// renderer carries the URL settings needed to represent rows.
type renderer struct {
	cfg *config.Config
}

func (r renderer) baseURL(c *fiber.Ctx) string {
	if r.cfg.BaseURL != "" {
		return strings.TrimRight(r.cfg.BaseURL, "/")
	}
	return c.BaseURL()
}

func (r renderer) options(c *fiber.Ctx) representation.Options {
	base := r.baseURL(c)
	media := r.cfg.MediaURL
	if strings.HasPrefix(media, "/") {
		media = base + media
	}
	return representation.Options{BaseURL: base, MediaURL: media}
}

func (r renderer) spec(c *fiber.Ctx, kind representation.Kind, op representation.Operation) (representation.FieldSpec, error) {
	return representation.Resolve(kind, middleware.Version(c), op)
}

func (r renderer) one(c *fiber.Ctx, status int, kind representation.Kind, rec representation.Record) error {
	spec, err := r.spec(c, kind, representation.OpDetail)
	if err != nil {
		return respondError(c, err)
	}
	body, err := spec.Render(rec, r.options(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendJSON(c, status, body)
}

func (r renderer) list(c *fiber.Ctx, kind representation.Kind, recs []representation.Record, total int64, p page) error {
	spec, err := r.spec(c, kind, representation.OpList)
	if err != nil {
		return respondError(c, err)
	}
	body, err := spec.RenderList(recs, total, p.links(c, r.baseURL(c), total), r.options(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendJSON(c, fiber.StatusOK, body)
}

// page is a limit/offset window over a list.
type page struct {
	limit  int
	offset int
}

func parsePage(c *fiber.Ctx) page {
	p := page{limit: defaultPageSize}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		p.limit = min(n, maxPageSize)
	}
	if n, err := strconv.Atoi(c.Query("offset")); err == nil && n > 0 {
		p.offset = min(n, maxOffset)
	}
	return p
}

// links builds the next and previous URLs, keeping the other query
// parameters of the request.
func (p page) links(c *fiber.Ctx, base string, total int64) representation.Page {
	query, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	build := func(offset int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("limit", strconv.Itoa(p.limit))
		if offset > 0 {
			q.Set("offset", strconv.Itoa(offset))
		} else {
			q.Del("offset")
		}
		return base + c.Path() + "?" + q.Encode()
	}

	var out representation.Page
	if int64(p.offset)+int64(p.limit) < total {
		out.Next = build(p.offset + p.limit)
	}
	if p.offset > 0 {
		out.Previous = build(p.offset - p.limit)
	}
	return out
}
