package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  string
	pinger Pinger
}

// NewHealthHandler takes the configured store driver name. pinger is nil
// for stores that have nothing to ping.
func NewHealthHandler(store string, pinger Pinger) *HealthHandler {
	return &HealthHandler{store: store, pinger: pinger}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	overall := "ok"
	dbStatus := "ok"
	status := fiber.StatusOK
	if h.pinger == nil {
		dbStatus = "not configured"
	} else if err := h.pinger.Ping(c.UserContext()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
		overall = "degraded"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(dto.HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Store:     h.store,
	})
}
