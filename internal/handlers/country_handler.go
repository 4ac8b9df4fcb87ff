package handlers

import (
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/dto"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
	"github.com/gofiber/fiber/v2"
)

type CountryHandler struct {
	countries dto.CountryListResponse
}

func NewCountryHandler() *CountryHandler {
	results := make([]dto.CountryResponse, len(models.Countries))
	for i, c := range models.Countries {
		results[i] = dto.CountryResponse{Code: c.Code, Name: c.Name}
	}
	return &CountryHandler{countries: dto.CountryListResponse{Count: len(results), Results: results}}
}

// List returns the accepted address country codes.
func (h *CountryHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.countries)
}
