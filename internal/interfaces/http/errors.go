package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/domain"
)

// writeError maps domain errors to the uniform error payload. Insufficient
// stock keeps its full per-line shortfall so the caller can retry informed.
func writeError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		shortfalls := make([]dto.ShortfallResponse, 0, len(insufficient.Lines))
		for _, l := range insufficient.Lines {
			shortfalls = append(shortfalls, dto.ShortfallResponse{
				ProductID:    l.ProductID,
				ProductName:  l.ProductName,
				LocationID:   l.LocationID,
				LocationName: l.LocationName,
				Available:    l.Available,
				Requested:    l.Requested,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:       "INSUFFICIENT_STOCK",
			Message:    insufficient.Error(),
			Shortfalls: shortfalls,
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid input"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "resource not found"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "resource already exists"})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: "concurrent update detected, retry the request"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflict with current state"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
