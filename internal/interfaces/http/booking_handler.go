package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/domain"
	"github.com/bouwadmin/voorraad-api/internal/infrastructure/metrics"
)

// BookingService is the slice of the booking use case the handler needs.
type BookingService interface {
	Book(ctx context.Context, in dto.BookingRequest) (*dto.BookingResult, error)
	Receive(ctx context.Context, in dto.ReceiptRequest) (*dto.BookingResult, error)
	Transfer(ctx context.Context, in dto.TransferRequest) (*dto.BookingResult, error)
}

// BookingHandler handles booking, receipt and transfer requests.
type BookingHandler struct {
	svc BookingService
}

// NewBookingHandler builds the handler.
func NewBookingHandler(svc BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// Book godoc
// @Summary      Book material out against a project
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BookingRequest  true  "project_id, actor_id, lines"
// @Success      201   {object}  dto.BookingResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse "insufficient stock, all failing lines listed"
// @Router       /api/bookings [post]
func (h *BookingHandler) Book(c *fiber.Ctx) error {
	var in dto.BookingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	result, err := h.svc.Book(c.Context(), in)
	if err != nil {
		metrics.BookingsRejected.WithLabelValues(rejectReason(err)).Inc()
		return writeError(c, err)
	}
	metrics.BookingsCommitted.Inc()
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Receive godoc
// @Summary      Register a goods receipt
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiptRequest  true  "product_id, location_id, actor_id, quantity"
// @Success      201   {object}  dto.BookingResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/receipts [post]
func (h *BookingHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	result, err := h.svc.Receive(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Transfer godoc
// @Summary      Move stock between two locations
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_location_id, to_location_id, actor_id, quantity"
// @Success      201   {object}  dto.BookingResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *BookingHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	result, err := h.svc.Transfer(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "concurrency_conflict"
	default:
		return "internal"
	}
}
