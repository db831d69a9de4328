package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bouwadmin/voorraad-api/internal/application/ledger"
)

// StockHandler read-only stock queries (browse, balances, low stock, integrity).
type StockHandler struct {
	uc *ledger.UseCase
}

// NewStockHandler builds the handler.
func NewStockHandler(uc *ledger.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Balance godoc
// @Summary      Balance for one product at one location
// @Tags         stock
// @Produce      json
// @Param        product_id   query  string  true  "Product UUID"
// @Param        location_id  query  string  true  "Location UUID"
// @Success      200  {object}  dto.StockBalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/balance [get]
func (h *StockHandler) Balance(c *fiber.Ctx) error {
	result, err := h.uc.Balance(c.Context(), c.Query("product_id"), c.Query("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

// BalancesAtLocation godoc
// @Summary      What is actually present at a location
// @Description  Positive balances only, ordered by product name; feeds the booking pick-list.
// @Tags         stock
// @Produce      json
// @Param        id  path  string  true  "Location UUID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/locations/{id} [get]
func (h *StockHandler) BalancesAtLocation(c *fiber.Ctx) error {
	items, err := h.uc.BalancesAtLocation(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// LowStock godoc
// @Summary      Products under their minimum stock
// @Tags         stock
// @Produce      json
// @Param        location_id  query  string  false  "Location UUID; empty aggregates all locations"
// @Success      200  {array}  dto.LowStockResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.uc.ListBelowMinimum(c.Context(), c.Query("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// Integrity godoc
// @Summary      Cross-check materialized balances against the journal
// @Tags         stock
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/stock/integrity [get]
func (h *StockHandler) Integrity(c *fiber.Ctx) error {
	mismatches, err := h.uc.VerifyConservation(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"consistent": len(mismatches) == 0, "mismatches": mismatches})
}
