package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/application/journal"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

// queryDateLayout for from/to query params.
const queryDateLayout = "2006-01-02"

// JournalHandler journal queries and administrative corrections.
type JournalHandler struct {
	uc *journal.UseCase
}

// NewJournalHandler builds the handler.
func NewJournalHandler(uc *journal.UseCase) *JournalHandler {
	return &JournalHandler{uc: uc}
}

// List godoc
// @Summary      Query the transaction journal
// @Tags         journal
// @Produce      json
// @Param        from         query  string  false  "Start date (yyyy-mm-dd)"
// @Param        to           query  string  false  "End date (yyyy-mm-dd, inclusive)"
// @Param        product_id   query  string  false  "Product UUID"
// @Param        location_id  query  string  false  "Location UUID"
// @Param        project_id   query  string  false  "Project UUID"
// @Param        user_id      query  string  false  "Actor UUID"
// @Param        search       query  string  false  "Matches notes, product name/sku, project name"
// @Param        limit        query  int     false  "Page size, default 50"
// @Param        offset       query  int     false  "Page offset"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/transactions [get]
func (h *JournalHandler) List(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		ProjectID:  c.Query("project_id"),
		UserID:     c.Query("user_id"),
		SearchText: c.Query("search"),
		Limit:      c.QueryInt("limit", 50),
		Offset:     c.QueryInt("offset", 0),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(queryDateLayout, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid from date"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(queryDateLayout, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid to date"})
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	items, err := h.uc.Query(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	})
}

// Delete godoc
// @Summary      Reverse committed journal entries
// @Description  Appends a compensating entry per id and restores the balances; rows are never removed.
// @Tags         journal
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeleteTransactionsRequest  true  "ids, actor_id"
// @Success      200   {object}  dto.DeleteTransactionsResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions/delete [post]
func (h *JournalHandler) Delete(c *fiber.Ctx) error {
	var in dto.DeleteTransactionsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	result, err := h.uc.Delete(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}
