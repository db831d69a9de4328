package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/application/export"
)

// ExportHandler streams the journal export for external reporting.
type ExportHandler struct {
	uc *export.UseCase
}

// NewExportHandler builds the handler.
func NewExportHandler(uc *export.UseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Export godoc
// @Summary      Export journal entries as CSV
// @Description  UTF-8 with byte-order mark, configured field separator; columns
//
//	Date;Project;Product;Category;Quantity;Unit;Location;User;Notes.
//
// @Tags         export
// @Produce      text/csv
// @Param        from    query  string  false  "Start date (yyyy-mm-dd)"
// @Param        to      query  string  false  "End date (yyyy-mm-dd, inclusive)"
// @Param        search  query  string  false  "Search term"
// @Success      200  {string}  string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/export [get]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	var filter export.Filter
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
	filter.SearchText = c.Query("search")

	// Query before the first byte goes out: once the CSV headers are set and
	// the body started, an error can only corrupt the download.
	rows, err := h.uc.Rows(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return h.uc.WriteRows(c.Response().BodyWriter(), rows)
}
