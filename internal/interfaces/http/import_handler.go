package http

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/infrastructure/metrics"
)

// ImportService is the slice of the import use case the handler needs.
type ImportService interface {
	ImportBatch(ctx context.Context, r io.Reader, actorID string) (*dto.ImportReport, error)
}

// ImportHandler accepts the bulk CSV feed.
type ImportHandler struct {
	svc ImportService
}

// NewImportHandler builds the handler.
func NewImportHandler(svc ImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

// Import godoc
// @Summary      Bulk import bookings from a CSV feed
// @Description  Multipart upload (field "file") with columns Date;Project;Product SKU;Quantity;Location;Notes.
//
//	Unresolvable rows are skipped and reported, never fatal for the batch.
//
// @Tags         import
// @Accept       mpfd
// @Produce      json
// @Param        actor_id  query  string  true  "Importing user UUID"
// @Success      200  {object}  dto.ImportReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/import [post]
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	actorID := c.Query("actor_id")
	if actorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "actor_id is required"})
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "multipart field 'file' is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cannot read uploaded file"})
	}
	defer file.Close()

	report, err := h.svc.ImportBatch(c.Context(), file, actorID)
	if err != nil {
		return writeError(c, err)
	}
	metrics.ImportRows.WithLabelValues("accepted").Add(float64(report.Accepted))
	metrics.ImportRows.WithLabelValues("rejected").Add(float64(len(report.Rejected)))
	return c.JSON(report)
}
