package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/domain"
	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

// dateLayout is the locale date format of the feed (dd-mm-yyyy).
const dateLayout = "02-01-2006"

// Booker is the slice of the booking use case the importer needs: every
// accepted row goes through the same validator and commit protocol as an
// interactive booking, so the bulk path cannot bypass the stock guard.
type Booker interface {
	Book(ctx context.Context, in dto.BookingRequest) (*dto.BookingResult, error)
}

// Options controls the tabular feed dialect.
type Options struct {
	Separator    rune // field separator, matches the configured export separator
	DecimalComma bool // quantities use "," as decimal separator
}

// UseCase parses a CSV feed, resolves human-readable references to ids and
// books each accepted row. Unresolvable rows are reported, never fatal.
// Importing the same row twice books twice: the feed carries no identity to
// deduplicate on, and duplicates are legitimate (two identical withdrawals).
type UseCase struct {
	booker       Booker
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	projectRepo  repository.ProjectRepository
	opts         Options
}

// NewUseCase builds the import use case.
func NewUseCase(
	booker Booker,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	projectRepo repository.ProjectRepository,
	opts Options,
) *UseCase {
	if opts.Separator == 0 {
		opts.Separator = ';'
	}
	return &UseCase{
		booker:       booker,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		projectRepo:  projectRepo,
		opts:         opts,
	}
}

// ImportBatch reads rows `Date, Project, Product SKU, Quantity, Location, Notes`
// (Notes optional, header row tolerated) and books every resolvable row
// against its project. Rows keep their feed date on the journal entry.
func (uc *UseCase) ImportBatch(ctx context.Context, r io.Reader, actorID string) (*dto.ImportReport, error) {
	if actorID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Spreadsheets commonly prepend a UTF-8 byte-order mark; strip it so the
	// first Date cell parses.
	cr := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	cr.Comma = uc.opts.Separator
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	report := &dto.ImportReport{Rejected: []dto.RejectedRow{}}
	rowNum := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowNum++
			report.Rejected = append(report.Rejected, dto.RejectedRow{Row: rowNum, Reason: fmt.Sprintf("malformed row: %v", err)})
			continue
		}
		if rowNum == 0 && isHeader(record) {
			continue
		}
		rowNum++

		if reason := uc.importRow(ctx, record, actorID); reason != "" {
			report.Rejected = append(report.Rejected, dto.RejectedRow{Row: rowNum, Reason: reason})
			continue
		}
		report.Accepted++
	}
	return report, nil
}

// importRow resolves and books one record; a non-empty return is the
// rejection reason.
func (uc *UseCase) importRow(ctx context.Context, record []string, actorID string) string {
	if len(record) < 5 {
		return fmt.Sprintf("expected at least 5 columns, got %d", len(record))
	}
	dateField := strings.TrimSpace(record[0])
	projectField := strings.TrimSpace(record[1])
	skuField := strings.TrimSpace(record[2])
	qtyField := strings.TrimSpace(record[3])
	locationField := strings.TrimSpace(record[4])
	notes := ""
	if len(record) > 5 {
		notes = strings.TrimSpace(record[5])
	}

	date, err := time.Parse(dateLayout, dateField)
	if err != nil {
		return fmt.Sprintf("invalid date %q, expected dd-mm-yyyy", dateField)
	}
	quantity, err := uc.parseQuantity(qtyField)
	if err != nil {
		return fmt.Sprintf("invalid quantity %q", qtyField)
	}
	if !quantity.GreaterThan(decimal.Zero) {
		return fmt.Sprintf("quantity must be positive, got %q", qtyField)
	}

	project, reason := uc.resolveProject(ctx, projectField)
	if reason != "" {
		return reason
	}
	product, reason := uc.resolveProduct(ctx, skuField)
	if reason != "" {
		return reason
	}
	location, reason := uc.resolveLocation(ctx, locationField)
	if reason != "" {
		return reason
	}

	_, err = uc.booker.Book(ctx, dto.BookingRequest{
		ProjectID:  project.ID,
		ActorID:    actorID,
		Notes:      notes,
		OccurredAt: &date,
		Lines: []dto.BookingLineRequest{{
			ProductID:  product.ID,
			LocationID: location.ID,
			Quantity:   quantity,
		}},
	})
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			return insufficient.Error()
		}
		return fmt.Sprintf("booking failed: %v", err)
	}
	return ""
}

func (uc *UseCase) resolveProject(ctx context.Context, name string) (*entity.Project, string) {
	if name == "" {
		return nil, "project is empty"
	}
	candidates, err := uc.projectRepo.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Sprintf("project lookup failed: %v", err)
	}
	switch len(candidates) {
	case 0:
		return nil, fmt.Sprintf("unknown project %q", name)
	case 1:
		return candidates[0], ""
	default:
		// Reject instead of picking the first hit: a partial match on two
		// projects would book against an arbitrary one.
		return nil, fmt.Sprintf("ambiguous project %q (%d matches)", name, len(candidates))
	}
}

func (uc *UseCase) resolveProduct(ctx context.Context, sku string) (*entity.Product, string) {
	if sku == "" {
		return nil, "product SKU is empty"
	}
	product, err := uc.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Sprintf("product lookup failed: %v", err)
	}
	if product == nil || !product.Active {
		return nil, fmt.Sprintf("unknown product SKU %q", sku)
	}
	return product, ""
}

func (uc *UseCase) resolveLocation(ctx context.Context, name string) (*entity.Location, string) {
	if name == "" {
		return nil, "location is empty"
	}
	candidates, err := uc.locationRepo.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Sprintf("location lookup failed: %v", err)
	}
	switch len(candidates) {
	case 0:
		return nil, fmt.Sprintf("unknown location %q", name)
	case 1:
		return candidates[0], ""
	default:
		return nil, fmt.Sprintf("ambiguous location %q (%d matches)", name, len(candidates))
	}
}

// parseQuantity handles the configured decimal separator ("2,5" with a
// semicolon feed, "2.5" otherwise).
func (uc *UseCase) parseQuantity(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, " ", "")
	if uc.opts.DecimalComma {
		if strings.Contains(s, ".") {
			return decimal.Zero, fmt.Errorf("unexpected %q in comma-decimal quantity", ".")
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// isHeader detects the column-name row so feeds with and without it both work.
func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "date" || first == "datum"
}
