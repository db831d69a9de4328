package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

// dateLayout matches the import feed (dd-mm-yyyy).
const dateLayout = "02-01-2006"

// Filter narrows the export to a date range and/or a search term.
type Filter struct {
	From       *time.Time
	To         *time.Time
	SearchText string
}

// Options controls the CSV dialect, mirroring the import side.
type Options struct {
	Separator    rune
	DecimalComma bool
}

// UseCase is a read-only projection over the journal for external reporting.
// No hidden state: it queries, maps and writes.
type UseCase struct {
	txRepo repository.TransactionRepository
	opts   Options
}

// NewUseCase builds the export use case.
func NewUseCase(txRepo repository.TransactionRepository, opts Options) *UseCase {
	if opts.Separator == 0 {
		opts.Separator = ';'
	}
	return &UseCase{txRepo: txRepo, opts: opts}
}

// Rows returns the journal rows matching the filter, newest first.
func (uc *UseCase) Rows(ctx context.Context, f Filter) ([]repository.JournalRow, error) {
	return uc.txRepo.Query(ctx, repository.TransactionFilter{
		From:       f.From,
		To:         f.To,
		SearchText: f.SearchText,
	})
}

// WriteCSV queries and streams in one call. Callers that must not emit any
// bytes on a failed query (HTTP handlers setting headers) run Rows first and
// hand the result to WriteRows.
func (uc *UseCase) WriteCSV(ctx context.Context, w io.Writer, f Filter) error {
	rows, err := uc.Rows(ctx, f)
	if err != nil {
		return err
	}
	return uc.WriteRows(w, rows)
}

// WriteRows writes the export to w: header plus one record per journal entry,
// UTF-8 with byte-order mark so spreadsheets pick the encoding up.
func (uc *UseCase) WriteRows(w io.Writer, rows []repository.JournalRow) error {
	// The UTF8BOM encoder emits the mark in front of the first write.
	cw := csv.NewWriter(transform.NewWriter(w, unicode.UTF8BOM.NewEncoder()))
	cw.Comma = uc.opts.Separator

	header := []string{"Date", "Project", "Product", "Category", "Quantity", "Unit", "Location", "User", "Notes"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Date.Format(dateLayout),
			r.ProjectName,
			r.ProductName,
			r.Category,
			uc.formatQuantity(r.Quantity),
			r.Unit,
			r.LocationName,
			r.UserName,
			r.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (uc *UseCase) formatQuantity(q decimal.Decimal) string {
	s := q.String()
	if uc.opts.DecimalComma {
		s = strings.ReplaceAll(s, ".", ",")
	}
	return s
}
