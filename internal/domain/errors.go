package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Domain errors (no external dependencies).
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicate           = errors.New("duplicate resource")
	ErrConflict            = errors.New("conflict with current state")
	ErrConcurrencyConflict = errors.New("concurrent update detected, retry the operation")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrAmbiguousReference  = errors.New("reference matches more than one candidate")
)

// ShortLine describes one booking line that failed the stock check.
type ShortLine struct {
	ProductID    string
	ProductName  string
	LocationID   string
	LocationName string
	Available    decimal.Decimal
	Requested    decimal.Decimal
}

// InsufficientStockError carries every failing line of a booking so the caller
// can show the exact shortfalls. The booking it belongs to has no partial
// effect: either all lines commit or none do.
type InsufficientStockError struct {
	Lines []ShortLine
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, fmt.Sprintf("%s at %s: available %s, requested %s",
			l.ProductName, l.LocationName, l.Available.String(), l.Requested.String()))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInsufficientStock) work on the typed error.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
