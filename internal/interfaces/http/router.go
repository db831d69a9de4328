package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bouwadmin/voorraad-api/internal/application/export"
	"github.com/bouwadmin/voorraad-api/internal/application/journal"
	"github.com/bouwadmin/voorraad-api/internal/application/ledger"
	"github.com/bouwadmin/voorraad-api/internal/application/usecase"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	LocationUC *usecase.LocationUseCase
	ProjectUC  *usecase.ProjectUseCase
	Booking    BookingService
	Ledger     *ledger.UseCase
	Journal    *journal.UseCase
	Importer   ImportService
	Export     *export.UseCase
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catalog
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Deactivate)

	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.ListActive)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Deactivate)

	projects := api.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projects.Get("/", projectHandler.ListActive)

	// Booking engine
	bookingHandler := NewBookingHandler(deps.Booking)
	api.Post("/bookings", bookingHandler.Book)

	// Stock
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger)
	stock.Post("/receipts", bookingHandler.Receive)
	stock.Post("/transfers", bookingHandler.Transfer)
	stock.Get("/balance", stockHandler.Balance)
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/integrity", stockHandler.Integrity)
	stock.Get("/locations/:id", stockHandler.BalancesAtLocation)

	// Journal
	journalHandler := NewJournalHandler(deps.Journal)
	api.Get("/transactions", journalHandler.List)
	api.Post("/transactions/delete", journalHandler.Delete)

	// Bulk import / export
	importHandler := NewImportHandler(deps.Importer)
	api.Post("/import", importHandler.Import)
	exportHandler := NewExportHandler(deps.Export)
	api.Get("/export", exportHandler.Export)
}
