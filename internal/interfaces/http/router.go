package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Visits        VisitService
	Opportunities OpportunityService
	Sales         SaleService
	SalePDF       SalePDFService
	Expenses      ExpenseService
	KPIs          KPIService
	// Metrics se expone en /metrics; nil lo omite.
	Metrics     http.Handler
	ServiceName string
	Now         func() time.Time
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	visits := api.Group("/visitas")
	visitHandler := NewVisitHandler(deps.Visits, now)
	visits.Post("/", visitHandler.Create)
	visits.Get("/", visitHandler.List)
	visits.Get("/:id", visitHandler.GetByID)
	visits.Put("/:id", visitHandler.Update)
	visits.Delete("/:id", visitHandler.Delete)

	opps := api.Group("/oportunidades")
	oppHandler := NewOpportunityHandler(deps.Opportunities, now)
	opps.Post("/", oppHandler.Create)
	opps.Get("/", oppHandler.List)
	opps.Get("/activas", oppHandler.ListActive)
	opps.Get("/:id", oppHandler.GetByID)
	opps.Put("/:id", oppHandler.Update)
	opps.Delete("/:id", oppHandler.Delete)
	opps.Post("/:id/perdida", oppHandler.MarkLost)

	// Ventas: sin DELETE.
	sales := api.Group("/ventas")
	saleHandler := NewSaleHandler(deps.Sales, deps.SalePDF, deps.Expenses, now)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/siguiente-id", saleHandler.NextID)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Put("/:id", saleHandler.Update)
	sales.Get("/:id/pdf", saleHandler.PDF)
	sales.Get("/:id/gastos", saleHandler.Expenses)

	expenses := api.Group("/gastos")
	expenseHandler := NewExpenseHandler(deps.Expenses)
	expenses.Get("/", expenseHandler.List)
	expenses.Get("/resumen", expenseHandler.Summary)
	expenses.Post("/upload", expenseHandler.Upload)

	kpiHandler := NewKPIHandler(deps.KPIs, now)
	api.Get("/kpis", kpiHandler.Summary)
	api.Get("/kpis/inicio", kpiHandler.Home)
	api.Get("/semana", kpiHandler.Week)
}
