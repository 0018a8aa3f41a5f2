package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/orders"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/pkg/jwt"
)

// Pinger verificación de salud del almacenamiento; nil = siempre disponible.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC         *usecase.ItemUseCase
	CounterpartyUC *usecase.CounterpartyUseCase
	Adjustments    *inventory.AdjustmentUseCase
	Ledger         *inventory.LedgerUseCase
	Replenishment  *inventory.ReplenishmentUseCase
	Orders         *orders.Engine
	OrderQuery     *orders.QueryUseCase
	OrderPDF       *orders.PDFUseCase
	Storage        Pinger
	ServiceName    string
	JWTSecret      string
	JWTIssuer      string
	Logger         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger

	app.Get("/health", healthHandler(deps.ServiceName, deps.Storage))

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	allRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)
	stockRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	salesRoles := RequireRole(jwt.RoleAdmin, jwt.RoleVendedor)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Items + libro de inventario
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.Ledger, log)
	items.Post("/", stockRoles, itemHandler.Create)
	items.Get("/", allRoles, itemHandler.List)
	items.Get("/:id", allRoles, itemHandler.GetByID)
	items.Put("/:id", stockRoles, itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Deactivate)
	items.Get("/:id/ledger", stockRoles, itemHandler.Ledger)
	items.Get("/:id/ledger/export", stockRoles, itemHandler.ExportLedger)
	items.Get("/:id/reconciliation", stockRoles, itemHandler.Reconciliation)

	// Ajustes y reposición
	inv := api.Group("/inventory", stockRoles)
	invHandler := NewInventoryHandler(deps.Adjustments, deps.Replenishment, log)
	inv.Post("/adjustments", invHandler.Adjust)
	inv.Get("/adjustments", invHandler.ListAdjustments)
	inv.Get("/replenishment-list", invHandler.ReplenishmentList)

	// Clientes: cualquier rol los consulta y crea; solo admin los desactiva.
	customers := api.Group("/customers")
	customerHandler := NewCounterpartyHandler(deps.CounterpartyUC, entity.CounterpartyCustomer, log)
	customers.Post("/", allRoles, customerHandler.Create)
	customers.Get("/", allRoles, customerHandler.List)
	customers.Get("/:id", allRoles, customerHandler.GetByID)
	customers.Put("/:id", allRoles, customerHandler.Update)
	customers.Delete("/:id", adminOnly, customerHandler.Deactivate)

	suppliers := api.Group("/suppliers", stockRoles)
	supplierHandler := NewCounterpartyHandler(deps.CounterpartyUC, entity.CounterpartySupplier, log)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Deactivate)

	// Ventas
	sales := api.Group("/sales")
	saleHandler := NewOrderHandler(deps.Orders, deps.OrderQuery, deps.OrderPDF, entity.OrderTypeSale, log)
	sales.Post("/", salesRoles, saleHandler.Create)
	sales.Get("/", allRoles, saleHandler.List)
	sales.Get("/:id", allRoles, saleHandler.GetByID)
	sales.Get("/:id/pdf", allRoles, saleHandler.DownloadPDF)
	sales.Post("/:id/payments", salesRoles, saleHandler.RecordPayment)

	// Compras
	purchases := api.Group("/purchases", stockRoles)
	purchaseHandler := NewOrderHandler(deps.Orders, deps.OrderQuery, deps.OrderPDF, entity.OrderTypePurchase, log)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Get("/:id/pdf", purchaseHandler.DownloadPDF)
	purchases.Post("/:id/receive", purchaseHandler.Receive)
	purchases.Post("/:id/payments", purchaseHandler.RecordPayment)
}

// healthHandler godoc
// @Summary  Estado del servicio
// @Tags     health
// @Produce  json
// @Success  200
// @Failure  503
// @Router   /health [get]
func healthHandler(service string, storage Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if storage != nil {
			if err := storage.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": service, "storage": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	}
}
