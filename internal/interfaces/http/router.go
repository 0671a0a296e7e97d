package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	UnitUC      *usecase.UnitUseCase
	CatalogUC   *inventory.CatalogUseCase
	InboundUC   *inventory.InboundUseCase
	OutboundUC  *inventory.OutboundUseCase
	LoanUC      *inventory.LoanUseCase
	ReconcileUC *inventory.ReconcileUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	Logger      *logger.Logger
}

// Router registra las rutas de la API. La autorización por rol se aplica también en los casos de uso;
// RequireRole corta antes las rutas solo-admin.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger.Component("http")
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleStaff)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), ActiveSession(deps.AuthUC, log), anyRole)
	protected.Get("/auth/me", authHandler.Me)

	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC, log)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Post("/:id/deactivate", userHandler.Deactivate)

	units := protected.Group("/units")
	unitHandler := NewUnitHandler(deps.UnitUC, log)
	units.Get("/", unitHandler.List)
	units.Post("/", unitHandler.Create)
	units.Delete("/:id", adminOnly, unitHandler.Delete)

	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.CatalogUC, log)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", adminOnly, itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Delete)

	inbound := protected.Group("/inbound")
	inboundHandler := NewInboundHandler(deps.InboundUC, log)
	inbound.Get("/", inboundHandler.List)
	inbound.Post("/", inboundHandler.Create)
	inbound.Get("/:id", inboundHandler.GetByID)
	inbound.Put("/:id", inboundHandler.Update)
	inbound.Delete("/:id", adminOnly, inboundHandler.Delete)

	outbound := protected.Group("/outbound")
	outboundHandler := NewOutboundHandler(deps.OutboundUC, log)
	outbound.Get("/", outboundHandler.List)
	outbound.Post("/", outboundHandler.Create)
	outbound.Get("/:id", outboundHandler.GetByID)
	outbound.Put("/:id", outboundHandler.Update)
	outbound.Delete("/:id", adminOnly, outboundHandler.Delete)

	loans := protected.Group("/loans")
	loanHandler := NewLoanHandler(deps.LoanUC, log)
	loans.Get("/", loanHandler.List)
	loans.Post("/", loanHandler.Create)
	loans.Get("/:id", loanHandler.GetByID)
	loans.Put("/:id", loanHandler.Update)
	loans.Post("/:id/return", loanHandler.Return)
	loans.Delete("/:id", adminOnly, loanHandler.Delete)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ReconcileUC, log)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
	reports := protected.Group("/reports", adminOnly)
	reports.Get("/reconciliation", dashboardHandler.Reconcile)
	reports.Get("/reconciliation/:id", dashboardHandler.ReconcileItem)
}
