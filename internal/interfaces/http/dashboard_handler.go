package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// DashboardHandler tablero y conciliación.
type DashboardHandler struct {
	uc        *appanalytics.DashboardUseCase
	reconcile *inventory.ReconcileUseCase
	log       *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, reconcile *inventory.ReconcileUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, reconcile: reconcile, log: log}
}

// GetSummary devuelve los conteos del tablero.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (items, total_stock, out_of_stock, outstanding_loans).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(summary)
}

// Reconcile recalcula el stock de todo el catálogo desde el historial (admin, solo lectura).
// GET /api/reports/reconciliation
func (h *DashboardHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.reconcile.ReconcileAll(c.Context(), GetActor(c))
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(report)
}

// ReconcileItem igual que Reconcile para un solo artículo.
// GET /api/reports/reconciliation/:id
func (h *DashboardHandler) ReconcileItem(c *fiber.Ctx) error {
	res, err := h.reconcile.ReconcileItem(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(res)
}
