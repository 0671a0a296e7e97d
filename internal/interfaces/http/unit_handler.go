package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// UnitHandler lista de unidades de medida.
type UnitHandler struct {
	uc  *usecase.UnitUseCase
	log *logger.Logger
}

// NewUnitHandler construye el handler.
func NewUnitHandler(uc *usecase.UnitUseCase, log *logger.Logger) *UnitHandler {
	return &UnitHandler{uc: uc, log: log}
}

// List GET /api/units
func (h *UnitHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(out)
}

// Create POST /api/units
func (h *UnitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusCreated, "unidad registrada", out)
}

// Delete DELETE /api/units/:id (admin). 409 si algún artículo usa la unidad.
func (h *UnitHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusOK, "unidad eliminada", nil)
}
