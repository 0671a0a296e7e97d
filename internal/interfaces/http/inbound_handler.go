package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// InboundHandler libro de entradas.
type InboundHandler struct {
	uc  *inventory.InboundUseCase
	log *logger.Logger
}

// NewInboundHandler construye el handler.
func NewInboundHandler(uc *inventory.InboundUseCase, log *logger.Logger) *InboundHandler {
	return &InboundHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar entrada de stock
// @Tags         inbound
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInboundRequest  true  "Entrada"
// @Success      201   {object}  dto.MutationResult
// @Failure      422   {object}  dto.MutationResult
// @Router       /api/inbound [post]
func (h *InboundHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInboundRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateInbound(c.Context(), GetActor(c), in)
	if err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusCreated, "entrada registrada", out)
}

// Update godoc
// @Summary      Editar entrada de stock
// @Description  Aplica al stock la diferencia de cantidad; 409 si el stock quedaría negativo.
// @Tags         inbound
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la entrada"
// @Param        body  body  dto.UpdateInboundRequest  true  "Entrada"
// @Success      200   {object}  dto.MutationResult
// @Failure      409   {object}  dto.MutationResult
// @Router       /api/inbound/{id} [put]
func (h *InboundHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInboundRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateInbound(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusOK, "entrada actualizada", out)
}

// Delete DELETE /api/inbound/:id (admin). 409 "stock insuficiente para revertir".
func (h *InboundHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteInbound(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusOK, "entrada eliminada", nil)
}

// GetByID GET /api/inbound/:id
func (h *InboundHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetInbound(c.Context(), c.Params("id"))
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(out)
}

// List GET /api/inbound?item_id=&limit=&offset=
func (h *InboundHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListInbound(c.Context(), c.Query("item_id"), pageFrom(c))
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(out)
}
