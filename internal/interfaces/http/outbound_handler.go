package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// OutboundHandler libro de salidas.
type OutboundHandler struct {
	uc  *inventory.OutboundUseCase
	log *logger.Logger
}

// NewOutboundHandler construye el handler.
func NewOutboundHandler(uc *inventory.OutboundUseCase, log *logger.Logger) *OutboundHandler {
	return &OutboundHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar salida de stock
// @Tags         outbound
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOutboundRequest  true  "Salida"
// @Success      201   {object}  dto.MutationResult
// @Failure      409   {object}  dto.MutationResult  "stock insuficiente"
// @Router       /api/outbound [post]
func (h *OutboundHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOutboundRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateOutbound(c.Context(), GetActor(c), in)
	if err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusCreated, "salida registrada", out)
}

// Update godoc
// @Summary      Editar salida de stock
// @Description  item_id distinto mueve la salida a otro artículo en una sola transacción.
// @Tags         outbound
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la salida"
// @Param        body  body  dto.UpdateOutboundRequest  true  "Salida"
// @Success      200   {object}  dto.MutationResult
// @Failure      409   {object}  dto.MutationResult
// @Router       /api/outbound/{id} [put]
func (h *OutboundHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOutboundRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateOutbound(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusOK, "salida actualizada", out)
}

// Delete DELETE /api/outbound/:id (admin)
func (h *OutboundHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteOutbound(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusOK, "salida eliminada", nil)
}

// GetByID GET /api/outbound/:id
func (h *OutboundHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetOutbound(c.Context(), c.Params("id"))
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(out)
}

// List GET /api/outbound?item_id=&limit=&offset=
func (h *OutboundHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListOutbound(c.Context(), c.Query("item_id"), pageFrom(c))
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(out)
}
