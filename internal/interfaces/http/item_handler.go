package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ItemHandler catálogo de artículos (protegido).
type ItemHandler struct {
	uc  *inventory.CatalogUseCase
	log *logger.Logger
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.CatalogUseCase, log *logger.Logger) *ItemHandler {
	return &ItemHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear artículo
// @Description  Con initial_stock > 0 registra además una entrada "Stock inicial".
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.MutationResult
// @Failure      409   {object}  dto.MutationResult
// @Failure      422   {object}  dto.MutationResult
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateItem(c.Context(), GetActor(c), in)
	if err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusCreated, "artículo creado", out)
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListItems(c.Context(), pageFrom(c))
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Corregir artículo (admin)
// @Description  Sobrescribe stock_on_hand sin conciliar con el historial.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.MutationResult
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateItem(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusOK, "artículo actualizado", out)
}

// Delete godoc
// @Summary      Eliminar artículo y su historial (admin)
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.MutationResult
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteItem(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusOK, "artículo eliminado", nil)
}
