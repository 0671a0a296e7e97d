package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// LoanHandler libro de préstamos.
type LoanHandler struct {
	uc  *inventory.LoanUseCase
	log *logger.Logger
}

// NewLoanHandler construye el handler.
func NewLoanHandler(uc *inventory.LoanUseCase, log *logger.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar préstamo
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLoanRequest  true  "Préstamo"
// @Success      201   {object}  dto.MutationResult
// @Failure      409   {object}  dto.MutationResult  "stock insuficiente"
// @Failure      422   {object}  dto.MutationResult
// @Router       /api/loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLoanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateLoan(c.Context(), GetActor(c), in)
	if err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusCreated, "préstamo registrado", out)
}

// Update godoc
// @Summary      Editar préstamo
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del préstamo"
// @Param        body  body  dto.UpdateLoanRequest  true  "Préstamo"
// @Success      200   {object}  dto.MutationResult
// @Failure      409   {object}  dto.MutationResult
// @Router       /api/loans/{id} [put]
func (h *LoanHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLoanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateLoan(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusOK, "préstamo actualizado", out)
}

// Return godoc
// @Summary      Registrar devolución
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del préstamo"
// @Success      200  {object}  dto.MutationResult
// @Failure      409  {object}  dto.MutationResult  "ya devuelto"
// @Router       /api/loans/{id}/return [post]
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	out, err := h.uc.ReturnLoan(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusOK, "préstamo devuelto", out)
}

// Delete DELETE /api/loans/:id (admin)
func (h *LoanHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteLoan(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return mutationFailed(c, h.log, err)
	}
	return mutationOK(c, fiber.StatusOK, "préstamo eliminado", nil)
}

// GetByID GET /api/loans/:id
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetLoan(c.Context(), c.Params("id"))
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(out)
}

// List GET /api/loans?status=outstanding|returned
func (h *LoanHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListLoans(c.Context(), c.Query("status"), pageFrom(c))
	if err != nil {
		return readFailed(c, h.log, err)
	}
	return c.JSON(out)
}
