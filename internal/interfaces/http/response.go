package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

const internalMessage = "error interno, intente más tarde"

// classify traduce un error de aplicación a status HTTP, código y mensaje visible.
// Los errores no clasificados son fallos del almacenamiento: el detalle solo va al log.
func classify(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		if _, ok := domain.AsValidation(err); ok {
			return fiber.StatusUnprocessableEntity, "VALIDATION", "datos inválidos"
		}
		return fiber.StatusBadRequest, "INVALID_INPUT", err.Error()
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", err.Error()
	case domain.IsConflict(err):
		return fiber.StatusConflict, "CONFLICT", err.Error()
	}
	return fiber.StatusInternalServerError, "INTERNAL", internalMessage
}

// mutationOK responde el resultado uniforme de una mutación exitosa.
func mutationOK(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.MutationResult{Success: true, Message: message, Data: data})
}

// mutationFailed responde el resultado uniforme de una mutación rechazada.
func mutationFailed(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, _, message := classify(err)
	res := dto.MutationResult{Success: false, Message: message}
	if ve, ok := domain.AsValidation(err); ok {
		res.FieldErrors = ve.Fields
	}
	if status == fiber.StatusInternalServerError {
		logStoreError(c, log, err)
	}
	return c.Status(status).JSON(res)
}

// readFailed responde un error de consulta.
func readFailed(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code, message := classify(err)
	if status == fiber.StatusInternalServerError {
		logStoreError(c, log, err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.MutationResult{Success: false, Message: "cuerpo inválido"})
}

func logStoreError(c *fiber.Ctx, log *logger.Logger, err error) {
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", requestID(c)).
		Str("user_id", GetUserID(c)).
		Msg("error de almacenamiento")
}

// pageFrom lee limit/offset de la query.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	return page
}
