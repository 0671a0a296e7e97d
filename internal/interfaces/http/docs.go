package http

import (
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
)

// Docs Swagger UI en /docs; la especificación se sirve desde specFile (JSON estático).
func Docs(specFile, title string) fiber.Handler {
	return swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: specFile,
		Path:     "docs",
		Title:    title,
	})
}
