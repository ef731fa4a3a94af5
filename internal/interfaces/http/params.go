package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/gestion-comercial-api/internal/domain"
)

// uuidParam lee un parámetro de ruta y exige que sea un UUID.
func uuidParam(c *fiber.Ctx, name string) (string, error) {
	v := c.Params(name)
	if _, err := uuid.Parse(v); err != nil {
		return "", fmt.Errorf("%w: %s debe ser un UUID", domain.ErrInvalidInput, name)
	}
	return v, nil
}

// sendFile responde un adjunto con su content type.
func sendFile(c *fiber.Ctx, body []byte, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
