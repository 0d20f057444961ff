package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
)

// parseID lee :id como entero positivo.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id debe ser un entero positivo", domain.ErrInvalidInput)
	}
	return id, nil
}

// parsePage lee ?page=&limit=; la validación de rango queda en el caso de uso.
func parsePage(c *fiber.Ctx) (dto.PageQuery, error) {
	var q dto.PageQuery
	if err := c.QueryParser(&q); err != nil {
		return q, fmt.Errorf("%w: page y limit deben ser enteros", domain.ErrInvalidInput)
	}
	return q, nil
}

// parseBody decodifica el JSON del cuerpo.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	return nil
}
