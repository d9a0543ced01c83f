package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
)

// LocalModules guarda en Locals los módulos vigentes de la empresa del token.
const LocalModules = "company_modules"

// moduleSet lo implementa *usecase.ModuleService.
type moduleSet interface {
	ActiveModules(ctx context.Context, companyID string) (map[string]bool, error)
}

// RequireModule corta la petición si la empresa no tiene contratado el módulo
// (billing, einvoice). Va después de AuthMiddleware. Los módulos se consultan
// una vez por petición aunque se encadenen varios guards.
func RequireModule(module string, modules moduleSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return unauthorized(c)
		}
		active, ok := c.Locals(LocalModules).(map[string]bool)
		if !ok {
			var err error
			active, err = modules.ActiveModules(c.UserContext(), companyID)
			if err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
					Code:    "MODULE_CHECK_FAILED",
					Message: "no se pudieron consultar los módulos de la empresa",
				})
			}
			c.Locals(LocalModules, active)
		}
		if !active[module] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "la empresa no tiene activo el módulo " + module,
			})
		}
		return c.Next()
	}
}
