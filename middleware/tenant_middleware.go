package middleware

import (
	"github.com/gofiber/fiber/v2"
	apimodels "talent-backend/models/api"
)

const tenantHeader = "X-Tenant-ID"

const tenantKey = "tenant_id"

// TenantRequired - каждая операция выполняется в рамках тенанта,
// запрос без идентификатора тенанта отклоняется
func TenantRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		tenantID := ctx.Get(tenantHeader)
		if tenantID == "" {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан заголовок " + tenantHeader))
		}
		ctx.Locals(tenantKey, tenantID)
		return ctx.Next()
	}
}

func GetTenantID(ctx *fiber.Ctx) string {
	if tenantID, ok := ctx.Locals(tenantKey).(string); ok {
		return tenantID
	}
	return ""
}
