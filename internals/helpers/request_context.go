// file: internals/helpers/request_context.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetUserUUID membaca user_id yang diset middleware auth di Locals.
// uuid.Nil artinya request tanpa identitas (seharusnya tertolak di middleware).
func GetUserUUID(c *fiber.Ctx) uuid.UUID {
	if raw := c.Locals("user_id"); raw != nil {
		if s, ok := raw.(string); ok {
			if parsed, err := uuid.Parse(s); err == nil {
				return parsed
			}
		}
	}
	return uuid.Nil
}

// GetUserRole membaca role dari Locals (diisi middleware auth).
func GetUserRole(c *fiber.Ctx) string {
	if raw := c.Locals("userRole"); raw != nil {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return ""
}

// HasAnyRole: cek role user terhadap daftar role.
func HasAnyRole(c *fiber.Ctx, roles []string) bool {
	role := GetUserRole(c)
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Params(name)))
}
