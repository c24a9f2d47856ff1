package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/boundary-resolver/internal/pkg/errors"
	"github.com/boundary-resolver/internal/pkg/utils"
)

// AdminTokenHeader - заголовок с токеном администратора
const AdminTokenHeader = "X-Admin-Token"

// AdminToken защищает админские маршруты. Пустой токен в конфиге
// отключает их (404), неверный токен - 401.
func AdminToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return utils.SendError(c, errors.ErrAdminDisabled)
		}
		got := c.Get(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return utils.SendError(c, errors.ErrUnauthorized)
		}
		return c.Next()
	}
}
