package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type AdminMiddleware struct {
	adminEmails map[string]bool
}

func NewAdminMiddleware(adminEmails []string) *AdminMiddleware {
	emails := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		emails[e] = true
	}
	return &AdminMiddleware{
		adminEmails: emails,
	}
}

// AdminOnly gates maintenance endpoints. Runs after Authenticate; the
// verified email must be on the configured allow list.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		email, _ := c.Get("email").(string)
		if email == "" || !m.adminEmails[email] {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}
		return next(c)
	}
}
