package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that rejects requests whose session
// role is not one of the given roles. Route-level gating only; the
// per-transition authorization table lives in the exam state machine.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFromContext(c.Request().Context())
			for _, required := range roles {
				if sess.Role == required {
					return next(c)
				}
			}
			names := make([]string, len(roles))
			for i, r := range roles {
				names[i] = string(r)
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(names, " or ")))
		}
	}
}

// RequireAnyClinicRole admits every valid clinic role. List and detail
// screens are visible to all staff; write operations narrow further.
func RequireAnyClinicRole() echo.MiddlewareFunc {
	return RequireRole(RoleDoctor, RoleSecretary, RoleAdmin, RoleSuperuser)
}
