package middleware

import (
	"strings"

	"github.com/TranHoa21/Mufilika/pkg/errs"
	"github.com/TranHoa21/Mufilika/pkg/response"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

// AdminOnly guards the tour-management endpoints with an HS256 bearer token.
func AdminOnly(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errs.ErrNotLoggedIn
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || claims["role"] != "admin" {
				return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
			}

			c.Set("user", token)

			return next(c)
		}
	}
}
