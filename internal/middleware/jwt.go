// Package middleware provides reusable HTTP middleware: access-token
// validation, role enforcement and Redis-backed rate limiting.  Token
// issuance lives in the separate auth service; this service only
// verifies tokens signed with the shared secret.
package middleware

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and role claims into the request
// context.  The provided secret must match the one the auth service signs
// with.  Handlers access the authenticated actor via c.Get("user_id")
// (uint64) and c.Get("role") (string).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                // Only HMAC-signed tokens are accepted; reject anything else.
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // Normalize the subject to a uint64 user id.  JSON numbers
            // arrive as float64; string subjects are parsed.
            var userID uint64
            switch sub := claims["sub"].(type) {
            case float64:
                userID = uint64(sub)
            case string:
                n, err := strconv.ParseUint(sub, 10, 64)
                if err != nil {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
                }
                userID = n
            default:
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
            }
            role, _ := claims["role"].(string)

            c.Set("user_id", userID)
            c.Set("role", role)
            return next(c)
        }
    }
}
