package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ecoloptim/ecoloptim-api/config"
	"github.com/ecoloptim/ecoloptim-api/internal/api"
	"github.com/ecoloptim/ecoloptim-api/internal/types"
)

// Define typed context keys
type contextKey string

const ClaimsKey contextKey = "authClaims"

// Authenticate is middleware to validate bearer session tokens. On success the
// decoded claims become the request's trusted identity; no store lookup is
// performed here.
func Authenticate(logger *slog.Logger, jwtCfg config.JWTConfig) func(next http.Handler) http.Handler {
	secretKey := []byte(jwtCfg.SecretKey)
	if len(secretKey) == 0 {
		logger.Error("FATAL: JWT Secret Key is not configured!")
		panic("JWT Secret Key cannot be empty")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.WarnContext(ctx, "Missing Authorization header")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Acces interzis. Token lipsește.")
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				l.WarnContext(ctx, "Invalid Authorization header format")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Acces interzis. Token lipsește.")
				return
			}
			tokenString := headerParts[1]

			claims := &types.Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secretKey, nil
			})

			// Expired, malformed and bad-signature tokens all get the same
			// response; the cause is only logged.
			if err != nil || !token.Valid {
				l.WarnContext(ctx, "Token parsing/validation failed", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Token invalid sau expirat.")
				return
			}

			ctx = context.WithValue(ctx, ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the trusted identity attached by Authenticate.
func ClaimsFromContext(ctx context.Context) (*types.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*types.Claims)
	return claims, ok
}

// RequireAdmin enforces the admin role. Runs AFTER the Authenticate middleware.
func RequireAdmin(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims, ok := ClaimsFromContext(ctx)
			if !ok {
				logger.ErrorContext(ctx, "Claims missing from context in RequireAdmin")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Acces interzis. Token lipsește.")
				return
			}
			if claims.Rol != types.RoleAdmin {
				logger.WarnContext(ctx, "Admin role required",
					slog.Int64("user_id", claims.UserID),
					slog.String("rol", claims.Rol),
				)
				api.ErrorResponse(w, r, http.StatusForbidden, "Acces interzis. Necesită rol de administrator.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
