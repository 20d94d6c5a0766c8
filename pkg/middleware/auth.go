package middleware

import (
	"net/http"
	"strings"

	"github.com/qwaszxg/api-yamdb/internal/data/entity"
	"github.com/qwaszxg/api-yamdb/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate validates the Bearer JWT and puts the caller's identity and
// role into the request context. Routes without this middleware are public.
func Authenticate(jwtManager *utils.JWTManager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				logger.Warn("Invalid access token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			userID, err := utils.ParseUUID(claims.Subject)
			if err != nil {
				logger.Warn("Token subject is not a UUID", zap.String("sub", claims.Subject))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			// Set context with user identity and role
			ctx := utils.SetUserContext(r.Context(), userID, claims.Username, claims.Role, claims.Superuser)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin gates a route to admin role or superuser flag. Must run after
// Authenticate.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if role != string(entity.RoleAdmin) && !utils.IsSuperuserFromContext(r.Context()) {
				username, _ := utils.GetUsernameFromContext(r.Context())
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("username", username),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
