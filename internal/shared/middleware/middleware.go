package middleware

import (
	"net/http"

	"campusevents/internal/shared/utils/response"
	"campusevents/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderUserID identifies the caller. Set by the campus API gateway,
	// which owns authentication.
	HeaderUserID = "X-User-ID"

	// HeaderUserRole carries the caller's role as asserted by the gateway.
	HeaderUserRole = "X-User-Role"
)

// RequireCaller validates the caller identity header and stores the parsed
// user id and role in the request context.
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderUserID)
		if raw == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "X-User-ID header is required", nil, nil)
			c.Abort()
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "X-User-ID must be a valid UUID", nil, nil)
			c.Abort()
			return
		}

		role := c.GetHeader(HeaderUserRole)
		if role == "" {
			role = string(users.RoleUser)
		}

		c.Set("user_id", userID.String())
		c.Set("user_role", role)
		c.Next()
	}
}

// RequireRole middleware checks if the caller has the required role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		if userRole.(string) != requiredRole {
			response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(string(users.RoleAdmin))
}

// CallerID returns the authenticated caller's id from the context. The
// boolean is false when RequireCaller did not run on this route.
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// IsAdmin reports whether the caller carries the admin role.
func IsAdmin(c *gin.Context) bool {
	role, exists := c.Get("user_role")
	return exists && role.(string) == string(users.RoleAdmin)
}
