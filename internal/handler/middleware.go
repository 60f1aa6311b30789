package handler

import (
	"net/http"
	"strings"

	"github.com/arashpm/user-service/internal/dto"
	"github.com/arashpm/user-service/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware is the request-authentication gate. It always verifies
// with every check enabled; the flag-configurable decode path is never
// reachable from here.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authorization header is required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := authService.VerifyAccess(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("claims", claims)

		c.Next()
	}
}

// StaffMiddleware restricts a route to staff accounts. The staff flag
// lives on the user record, not in token claims, so disabling an admin
// takes effect immediately rather than at token expiry.
func StaffMiddleware(userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := userService.GetUser(c.Request.Context(), c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "User not found",
			})
			c.Abort()
			return
		}

		if !user.IsStaff {
			c.JSON(http.StatusForbidden, dto.ErrorResponse{
				Error:   "Forbidden",
				Message: "Staff access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
