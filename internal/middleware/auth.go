package middleware

import (
	"net/http"
	"os"
	"strings"

	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxEmailKey   = "actorEmail"
	ctxUserIDKey  = "actorUserID"
	ctxIsAdminKey = "actorIsGlobalAdmin"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// GetAdminEmail returns the distinguished global-admin identity, configured
// out-of-band. Empty means no global admin exists.
func GetAdminEmail() string {
	return os.Getenv("ADMIN_EMAIL")
}

// Authenticate validates the identity provider's JWT and stores the asserted
// email, user id and global-admin flag on the request context. It does not
// authorize anything beyond "this is a known identity".
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try cookie first, fallback to Authorization header
		tokenString, cookieErr := c.Cookie("access_token")
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		email, ok := claims["email"].(string)
		if !ok || email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Email not found in token"))
			return
		}

		userID, _ := claims["sub"].(string)
		adminEmail := GetAdminEmail()

		c.Set(ctxEmailKey, email)
		c.Set(ctxUserIDKey, userID)
		c.Set(ctxIsAdminKey, adminEmail != "" && strings.EqualFold(email, adminEmail))

		c.Next()
	}
}

// RequireAdmin rejects any actor that is not the global admin. Must run after
// Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsGlobalAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: admin only"))
			return
		}
		c.Next()
	}
}

// ActorEmail returns the authenticated email set by Authenticate.
func ActorEmail(c *gin.Context) string {
	return c.GetString(ctxEmailKey)
}

// ActorUserID returns the identity provider subject, possibly empty.
func ActorUserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}

// IsGlobalAdmin reports whether the actor is the configured admin identity.
func IsGlobalAdmin(c *gin.Context) bool {
	return c.GetBool(ctxIsAdminKey)
}
