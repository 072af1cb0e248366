package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storelab/commerce-api/models"
)

const userContextKey = "currentUser"

// Response bodies kept wire-compatible with the clients of the original API.
const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgInvalidToken  = "Given token not valid for any token type"
	msgForbidden     = "You do not have permission to perform this action."
)

// UserProvider loads the account behind a verified token. Ownership checks
// rely on the stored record, not on token claims, so role changes take effect
// without waiting for tokens to expire.
type UserProvider interface {
	GetByID(id uint) (*models.User, error)
}

// Authenticate resolves an optional Bearer token into the current user. A
// missing header leaves the request unauthenticated for later gates to judge;
// a present-but-invalid token is rejected outright.
func Authenticate(tokens *TokenManager, users UserProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == header || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgInvalidToken})
			return
		}

		claims, err := tokens.ParseAccess(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgInvalidToken})
			return
		}
		user, err := users.GetByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgInvalidToken})
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// SetCurrentUser attaches the user to the request context. Authenticate uses
// it after token verification; handler tests use it to act as a given caller.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the authenticated user set by Authenticate, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// RequireAuthenticated aborts with 401 when no valid credential was
// presented.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgNoCredentials})
			return
		}
		c.Next()
	}
}

// RequireAdmin guards mutating catalog operations: unauthenticated callers
// get 401, authenticated callers without the superuser role get 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgNoCredentials})
			return
		}
		if !user.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": msgForbidden})
			return
		}
		c.Next()
	}
}

// OwnerOrAdmin is the per-object policy for user-scoped resources: the
// caller must own the resource or hold the superuser role. It runs after the
// resource has been located, so probing a nonexistent resource yields 404
// rather than leaking existence through a 403.
func OwnerOrAdmin(caller *models.User, ownerID uint) bool {
	return caller.ID == ownerID || caller.IsSuperuser
}

// Forbidden writes the standard 403 body.
func Forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": msgForbidden})
}
