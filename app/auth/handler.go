package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/storelab/commerce-api/models"
)

const (
	msgBadCredentials = "No active account found with the given credentials"
	msgBadRefresh     = "Token is invalid or expired"
)

// CredentialsProvider looks up accounts for password login and token
// refresh.
type CredentialsProvider interface {
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}

// Handler serves token issuance and refresh.
type Handler struct {
	users  CredentialsProvider
	tokens *TokenManager
}

func NewHandler(users CredentialsProvider, tokens *TokenManager) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// HandleLogin exchanges username/password for an access/refresh pair. Unknown
// user and wrong password share one message so accounts cannot be enumerated.
func (h *Handler) HandleLogin(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}

	user, err := h.users.GetByUsername(input.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": msgBadCredentials})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": msgBadCredentials})
		return
	}

	access, refresh, err := h.tokens.IssuePair(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
}

// HandleRefresh exchanges a refresh token for a new access token. Claims are
// rebuilt from the stored user so revoked roles do not survive a refresh.
func (h *Handler) HandleRefresh(c *gin.Context) {
	var input struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}

	claims, err := h.tokens.ParseRefresh(input.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": msgBadRefresh})
		return
	}
	user, err := h.users.GetByID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": msgBadRefresh})
		return
	}

	access, err := h.tokens.IssueAccess(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}
