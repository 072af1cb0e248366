// Package users serves registration, user administration and the caller's
// own profile.
package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/storelab/commerce-api/app/auth"
	"github.com/storelab/commerce-api/app/validation"
	"github.com/storelab/commerce-api/models"
)

const (
	msgNotFound      = "Not found."
	msgUsernameTaken = "A user with that username already exists."
	msgEmailTaken    = "A user with that email already exists."
)

type UserStore interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	List() ([]models.User, error)
	Update(user *models.User) error
	Delete(user *models.User) error
}

type Handler struct {
	repo UserStore
}

func NewHandler(repo UserStore) *Handler {
	return &Handler{repo: repo}
}

// userInput uses pointers so a PATCH can tell omitted fields from blank ones.
type userInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

func (in *userInput) validate(required bool) validation.Errors {
	errs := validation.Errors{}
	validation.CheckString(errs, "first_name", in.FirstName, required, validation.MaxLen(150))
	validation.CheckString(errs, "last_name", in.LastName, required, validation.MaxLen(150))
	validation.CheckString(errs, "username", in.Username, required, validation.MaxLen(150))
	validation.CheckString(errs, "email", in.Email, required, validation.Email)
	validation.CheckString(errs, "password", in.Password, required)
	return errs
}

// HandleRegister is the public self-service signup. Role flags are read-only:
// whatever the payload claims, new accounts start unprivileged.
func (h *Handler) HandleRegister(c *gin.Context) {
	var input userInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}
	if errs := input.validate(true); !errs.Empty() {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	user := models.User{
		FirstName: *input.FirstName,
		LastName:  *input.LastName,
		Username:  *input.Username,
		Email:     *input.Email,
		Password:  string(hash),
	}
	if err := h.repo.Create(&user); err != nil {
		if writeDuplicateError(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": "User created successfully."})
}

// HandleList returns every account; the route is admin-gated.
func (h *Handler) HandleList(c *gin.Context) {
	users, err := h.repo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// HandleGet serves GET /users/<id>/. The target is located before the
// ownership policy runs: a missing id is 404 for everyone.
func (h *Handler) HandleGet(c *gin.Context) {
	target, ok := h.locateTarget(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, target)
}

// HandlePatch serves PATCH /users/<id>/.
func (h *Handler) HandlePatch(c *gin.Context) {
	target, ok := h.locateTarget(c)
	if !ok {
		return
	}
	h.applyPatch(c, target)
}

// HandleDelete serves DELETE /users/<id>/.
func (h *Handler) HandleDelete(c *gin.Context) {
	target, ok := h.locateTarget(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(target); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleProfile serves GET /profile/ for the authenticated caller.
func (h *Handler) HandleProfile(c *gin.Context) {
	caller, _ := auth.CurrentUser(c)
	c.JSON(http.StatusOK, caller)
}

// HandleProfilePatch serves PATCH /profile/.
func (h *Handler) HandleProfilePatch(c *gin.Context) {
	caller, _ := auth.CurrentUser(c)
	h.applyPatch(c, caller)
}

// HandleProfileDelete serves DELETE /profile/.
func (h *Handler) HandleProfileDelete(c *gin.Context) {
	caller, _ := auth.CurrentUser(c)
	if err := h.repo.Delete(caller); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// locateTarget resolves the <id> path parameter and enforces the
// owner-or-admin policy, writing the response itself on failure.
func (h *Handler) locateTarget(c *gin.Context) (*models.User, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
		return nil, false
	}
	target, err := h.repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		}
		return nil, false
	}

	caller, _ := auth.CurrentUser(c)
	if !auth.OwnerOrAdmin(caller, target.ID) {
		auth.Forbidden(c)
		return nil, false
	}
	return target, true
}

// applyPatch updates the supplied fields on target. A new password is
// re-hashed; role flags cannot be changed here.
func (h *Handler) applyPatch(c *gin.Context, target *models.User) {
	var input userInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}
	if errs := input.validate(false); !errs.Empty() {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	if input.FirstName != nil {
		target.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		target.LastName = *input.LastName
	}
	if input.Username != nil {
		target.Username = *input.Username
	}
	if input.Email != nil {
		target.Email = *input.Email
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
			return
		}
		target.Password = string(hash)
	}

	if err := h.repo.Update(target); err != nil {
		if writeDuplicateError(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, target)
}

func writeDuplicateError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, models.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, validation.Errors{"username": {msgUsernameTaken}})
	case errors.Is(err, models.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, validation.Errors{"email": {msgEmailTaken}})
	default:
		return false
	}
	return true
}
