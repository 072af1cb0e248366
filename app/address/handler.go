// Package address serves the caller's single shipping address under
// /profile/address/.
package address

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storelab/commerce-api/app/auth"
	"github.com/storelab/commerce-api/app/validation"
	"github.com/storelab/commerce-api/models"
)

const (
	msgNotFound  = "Not found."
	msgDuplicate = "Address has already been added to this user."
)

type AddressStore interface {
	Create(address *models.Address) error
	GetByUserID(userID uint) (*models.Address, error)
	Update(address *models.Address) error
	Delete(address *models.Address) error
}

type Handler struct {
	repo AddressStore
}

func NewHandler(repo AddressStore) *Handler {
	return &Handler{repo: repo}
}

type addressInput struct {
	State         *string `json:"state"`
	City          *string `json:"city"`
	Neighbourhood *string `json:"neighbourhood"`
	Street        *string `json:"street"`
	ZipCode       *string `json:"zip_code"`
	Number        *int    `json:"number"`
	Complement    *string `json:"complement"`
}

func (in *addressInput) validate(required bool) validation.Errors {
	errs := validation.Errors{}
	validation.CheckString(errs, "state", in.State, required,
		validation.StateChoice(models.BrazilianStates))
	validation.CheckString(errs, "city", in.City, required, validation.MaxLen(100))
	validation.CheckString(errs, "neighbourhood", in.Neighbourhood, required, validation.MaxLen(180))
	validation.CheckString(errs, "street", in.Street, required, validation.MaxLen(170))
	validation.CheckString(errs, "zip_code", in.ZipCode, required, validation.ZipCode)
	if in.Number == nil {
		if required {
			errs.Add("number", validation.MsgRequired)
		}
	} else if *in.Number < 0 {
		errs.Add("number", validation.MsgNonNegative)
	}
	// complement is optional but, when present, must not be blank
	if in.Complement != nil && *in.Complement != "" {
		validation.CheckString(errs, "complement", in.Complement, false, validation.MaxLen(170))
	}
	return errs
}

// HandleCreate serves POST /profile/address/. A second address for the same
// user is a conflict regardless of its field values.
func (h *Handler) HandleCreate(c *gin.Context) {
	caller, _ := auth.CurrentUser(c)

	var input addressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}
	if errs := input.validate(true); !errs.Empty() {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	address := models.Address{
		State:         *input.State,
		City:          *input.City,
		Neighbourhood: *input.Neighbourhood,
		Street:        *input.Street,
		ZipCode:       *input.ZipCode,
		Number:        *input.Number,
		UserID:        caller.ID,
	}
	if input.Complement != nil {
		address.Complement = *input.Complement
	}

	if err := h.repo.Create(&address); err != nil {
		if errors.Is(err, models.ErrAddressExists) {
			c.JSON(http.StatusConflict, gin.H{"detail": msgDuplicate})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, address)
}

// HandleGet serves GET /profile/address/.
func (h *Handler) HandleGet(c *gin.Context) {
	address, ok := h.locate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, address)
}

// HandlePatch serves PATCH /profile/address/ with partial field updates.
func (h *Handler) HandlePatch(c *gin.Context) {
	address, ok := h.locate(c)
	if !ok {
		return
	}

	var input addressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}
	if errs := input.validate(false); !errs.Empty() {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	if input.State != nil {
		address.State = *input.State
	}
	if input.City != nil {
		address.City = *input.City
	}
	if input.Neighbourhood != nil {
		address.Neighbourhood = *input.Neighbourhood
	}
	if input.Street != nil {
		address.Street = *input.Street
	}
	if input.ZipCode != nil {
		address.ZipCode = *input.ZipCode
	}
	if input.Number != nil {
		address.Number = *input.Number
	}
	if input.Complement != nil {
		address.Complement = *input.Complement
	}

	if err := h.repo.Update(address); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, address)
}

// HandleDelete serves DELETE /profile/address/.
func (h *Handler) HandleDelete(c *gin.Context) {
	address, ok := h.locate(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(address); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) locate(c *gin.Context) (*models.Address, bool) {
	caller, _ := auth.CurrentUser(c)
	address, err := h.repo.GetByUserID(caller.ID)
	if err != nil {
		if errors.Is(err, models.ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		}
		return nil, false
	}
	return address, true
}
