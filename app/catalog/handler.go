// Package catalog serves the product catalog and coordinates the remote
// image store behind product writes.
package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storelab/commerce-api/models"
)

const (
	msgNotFound      = "Not found."
	msgProductExists = "Product already exists."
	msgServerError   = "Internal Server Error"
)

type Response struct {
	Total    int64     `json:"total"`
	Products []Product `json:"products"`
}

type Product struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	Stock       uint       `json:"stock"`
	Discount    uint       `json:"discount"`
	Slug        string     `json:"slug"`
	ImageURL    string     `json:"image_url"`
	Categories  []Category `json:"categories,omitempty"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Handler struct {
	products ProductStore
	svc      *Service
}

func NewHandler(products ProductStore, svc *Service) *Handler {
	return &Handler{products: products, svc: svc}
}

// HandleCatalog serves the public listing, ordered by price, with
// offset/limit pagination.
func (h *Handler) HandleCatalog(c *gin.Context) {
	offset := 0
	limit := 10

	if oStr := c.Query("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}
	if lStr := c.Query("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	products, total, err := h.products.List(offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgServerError})
		return
	}

	c.JSON(http.StatusOK, Response{
		Total:    total,
		Products: mapProducts(products),
	})
}

// HandleAdminList serves GET /product/create/: every product ordered by
// price. The route is admin-gated.
func (h *Handler) HandleAdminList(c *gin.Context) {
	products, err := h.products.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgServerError})
		return
	}
	c.JSON(http.StatusOK, mapProducts(products))
}

// HandleCreate serves POST /product/create/ (admin, multipart). The slug
// conflict is reported before any write or remote call happens.
func (h *Handler) HandleCreate(c *gin.Context) {
	form, errs := parseProductForm(c, true)
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	product := models.Product{
		Name:  *form.Name,
		Price: *form.Price,
		Stock: uint(*form.Stock),
		Slug:  *form.Slug,
	}
	if form.Description != nil {
		product.Description = *form.Description
	}
	if form.Discount != nil {
		product.Discount = uint(*form.Discount)
	}

	err := h.svc.Create(c.Request.Context(), &product, form.Image, form.Categories)
	switch {
	case errors.Is(err, models.ErrProductExists):
		c.JSON(http.StatusConflict, gin.H{"detail": msgProductExists})
	case errors.Is(err, ErrUpstream):
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgServerError})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgServerError})
	default:
		c.JSON(http.StatusCreated, mapProduct(product))
	}
}

// HandleGet serves GET /product/<slug>/ (public).
func (h *Handler) HandleGet(c *gin.Context) {
	product, ok := h.locate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, mapProduct(*product))
}

// HandlePatch serves PATCH /product/<slug>/ (admin, multipart, partial).
func (h *Handler) HandlePatch(c *gin.Context) {
	product, ok := h.locate(c)
	if !ok {
		return
	}

	form, errs := parseProductForm(c, false)
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return
	}

	if form.Name != nil {
		product.Name = *form.Name
	}
	if form.Description != nil {
		product.Description = *form.Description
	}
	if form.Price != nil {
		product.Price = *form.Price
	}
	if form.Stock != nil {
		product.Stock = uint(*form.Stock)
	}
	if form.Discount != nil {
		product.Discount = uint(*form.Discount)
	}
	if form.Slug != nil {
		product.Slug = *form.Slug
	}

	err := h.svc.Update(c.Request.Context(), product, form.Image, form.Categories)
	switch {
	case errors.Is(err, models.ErrProductExists):
		c.JSON(http.StatusConflict, gin.H{"detail": msgProductExists})
	case errors.Is(err, models.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
	case errors.Is(err, ErrUpstream):
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgServerError})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgServerError})
	default:
		c.JSON(http.StatusOK, mapProduct(*product))
	}
}

// HandleDelete serves DELETE /product/<slug>/ (admin). The product row stays
// intact unless the remote asset is confirmed destroyed.
func (h *Handler) HandleDelete(c *gin.Context) {
	product, ok := h.locate(c)
	if !ok {
		return
	}

	err := h.svc.Delete(c.Request.Context(), product)
	switch {
	case errors.Is(err, models.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
	case errors.Is(err, ErrUpstream):
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgServerError})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgServerError})
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *Handler) locate(c *gin.Context) (*models.Product, bool) {
	product, err := h.products.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": msgServerError})
		}
		return nil, false
	}
	return product, true
}

func mapProduct(p models.Product) Product {
	categories := make([]Category, len(p.Categories))
	for i, cat := range p.Categories {
		categories[i] = Category{ID: cat.ID, Name: cat.Name}
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Discount:    p.Discount,
		Slug:        p.Slug,
		ImageURL:    p.Image.ImageURL,
		Categories:  categories,
	}
}

func mapProducts(products []models.Product) []Product {
	mapped := make([]Product, len(products))
	for i, p := range products {
		mapped[i] = mapProduct(p)
	}
	return mapped
}
