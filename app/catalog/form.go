package catalog

import (
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/storelab/commerce-api/app/validation"
)

// productForm carries the parsed multipart fields of a product create or
// partial update. Pointers distinguish omitted fields from supplied ones.
type productForm struct {
	Name        *string
	Description *string
	Slug        *string
	Price       *decimal.Decimal
	Stock       *int
	Discount    *int
	Image       *ImagePayload
	Categories  []string
}

// parseProductForm reads and validates the request form. With required set,
// missing fields are errors (create); without it only supplied fields are
// validated (update).
func parseProductForm(c *gin.Context, required bool) (*productForm, validation.Errors) {
	errs := validation.Errors{}
	values := formValues(c)

	form := &productForm{}
	form.Name = stringField(errs, values, "name", required, validation.MaxLen(190))
	form.Description = stringField(errs, values, "description", false, validation.MaxLen(255))
	form.Slug = stringField(errs, values, "slug", required, validation.MaxLen(250))
	form.Price = decimalField(errs, values, "price", required)
	form.Stock = intField(errs, values, "stock", required)
	form.Discount = intField(errs, values, "discount", false)

	for key, fieldValues := range values {
		if strings.HasPrefix(key, "category_") && len(fieldValues) > 0 {
			form.Categories = append(form.Categories, fieldValues[0])
		}
	}

	if payload, err := imageField(c); err != nil {
		errs.Add("image", "Could not read the uploaded file.")
	} else {
		form.Image = payload
	}

	if !errs.Empty() {
		return nil, errs
	}
	return form, nil
}

func formValues(c *gin.Context) map[string][]string {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		return form.Value
	}
	_ = c.Request.ParseForm()
	return c.Request.PostForm
}

func fieldValue(values map[string][]string, key string) (string, bool) {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func stringField(errs validation.Errors, values map[string][]string, key string, required bool, rules ...validation.Rule) *string {
	var value *string
	if raw, ok := values[key]; ok && len(raw) > 0 {
		value = &raw[0]
	}
	validation.CheckString(errs, key, value, required, rules...)
	return value
}

func decimalField(errs validation.Errors, values map[string][]string, key string, required bool) *decimal.Decimal {
	raw, ok := fieldValue(values, key)
	if !ok {
		if required {
			errs.Add(key, validation.MsgRequired)
		}
		return nil
	}
	if strings.TrimSpace(raw) == "" {
		errs.Add(key, validation.MsgBlank)
		return nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		errs.Add(key, validation.MsgNumber)
		return nil
	}
	if value.IsNegative() {
		errs.Add(key, validation.MsgNonNegative)
		return nil
	}
	return &value
}

func intField(errs validation.Errors, values map[string][]string, key string, required bool) *int {
	raw, ok := fieldValue(values, key)
	if !ok {
		if required {
			errs.Add(key, validation.MsgRequired)
		}
		return nil
	}
	if strings.TrimSpace(raw) == "" {
		errs.Add(key, validation.MsgBlank)
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(key, validation.MsgInteger)
		return nil
	}
	if value < 0 {
		errs.Add(key, validation.MsgNonNegative)
		return nil
	}
	return &value
}

func imageField(c *gin.Context) (*ImagePayload, error) {
	header, err := c.FormFile("image")
	if err != nil {
		// no file attached
		return nil, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &ImagePayload{Data: data, Filename: header.Filename}, nil
}
