package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/storelab/commerce-api/models"
)

// ErrUpstream marks a failure of the remote image host. Writes guarded by a
// remote call abort entirely; nothing is retried.
var ErrUpstream = errors.New("image store failure")

type ProductStore interface {
	ExistsBySlug(slug string) (bool, error)
	CreateWithImage(product *models.Product, imageURL string) error
	GetBySlug(slug string) (*models.Product, error)
	List(offset, limit int) ([]models.Product, int64, error)
	ListAll() ([]models.Product, error)
	Update(product *models.Product) error
	DeleteWithImage(product *models.Product) error
}

type ImageRowStore interface {
	GetByProductID(productID uint) (*models.ProductImage, error)
	SetURL(image *models.ProductImage, url string) error
}

type CategoryStore interface {
	FindByNames(names []string) ([]models.Category, error)
	ReplaceForProduct(product *models.Product, categories []models.Category) error
}

// RemoteStore is the external image host: synchronous upload and destroy,
// each failable exactly once per attempt.
type RemoteStore interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	Destroy(ctx context.Context, imageURL string) error
	PlaceholderURL() string
}

// ImagePayload is an optional binary image attached to a create or update.
type ImagePayload struct {
	Data     []byte
	Filename string
}

// Service keeps a product's database row and its remotely hosted image in
// agreement across create, update and delete.
type Service struct {
	products   ProductStore
	images     ImageRowStore
	categories CategoryStore
	remote     RemoteStore
}

func NewService(products ProductStore, images ImageRowStore, categories CategoryStore, remote RemoteStore) *Service {
	return &Service{
		products:   products,
		images:     images,
		categories: categories,
		remote:     remote,
	}
}

// Create persists a new product with exactly one image row. The slug check
// runs before any remote call or local write. When a payload is supplied the
// upload happens before the insert, so an upload failure leaves no product
// behind; if the insert itself fails after a successful upload, the fresh
// remote asset is destroyed on a best-effort basis.
func (s *Service) Create(ctx context.Context, product *models.Product, image *ImagePayload, categoryNames []string) error {
	exists, err := s.products.ExistsBySlug(product.Slug)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrProductExists
	}

	imageURL := s.remote.PlaceholderURL()
	if image != nil {
		uploaded, err := s.remote.Upload(ctx, image.Data, image.Filename)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		imageURL = uploaded
	}

	if err := s.products.CreateWithImage(product, imageURL); err != nil {
		if image != nil {
			// don't leave an ownerless asset on the host
			_ = s.remote.Destroy(ctx, imageURL)
		}
		return err
	}

	return s.attachCategories(product, categoryNames)
}

// Update persists field changes and, when a payload is supplied, replaces the
// remote asset. The old asset is destroyed before the new one is uploaded; a
// destroy failure aborts the whole update so two live assets never pile up.
// Should the upload then fail, the image row falls back to the placeholder
// because the old asset is already gone.
func (s *Service) Update(ctx context.Context, product *models.Product, image *ImagePayload, categoryNames []string) error {
	if image != nil {
		row, err := s.images.GetByProductID(product.ID)
		if err != nil {
			return err
		}

		if row.ImageURL != s.remote.PlaceholderURL() {
			if err := s.remote.Destroy(ctx, row.ImageURL); err != nil {
				return fmt.Errorf("%w: %v", ErrUpstream, err)
			}
		}

		uploaded, err := s.remote.Upload(ctx, image.Data, image.Filename)
		if err != nil {
			_ = s.images.SetURL(row, s.remote.PlaceholderURL())
			return fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		if err := s.images.SetURL(row, uploaded); err != nil {
			return err
		}
		product.Image = *row
	}

	if err := s.products.Update(product); err != nil {
		return err
	}
	return s.attachCategories(product, categoryNames)
}

// Delete removes a product only after its remote asset is confirmed
// destroyed. The placeholder is shared and is never destroyed; deleting a
// placeholder-imaged product makes no remote call at all.
func (s *Service) Delete(ctx context.Context, product *models.Product) error {
	row, err := s.images.GetByProductID(product.ID)
	if err != nil {
		return err
	}

	if row.ImageURL != s.remote.PlaceholderURL() {
		if err := s.remote.Destroy(ctx, row.ImageURL); err != nil {
			return fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}

	return s.products.DeleteWithImage(product)
}

// attachCategories links the product to the existing categories matching the
// given names; unknown names are ignored, nothing is created.
func (s *Service) attachCategories(product *models.Product, names []string) error {
	if len(names) == 0 {
		return nil
	}
	categories, err := s.categories.FindByNames(names)
	if err != nil {
		return err
	}
	if err := s.categories.ReplaceForProduct(product, categories); err != nil {
		return err
	}
	product.Categories = categories
	return nil
}
