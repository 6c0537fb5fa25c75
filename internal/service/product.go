package service

import (
	"context"
	"fmt"

	"billing-cache-api/internal/model"
	"billing-cache-api/internal/repository"

	log "github.com/sirupsen/logrus"
)

// ProductService handles product create and update. Products are not
// mirrored in the cache.
type ProductService struct {
	repo    repository.ProductRepository
	journal *Journal
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, journal *Journal) *ProductService {
	return &ProductService{repo: repo, journal: journal}
}

// List returns every product ordered by brand and name.
func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListProductsByName(ctx)
}

// Get returns a product.
func (s *ProductService) Get(ctx context.Context, code int) (*model.Product, error) {
	return s.repo.FindProductByCode(ctx, code)
}

// Create stores a new product coded count(products)+1. The count and the
// insert are not atomic, and a deleted product would make the next code
// collide; the unique index rejects such inserts.
func (s *ProductService) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	in = in.Trimmed()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	count, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}

	product := model.Product{
		ProductCode: count + 1,
		Brand:       in.Brand,
		Name:        in.Name,
		Description: in.Description,
		UnitPrice:   in.UnitPrice,
		Stock:       in.Stock,
	}
	if err := s.repo.InsertProduct(ctx, product); err != nil {
		return nil, err
	}

	log.WithField("product_code", product.ProductCode).Info("[ProductService] Product created")
	s.journal.Record(ctx, model.AuditProductCreate, productSubject(product.ProductCode), product.DisplayName())
	return &product, nil
}

// Update changes a product's editable fields.
func (s *ProductService) Update(ctx context.Context, code int, in model.ProductInput) (*model.Product, error) {
	in = in.Trimmed()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	product, err := s.repo.UpdateProduct(ctx, code, in)
	if err != nil {
		return nil, err
	}

	log.WithField("product_code", code).Info("[ProductService] Product updated")
	s.journal.Record(ctx, model.AuditProductUpdate, productSubject(code), product.DisplayName())
	return product, nil
}

func productSubject(code int) string {
	return fmt.Sprintf("product %d", code)
}
