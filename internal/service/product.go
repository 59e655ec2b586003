package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
	"github.com/wemitwqw/calorie-tracker-go/internal/store"
)

// ProductService synchronizes the product catalog with the backend.
type ProductService struct {
	products *store.ProductStore
	sessions *store.SessionStore
	gateway  ProductGateway
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewProductService creates a product service over the injected gateway.
func NewProductService(products *store.ProductStore, sessions *store.SessionStore, gateway ProductGateway, logger zerolog.Logger) *ProductService {
	return &ProductService{
		products: products,
		sessions: sessions,
		gateway:  gateway,
		validate: validator.New(),
		logger:   logger.With().Str("service", "product").Logger(),
	}
}

// FetchProducts loads the user's catalog, ordered by name.
func (s *ProductService) FetchProducts(ctx context.Context) error {
	userID := s.sessions.UserID()
	if userID == "" {
		return ErrNoSession
	}
	products, err := s.gateway.ListProducts(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("fetch products failed")
		return err
	}
	s.products.SetProducts(products)
	return nil
}

// AddProduct inserts a catalog product for the current user. A product with
// a non-positive serving size is rejected before any remote call, since
// amount ratios divide by it.
func (s *ProductService) AddProduct(ctx context.Context, product models.NewProduct) (models.Product, error) {
	userID := s.sessions.UserID()
	if userID == "" {
		return models.Product{}, ErrNoSession
	}
	product.UserID = userID
	if err := s.validate.Struct(product); err != nil {
		return models.Product{}, fmt.Errorf("invalid product: %w", err)
	}

	created, err := s.gateway.InsertProduct(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Msg("add product failed")
		return models.Product{}, err
	}
	s.products.AddProduct(created)
	return created, nil
}

// UpdateProduct patches a product remotely and merges the server-returned
// row into the store.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error {
	if s.sessions.UserID() == "" {
		return ErrNoSession
	}
	if err := s.validate.Struct(patch); err != nil {
		return fmt.Errorf("invalid product update: %w", err)
	}
	updated, err := s.gateway.UpdateProduct(ctx, id, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("update product failed")
		return err
	}
	s.products.UpdateProduct(id, models.PatchFromProduct(updated))
	return nil
}

// DeleteProduct deletes remotely, then removes the product from the store.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if s.sessions.UserID() == "" {
		return ErrNoSession
	}
	if err := s.gateway.DeleteProduct(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("delete product failed")
		return err
	}
	s.products.DeleteProduct(id)
	return nil
}

// Search updates the store's query; the filtered view is derived from it on
// access. Purely local, no remote call.
func (s *ProductService) Search(query string) {
	s.products.SetSearchQuery(query)
}
