package services

import (
	"context"
	"fmt"

	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/repositories"
)

// ProductService handles admin operations on products and categories.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
	pub        events.Publisher
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categories repositories.CategoryRepository, pub events.Publisher) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
		pub:        pub,
	}
}

// GetAllProducts retrieves all products, inactive ones included.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product in an existing category.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if _, err := s.categories.GetByID(product.CategoryID); err != nil {
		return fmt.Errorf("category of product: %w", err)
	}
	product.Category = nil
	if err := s.repo.Create(product); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityProducts, events.ActionInsert, product.ID, product)
	return nil
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if _, err := s.categories.GetByID(product.CategoryID); err != nil {
		return fmt.Errorf("category of product: %w", err)
	}
	product.Category = nil
	if err := s.repo.Update(product); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityProducts, events.ActionUpdate, product.ID, product)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityProducts, events.ActionDelete, id, nil)
	return nil
}

func (s *ProductService) GetAllCategories() ([]models.Category, error) {
	return s.categories.GetAll()
}

func (s *ProductService) GetCategoryByID(id string) (*models.Category, error) {
	return s.categories.GetByID(id)
}

func (s *ProductService) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.categories.Create(category); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityCategories, events.ActionInsert, category.ID, category)
	return nil
}

func (s *ProductService) UpdateCategory(ctx context.Context, category *models.Category) error {
	if err := s.categories.Update(category); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityCategories, events.ActionUpdate, category.ID, category)
	return nil
}

// DeleteCategory removes an empty category.
func (s *ProductService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(id); err != nil {
		return err
	}
	announce(ctx, s.pub, events.EntityCategories, events.ActionDelete, id, nil)
	return nil
}
