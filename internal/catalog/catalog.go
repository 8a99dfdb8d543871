// Package catalog covers product browsing and the owner-scoped admin CRUD.
package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/model"
)

type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	List(ctx context.Context, filter bson.M, skip, limit int64) ([]model.Product, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Insert(ctx context.Context, product *model.Product) error
	Save(ctx context.Context, product *model.Product) error
	DeleteOwned(ctx context.Context, id, ownerID primitive.ObjectID) error
}

type Pagination struct {
	TotalPages int  `json:"totalPages"`
	CurrPage   int  `json:"currPage"`
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

type Page struct {
	Products   []model.Product `json:"products"`
	Pagination Pagination      `json:"pagination"`
}

// NewPagination mirrors the storefront's page arithmetic: ceil(total/perPage)
// pages, prev/next flags relative to the current page.
func NewPagination(total int64, page, perPage int) Pagination {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return Pagination{
		TotalPages: totalPages,
		CurrPage:   page,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

type ProductInput struct {
	Title       string  `json:"title" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required"`
	ImageURL    string  `json:"imageUrl"`
}

type Service struct {
	products ProductStore
	perPage  int
}

func NewService(products ProductStore, perPage int) *Service {
	return &Service{products: products, perPage: perPage}
}

func (s *Service) List(ctx context.Context, page int) (Page, error) {
	return s.list(ctx, bson.M{}, page)
}

// ListOwned returns the requesting user's own products for the admin view.
func (s *Service) ListOwned(ctx context.Context, ownerID primitive.ObjectID, page int) (Page, error) {
	return s.list(ctx, bson.M{"userId": ownerID}, page)
}

func (s *Service) list(ctx context.Context, filter bson.M, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	skip := int64(page-1) * int64(s.perPage)
	products, err := s.products.List(ctx, filter, skip, int64(s.perPage))
	if err != nil {
		return Page{}, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return Page{}, err
	}
	return Page{Products: products, Pagination: NewPagination(total, page, s.perPage)}, nil
}

func (s *Service) Find(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in ProductInput, ownerID primitive.ObjectID) (*model.Product, error) {
	if in.ImageURL == "" {
		return nil, model.NewValidationError("imageUrl", "an image is required")
	}
	product := &model.Product{
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		UserID:      ownerID,
	}
	if err := s.products.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update edits a product; only its owner may do so.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in ProductInput, requester primitive.ObjectID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.UserID != requester {
		return nil, model.ErrUnauthorized
	}

	product.Title = in.Title
	product.Price = in.Price
	product.Description = in.Description
	if in.ImageURL != "" {
		product.ImageURL = in.ImageURL
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id, requester primitive.ObjectID) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}
	return s.products.DeleteOwned(ctx, id, requester)
}
