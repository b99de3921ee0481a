package products

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hoopscout/hoopscout-backend/pkg/db/models"
	pkgerrors "github.com/hoopscout/hoopscout-backend/pkg/errors"
)

// ProductDTO is the transport shape for a merch listing.
type ProductDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	PriceCents  int       `json:"price_cents"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Catalog is the read surface other components use to look up products.
type Catalog interface {
	Get(ctx context.Context, id uint) (*ProductDTO, error)
}

// Store is the persistence surface the service needs.
type Store interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
}

// Service serves the purchase page listing.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the active catalog.
func (s *Service) List(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "list products")
	}

	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, toDTO(&rows[i]))
	}
	return items, nil
}

// Get returns a single active product; inactive rows read as not found.
func (s *Service) Get(ctx context.Context, id uint) (*ProductDTO, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch product")
	}
	if !row.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	dto := toDTO(row)
	return &dto, nil
}

func toDTO(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
