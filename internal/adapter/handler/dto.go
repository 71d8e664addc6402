package handler

import (
	"time"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

type CreateShirtRequest struct {
	Name  *string  `json:"name"`
	Color string   `json:"color" binding:"required"`
	Size  string   `json:"size" binding:"required"`
	Price *float64 `json:"price" binding:"required,gte=0"`
	Stock *int     `json:"stock" binding:"required"`
}

func (r CreateShirtRequest) toDomain() domain.NewShirt {
	return domain.NewShirt{
		Name:  r.Name,
		Color: r.Color,
		Size:  r.Size,
		Price: *r.Price,
		Stock: *r.Stock,
	}
}

type EditShirtRequest struct {
	Name  *string  `json:"name"`
	Color *string  `json:"color" binding:"omitempty,min=1"`
	Size  *string  `json:"size" binding:"omitempty,min=1"`
	Price *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock *int     `json:"stock"`
}

func (r EditShirtRequest) toDomain() domain.ShirtPatch {
	return domain.ShirtPatch{
		Name:  r.Name,
		Color: r.Color,
		Size:  r.Size,
		Price: r.Price,
		Stock: r.Stock,
	}
}

// AdjustStockRequest carries a signed delta; zero is allowed, absence is not.
type AdjustStockRequest struct {
	Amount *int `json:"amount" binding:"required"`
}

type ShirtResponse struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name,omitempty"`
	Color     string    `json:"color"`
	Size      string    `json:"size"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newShirtResponse(s domain.Shirt) ShirtResponse {
	return ShirtResponse{
		ID:        s.ID,
		Name:      s.Name,
		Color:     s.Color,
		Size:      s.Size,
		Price:     s.Price,
		Stock:     s.Stock,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func newShirtListResponse(shirts []domain.Shirt) []ShirtResponse {
	out := make([]ShirtResponse, 0, len(shirts))
	for _, s := range shirts {
		out = append(out, newShirtResponse(s))
	}
	return out
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
