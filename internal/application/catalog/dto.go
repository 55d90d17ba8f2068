package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest holds the text fields of a multipart product creation form.
// Price arrives as form text and is parsed by the service.
type CreateProductRequest struct {
	Name        string `form:"name" binding:"max=200"`
	Category    string `form:"category" binding:"max=100"`
	Price       string `form:"price"`
	Size        string `form:"size" binding:"max=50"`
	Description string `form:"description" binding:"max=2000"`
}

// UpdateProductRequest represents a full product replacement.
// Price accepts a JSON number or a numeric string. Image is a plain URL overwrite; nil keeps the current image.
type UpdateProductRequest struct {
	Name        string           `json:"name" binding:"max=200"`
	Category    string           `json:"category" binding:"max=100"`
	Price       *decimal.Decimal `json:"price"`
	Size        string           `json:"size" binding:"max=50"`
	Image       *string          `json:"image" binding:"omitempty,max=2048"`
	Description string           `json:"description" binding:"max=2000"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Size        string    `json:"size"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Size:        p.Size,
		Image:       p.Image,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products to ProductResponses
func ToProductResponses(products []*catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
