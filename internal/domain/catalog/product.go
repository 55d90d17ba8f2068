package catalog

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product represents a storefront catalog item
type Product struct {
	shared.BaseEntity
	Name        string
	Category    string
	Price       float64
	Size        string
	Image       string // URL of the externally hosted image asset
	Description string
}

// ProductFields holds the writable attributes of a product
type ProductFields struct {
	Name        string
	Category    string
	Price       float64
	Size        string
	Description string
}

// NewProduct creates a new product from validated fields and an uploaded image URL
func NewProduct(fields ProductFields, imageURL string) (*Product, error) {
	fields = fields.normalize()
	if err := fields.validate(); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        fields.Name,
		Category:    fields.Category,
		Price:       fields.Price,
		Size:        fields.Size,
		Image:       imageURL,
		Description: fields.Description,
	}, nil
}

// Update replaces all writable attributes. A nil image keeps the current URL.
func (p *Product) Update(fields ProductFields, image *string) error {
	fields = fields.normalize()
	if err := fields.validate(); err != nil {
		return err
	}

	p.Name = fields.Name
	p.Category = fields.Category
	p.Price = fields.Price
	p.Size = fields.Size
	p.Description = fields.Description
	if image != nil {
		p.Image = strings.TrimSpace(*image)
	}
	p.UpdatedAt = time.Now()
	return nil
}

// Validate reports whether the fields describe a valid product
func (f ProductFields) Validate() error {
	return f.normalize().validate()
}

func (f ProductFields) normalize() ProductFields {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	f.Size = strings.TrimSpace(f.Size)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

func (f ProductFields) validate() error {
	if f.Name == "" || f.Category == "" || f.Size == "" {
		return shared.NewValidationError("Name, category, price and size are required")
	}
	if math.IsNaN(f.Price) || math.IsInf(f.Price, 0) {
		return shared.NewValidationError("Price must be a number")
	}
	if f.Price < 0 {
		return shared.NewValidationError("Price cannot be negative")
	}
	return nil
}

// ParsePrice converts a submitted price string into a float.
// Missing values and values that are not finite decimals are validation errors.
func ParsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, shared.NewValidationError("Name, category, price and size are required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, shared.NewValidationError("Price must be a number")
	}
	return d.InexactFloat64(), nil
}
