package models

import (
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name        string  `gorm:"type:varchar(200);not null"`
	Category    string  `gorm:"type:varchar(100);not null"`
	Price       float64 `gorm:"not null;default:0"`
	Size        string  `gorm:"type:varchar(50);not null"`
	Image       string  `gorm:"type:text"`
	Description string  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Category:    m.Category,
		Price:       m.Price,
		Size:        m.Size,
		Image:       m.Image,
		Description: m.Description,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Size:        p.Size,
		Image:       p.Image,
		Description: p.Description,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
