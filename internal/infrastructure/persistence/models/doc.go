// Package models contains GORM persistence models that map to the storefront tables
// (admin, products, orders, logos). They are separate from domain entities so the domain
// layer stays free of ORM tags; each model converts with ToDomain / FromDomain.
package models
