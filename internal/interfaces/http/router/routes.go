package router

import (
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers groups every endpoint handler of the storefront backend
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Logo    *handler.LogoHandler
	Report  *handler.ReportHandler
}

// RegisterStorefrontRoutes registers the public surface of the backend on r
func RegisterStorefrontRoutes(r *Router, h Handlers) {
	system := NewDomainGroup("system", "")
	system.GET("/health", h.Health.Check)

	auth := NewDomainGroup("auth", "")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/login-with-id", h.Auth.LoginWithID)

	catalog := NewDomainGroup("catalog", "")
	catalog.GET("/products", h.Product.List)
	catalog.GET("/all/products", h.Product.List)
	catalog.POST("/products", h.Product.Create)
	catalog.PUT("/products/:id", h.Product.Update)
	catalog.DELETE("/products/:id", h.Product.Delete)

	api := NewDomainGroup("api", "/api")
	api.GET("/admins", h.Auth.ListAdmins)

	orders := api.Group("orders", "/orders")
	orders.GET("", h.Order.List)
	orders.GET("/:id", h.Order.Get)
	orders.POST("/:id/complete", h.Order.Complete)

	logos := api.Group("logos", "/logos")
	logos.GET("", h.Logo.List)
	logos.GET("/:id", h.Logo.Get)
	logos.POST("/:id/complete", h.Logo.Approve)

	api.GET("/total", h.Report.Totals)
	api.GET("/sales-stats", h.Report.SalesStats)

	r.Register(system).Register(auth).Register(catalog).Register(api)
}
