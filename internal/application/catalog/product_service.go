package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultUploadTimeout bounds an image upload when no timeout is configured
const DefaultUploadTimeout = 30 * time.Second

// ProductService handles product business operations
type ProductService struct {
	productRepo   catalog.ProductRepository
	images        ImageStorage
	uploadTimeout time.Duration
	logger        *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	images ImageStorage,
	uploadTimeout time.Duration,
	logger *zap.Logger,
) *ProductService {
	if uploadTimeout <= 0 {
		uploadTimeout = DefaultUploadTimeout
	}
	return &ProductService{
		productRepo:   productRepo,
		images:        images,
		uploadTimeout: uploadTimeout,
		logger:        logger,
	}
}

// ListProducts returns every product, newest first
func (s *ProductService) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// CreateProduct validates the form, uploads the image and stores the product
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest, image *ImageUpload) (*ProductResponse, error) {
	price, err := catalog.ParsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	fields := catalog.ProductFields{
		Name:        req.Name,
		Category:    req.Category,
		Price:       price,
		Size:        req.Size,
		Description: req.Description,
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	if image == nil || image.Body == nil {
		return nil, shared.NewValidationError("Image file is required")
	}
	ext, ok := imageExtension(image.ContentType)
	if !ok {
		return nil, shared.NewValidationError("Image must be a JPEG, PNG, GIF, WebP, BMP or TIFF file")
	}

	key := "products/" + uuid.New().String() + ext
	url, err := s.upload(ctx, key, image)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(fields, url)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.discardImage(ctx, key)
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("image_key", key),
	)

	resp := ToProductResponse(product)
	return &resp, nil
}

// UpdateProduct replaces every writable field of a product
func (s *ProductService) UpdateProduct(ctx context.Context, rawID string, req UpdateProductRequest) (*ProductResponse, error) {
	id, err := shared.ParseID(rawID, "product")
	if err != nil {
		return nil, err
	}
	if req.Price == nil {
		return nil, shared.NewValidationError("Name, category, price and size are required")
	}

	fields := catalog.ProductFields{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price.InexactFloat64(),
		Size:        req.Size,
		Description: req.Description,
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(fields, req.Image); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, rawID string) error {
	id, err := shared.ParseID(rawID, "product")
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) upload(ctx context.Context, key string, image *ImageUpload) (string, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	url, err := s.images.Upload(uploadCtx, key, image.Body, image.Size, image.ContentType)
	if err != nil {
		s.logger.Error("Image upload failed",
			zap.String("image_key", key),
			zap.String("filename", image.Filename),
			zap.Duration("timeout", s.uploadTimeout),
			zap.Error(err),
		)
		return "", shared.NewUploadError(err)
	}
	return url, nil
}

// discardImage removes an uploaded image whose product could not be stored
func (s *ProductService) discardImage(ctx context.Context, key string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.uploadTimeout)
	defer cancel()

	if err := s.images.Delete(cleanupCtx, key); err != nil {
		s.logger.Warn("Failed to remove orphaned image",
			zap.String("image_key", key),
			zap.Error(err),
		)
	}
}
