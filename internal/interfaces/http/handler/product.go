package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// imageFormField is the multipart field carrying the product image
const imageFormField = "image"

// sniffLen is how much of an upload http.DetectContentType looks at
const sniffLen = 512

// tiffSignatures are the little- and big-endian TIFF headers, which http.DetectContentType does not know
var tiffSignatures = [][]byte{[]byte("II*\x00"), []byte("MM\x00*")}

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductResponse is returned after a product is created
type CreateProductResponse struct {
	Message string                      `json:"message"`
	Product *catalogapp.ProductResponse `json:"product"`
}

// UpdateProductResponse is returned after a product is replaced
type UpdateProductResponse struct {
	Message        string                      `json:"message"`
	UpdatedProduct *catalogapp.ProductResponse `json:"updatedProduct"`
}

// List handles GET /products and GET /all/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// Create handles POST /products as a multipart form with an image file
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	var image *catalogapp.ImageUpload
	header, err := c.FormFile(imageFormField)
	switch {
	case err == nil:
		file, err := header.Open()
		if err != nil {
			h.HandleBindError(c, err)
			return
		}
		defer file.Close()

		contentType, err := sniffContentType(file)
		if err != nil {
			h.HandleBindError(c, err)
			return
		}

		image = &catalogapp.ImageUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Body:        file,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// the service reports the missing image
	default:
		h.HandleBindError(c, err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, CreateProductResponse{
		Message: "Product created successfully",
		Product: product,
	})
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, UpdateProductResponse{
		Message:        "Product updated successfully",
		UpdatedProduct: product,
	})
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewMessageResponse("Product deleted successfully"))
}

// sniffContentType detects the type of an upload from its leading bytes and rewinds it.
// The client-declared Content-Type is ignored.
func sniffContentType(file io.ReadSeeker) (string, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	buf = buf[:n]
	for _, sig := range tiffSignatures {
		if bytes.HasPrefix(buf, sig) {
			return "image/tiff", nil
		}
	}
	return http.DetectContentType(buf), nil
}
