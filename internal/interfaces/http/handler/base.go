// Package handler implements the HTTP endpoints of the storefront admin backend.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context, falling back to the header
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a 200 response with data as the body
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with data as the body
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a 200 acknowledgement
func (h *BaseHandler) Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(message))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// HandleError converts err to an HTTP response.
// Server-side failures are logged with their cause and answered with a generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeInternal, dto.MsgInternalError)
		return
	}

	if dto.IsServerError(domainErr.Code) {
		logger.GetGinLogger(c).Error("Request failed",
			zap.String("code", domainErr.Code),
			zap.Error(err),
			zap.NamedError("cause", errors.Unwrap(domainErr)),
		)
		message := dto.MsgInternalError
		if domainErr.Code == shared.CodeStoreNotReady || domainErr.Code == shared.CodeUploadFailed {
			message = domainErr.Message
		}
		h.ErrorWithCode(c, domainErr.Code, message)
		return
	}

	h.ErrorWithCode(c, domainErr.Code, domainErr.Message)
}

// HandleBindError converts a request binding failure to an HTTP response
func (h *BaseHandler) HandleBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.ErrorWithCode(c, dto.ErrCodeRequestTooLarge, dto.MsgTooLarge)
		return
	}
	if msg, ok := middleware.ValidationMessage(err); ok {
		h.ErrorWithCode(c, shared.CodeValidation, msg)
		return
	}
	h.ErrorWithCode(c, dto.ErrCodeBadRequest, dto.MsgBadRequest)
}
