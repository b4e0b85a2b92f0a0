// Package handlers provides HTTP request handlers for the link shortener service.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"go-link-shortener/admission"
	"go-link-shortener/config"
	"go-link-shortener/services"
	"go-link-shortener/types"
)

const (
	invalidRequestBody  = "Invalid request body"
	invalidURLProvided  = "Invalid URL provided"
	errorCreatingURL    = "Error creating short URL"
	errorRetrievingURL  = "Error retrieving URL"
	errorTimeout        = "Request timed out"
	storageCapacityFull = "Storage capacity reached"
	storeUnavailable    = "Storage temporarily unavailable"
	shortURLNotFound    = "Short URL not found"
	foreignShortURL     = "Short URL was not issued by this service"
)

// URLHandlerInterface defines the methods that a URL handler should implement.
type URLHandlerInterface interface {
	CreateShortURL(c *gin.Context)
	ReverseLookup(c *gin.Context)
	QRCode(c *gin.Context)
	RedirectURL(c *gin.Context)
	HealthCheck(c *gin.Context)
}

// URLHandler holds the dependencies for handling URL-related requests.
type URLHandler struct {
	service  services.URLService
	validate *validator.Validate
	config   *config.Config
	logger   *zap.Logger
}

// NewURLHandler creates and returns a new URLHandler instance.
func NewURLHandler(ctx context.Context, service services.URLService, cfg *config.Config, logger *zap.Logger) (URLHandlerInterface, error) {
	if service == nil {
		return nil, errors.New("service cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	handler := &URLHandler{
		service:  service,
		validate: validator.New(),
		config:   cfg,
		logger:   logger,
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return handler, nil
	}
}

// handleError translates service errors into HTTP responses. Admission
// rejections carry their own category and reason; the rest map through
// customMessages.
func (h *URLHandler) handleError(c *gin.Context, err error, customMessages map[error]string) {
	var rejection *admission.Rejection
	if errors.As(err, &rejection) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    rejection.Reason,
			"category": rejection.Category,
		})
		return
	}

	var statusCode int
	var errorMessage string

	switch {
	case errors.Is(err, services.ErrNotFound):
		statusCode = http.StatusNotFound
		errorMessage = customMessages[services.ErrNotFound]
	case errors.Is(err, services.ErrForeignShortURL):
		statusCode = http.StatusUnprocessableEntity
		errorMessage = customMessages[services.ErrForeignShortURL]
	case errors.Is(err, services.ErrCapacityReached):
		statusCode = http.StatusInsufficientStorage
		errorMessage = customMessages[services.ErrCapacityReached]
	case errors.Is(err, services.ErrStoreUnavailable):
		statusCode = http.StatusServiceUnavailable
		errorMessage = customMessages[services.ErrStoreUnavailable]
	case errors.Is(err, context.DeadlineExceeded):
		statusCode = http.StatusRequestTimeout
		errorMessage = customMessages[context.DeadlineExceeded]
	default:
		h.logger.Error("Unexpected error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errorMessage = customMessages[err]
		if errorMessage == "" {
			errorMessage = "Internal server error"
		}
	}

	c.JSON(statusCode, gin.H{"error": errorMessage})
}

// CreateShortURL admits the submitted URL and responds with its short form.
// Resubmitting an already shortened URL returns the existing short form.
func (h *URLHandler) CreateShortURL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	var input types.URLRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Error("Error decoding request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidRequestBody})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		h.logger.Error("Invalid input", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidURLProvided})
		return
	}

	record, err := h.service.ShortenURL(ctx, input.URL)
	if err != nil {
		h.handleError(c, err, map[error]string{
			services.ErrCapacityReached:  storageCapacityFull,
			services.ErrStoreUnavailable: storeUnavailable,
			context.DeadlineExceeded:     errorTimeout,
			nil:                          errorCreatingURL,
		})
		return
	}

	c.JSON(http.StatusCreated, types.URLResponse{
		ShortURL: h.shortURL(record.Code),
		LongURL:  record.LongURL,
	})
}

// shortURL renders the public form of a short code.
func (h *URLHandler) shortURL(code string) string {
	return h.config.BaseURL + code
}
