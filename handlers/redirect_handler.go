// Package handlers provides HTTP request handlers for the link shortener service.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-link-shortener/services"
)

const (
	errShortURLNotFound   = "Short URL not found"
	errRequestTimeout     = "Request timed out"
	errRetrievingURL      = "Error retrieving URL"
	errInvalidRedirectURL = "Invalid redirect URL"
)

// RedirectURL redirects a short code to its long URL and counts the hit.
func (h *URLHandler) RedirectURL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	code := c.Param("code")

	record, err := h.service.ResolveURL(ctx, code)
	if err != nil {
		h.handleRedirectError(c, err, code)
		return
	}

	// Validate the stored URL to prevent open redirects
	if err := h.validate.Var(record.LongURL, "url"); err != nil {
		h.handleInvalidRedirectURL(c, code, record.LongURL)
		return
	}

	h.logRedirect(c, code, record.LongURL)
	c.Redirect(http.StatusMovedPermanently, record.LongURL)
}

func (h *URLHandler) handleRedirectError(c *gin.Context, err error, code string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		h.logger.Info("Short URL not found", zap.String("code", code))
		c.JSON(http.StatusNotFound, gin.H{"error": errShortURLNotFound})
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("Request timed out", zap.String("code", code))
		c.JSON(http.StatusRequestTimeout, gin.H{"error": errRequestTimeout})
	case errors.Is(err, services.ErrStoreUnavailable):
		h.logger.Error("Storage unavailable", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": storeUnavailable})
	default:
		h.logger.Error("Error retrieving URL", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errRetrievingURL})
	}
}

func (h *URLHandler) handleInvalidRedirectURL(c *gin.Context, code, longURL string) {
	h.logger.Warn("Invalid stored URL",
		zap.String("code", code),
		zap.String("long_url", longURL))
	c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRedirectURL})
}

func (h *URLHandler) logRedirect(c *gin.Context, code, longURL string) {
	h.logger.Info("Redirecting",
		zap.String("code", code),
		zap.String("long_url", longURL),
		zap.String("ip", c.ClientIP()),
		zap.String("user_agent", c.Request.UserAgent()))
}
