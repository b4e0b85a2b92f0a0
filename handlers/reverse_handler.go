// Package handlers provides HTTP request handlers for the link shortener service.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-link-shortener/services"
	"go-link-shortener/types"
)

// ReverseLookup resolves a short URL (or bare short code) back to its record
// without counting a hit.
func (h *URLHandler) ReverseLookup(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	var input types.ReverseRequest
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

	record, err := h.service.GetURLDetails(ctx, input.ShortURL)
	if err != nil {
		h.handleError(c, err, map[error]string{
			services.ErrNotFound:         shortURLNotFound,
			services.ErrForeignShortURL:  foreignShortURL,
			services.ErrStoreUnavailable: storeUnavailable,
			context.DeadlineExceeded:     errorTimeout,
			nil:                          errorRetrievingURL,
		})
		return
	}

	c.JSON(http.StatusOK, types.URLDetailsResponse{
		ShortURL:  h.shortURL(record.Code),
		LongURL:   record.LongURL,
		CreatedAt: record.CreatedAt,
		HitCount:  record.HitCount,
	})
}
