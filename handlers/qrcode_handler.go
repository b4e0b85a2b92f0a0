// Package handlers provides HTTP request handlers for the link shortener service.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"go-link-shortener/services"
)

const errorRenderingQR = "Error rendering QR code"

// qrImageSize is the side length in pixels of generated QR code images.
const qrImageSize = 256

// QRCode renders a PNG QR code for an issued short URL. Unknown codes return
// 404 rather than an image pointing nowhere.
func (h *URLHandler) QRCode(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.RequestTimeout)
	defer cancel()

	code := c.Param("code")

	if _, err := h.service.GetURLDetails(ctx, code); err != nil {
		h.handleError(c, err, map[error]string{
			services.ErrNotFound:         shortURLNotFound,
			services.ErrStoreUnavailable: storeUnavailable,
			context.DeadlineExceeded:     errorTimeout,
			nil:                          errorRetrievingURL,
		})
		return
	}

	png, err := qrcode.Encode(h.shortURL(code), qrcode.Medium, qrImageSize)
	if err != nil {
		h.logger.Error("Failed to render QR code", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorRenderingQR})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
