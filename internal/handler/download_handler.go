package handler

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"modstore/config"
	"modstore/internal/middleware"
	"modstore/internal/service"

	"github.com/gin-gonic/gin"
)

type DownloadHandler struct {
	cfg         *config.Config
	downloadSvc *service.DownloadService
}

func NewDownloadHandler(cfg *config.Config, downloadSvc *service.DownloadService) *DownloadHandler {
	return &DownloadHandler{cfg: cfg, downloadSvc: downloadSvc}
}

// Download redirects an entitled user to a short-lived signed artifact URL.
// Browser-facing: failures redirect to the storefront rather than returning
// JSON, and an unauthenticated hit preserves the intended destination.
func (h *DownloadHandler) Download(c *gin.Context) {
	productID := c.Param("productId")
	claims := middleware.GetClaims(c)
	if claims == nil {
		dest := "/api/v1/download/" + productID
		c.Redirect(http.StatusFound, h.cfg.Frontend.BaseURL+h.cfg.Frontend.SignInPath+"?callbackUrl="+url.QueryEscape(dest))
		return
	}
	signed, err := h.downloadSvc.Authorize(c.Request.Context(), claims, productID, service.RequestContext{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			dest := "/api/v1/download/" + productID
			c.Redirect(http.StatusFound, h.cfg.Frontend.BaseURL+h.cfg.Frontend.SignInPath+"?callbackUrl="+url.QueryEscape(dest))
		case errors.Is(err, service.ErrNotEntitled):
			log.Printf("download: user %d attempted %s without purchase", claims.UserID, productID)
			c.Redirect(http.StatusFound, h.cfg.Frontend.BaseURL+h.cfg.Frontend.StorePath+"?error=not_purchased")
		case errors.Is(err, service.ErrArtifactMissing):
			log.Printf("download: artifact missing for %s: %v", productID, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "download not available, contact support"})
		default:
			log.Printf("download: user %d product %s: %v", claims.UserID, productID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate download link"})
		}
		return
	}
	c.Redirect(http.StatusFound, signed)
}
