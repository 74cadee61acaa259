package handler

import (
	"errors"
	"log"
	"net/http"

	"modstore/internal/repository"
	"modstore/internal/service"
	"modstore/pkg/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	productRepo *repository.ProductRepository
	store       storage.Client
}

func NewAdminHandler(productRepo *repository.ProductRepository, store storage.Client) *AdminHandler {
	return &AdminHandler{productRepo: productRepo, store: store}
}

// UploadArtifact replaces the current build of a mod. The object lands at
// the canonical path download links point at, so the new build is live as
// soon as the upload finishes.
func (h *AdminHandler) UploadArtifact(c *gin.Context) {
	productID := c.Param("id")
	if _, err := h.productRepo.GetByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mod not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load mod"})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()
	path := service.ArtifactPath(productID)
	if err := h.store.Upload(c.Request.Context(), file, path); err != nil {
		log.Printf("artifact upload: %s (%s, %d bytes): %v", path, header.Filename, header.Size, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploaded": path, "size": header.Size})
}
