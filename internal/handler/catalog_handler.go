package handler

import (
	"errors"
	"net/http"

	"modstore/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CatalogHandler struct {
	productRepo *repository.ProductRepository
}

func NewCatalogHandler(productRepo *repository.ProductRepository) *CatalogHandler {
	return &CatalogHandler{productRepo: productRepo}
}

func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.productRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mods": products})
}

func (h *CatalogHandler) Get(c *gin.Context) {
	p, err := h.productRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "mod not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load mod"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mod": p})
}
