package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dress-orders-api/models"
)

// ListCatalog handles GET /api/v1/catalog
func ListCatalog(c *gin.Context) {
	respondOK(c, http.StatusOK, models.Catalog())
}

// GetCatalogItem handles GET /api/v1/catalog/:id
func GetCatalogItem(c *gin.Context) {
	item, ok := models.FindCatalogItem(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DRESS_NOT_FOUND",
				"message": "Dress not found",
			},
		})
		return
	}

	respondOK(c, http.StatusOK, item)
}
