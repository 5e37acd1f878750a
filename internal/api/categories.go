package api

import (
	"net/http" // HTTP status codes

	"auction_system/internal/middleware" // Caller identity
	"auction_system/internal/service"    // Catalog workflows

	"github.com/gin-gonic/gin" // Gin web framework
)

// CategoryRequest is the create/rename body
type CategoryRequest struct {
	Title string `json:"title"`
}

// ListCategoriesHandler returns all categories (public, cached)
func ListCategoriesHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.Categories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Categories fetched successfully", "categories": categories})
	}
}

// CreateCategoryHandler adds a category (admin only)
func CreateCategoryHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Title is required")
			return
		}
		category, err := catalog.CreateCategory(c.Request.Context(), middleware.CurrentIdentity(c), req.Title)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Category created successfully", "category": category})
	}
}

// UpdateCategoryHandler renames a category the caller owns
func UpdateCategoryHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Title is required")
			return
		}
		category, err := catalog.UpdateCategory(c.Request.Context(), middleware.CurrentIdentity(c), id, req.Title)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully", "category": category})
	}
}

// DeleteCategoryHandler removes an unused category the caller owns
func DeleteCategoryHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := catalog.DeleteCategory(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
