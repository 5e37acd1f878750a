package api

import (
	"net/http" // HTTP status codes

	"auction_system/internal/middleware" // Caller identity
	"auction_system/internal/service"    // Wishlist workflow

	"github.com/gin-gonic/gin" // Gin web framework
)

// WishlistRequest names the product to save
type WishlistRequest struct {
	ProductID uint `json:"productId" binding:"required"`
}

// AddToWishlistHandler saves a product for the caller
func AddToWishlistHandler(wishlist *service.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Product ID is required")
			return
		}
		item, err := wishlist.Add(c.Request.Context(), middleware.CurrentIdentity(c), req.ProductID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Added to wishlist", "item": item})
	}
}

// RemoveFromWishlistHandler drops a product from the caller's wishlist
func RemoveFromWishlistHandler(wishlist *service.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := pathID(c, "productId")
		if !ok {
			return
		}
		if err := wishlist.Remove(c.Request.Context(), middleware.CurrentIdentity(c), productID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
	}
}

// WishlistHandler lists the caller's saved products
func WishlistHandler(wishlist *service.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := wishlist.List(c.Request.Context(), middleware.CurrentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Wishlist fetched successfully", "wishlist": items})
	}
}
