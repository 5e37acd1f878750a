package api

import (
	"net/http" // HTTP status codes

	"auction_system/internal/middleware" // Caller identity
	"auction_system/internal/service"    // Catalog workflows

	"github.com/gin-gonic/gin" // Gin web framework
)

// VerifyRequest is the admin's verification body
type VerifyRequest struct {
	Commission *float64 `json:"commission"`
}

// ListProductsHandler returns the filtered catalog
func ListProductsHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		minPrice, err := optionalFloat(c.Query("min"))
		if err != nil {
			badRequest(c, "Invalid min price")
			return
		}
		maxPrice, err := optionalFloat(c.Query("max"))
		if err != nil {
			badRequest(c, "Invalid max price")
			return
		}
		products, err := catalog.ListProducts(c.Request.Context(), service.ProductQuery{
			Category:  c.Query("category"),
			IsVerify:  optionalBool(c.Query("isVerify")),
			IsSoldout: optionalBool(c.Query("isSoldout")),
			MinPrice:  minPrice,
			MaxPrice:  maxPrice,
			Status:    c.Query("status"),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Products fetched successfully", "products": products})
	}
}

// GetProductHandler returns one product (public, cached)
func GetProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		product, err := catalog.GetProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product fetched successfully", "product": product})
	}
}

// MyProductsHandler returns the caller's listings
func MyProductsHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.ProductsOfUser(c.Request.Context(), middleware.CurrentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Products fetched successfully", "products": products})
	}
}

// ProductsByRoleHandler returns listings created by admins or sellers
func ProductsByRoleHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.ProductsByRole(c.Request.Context(), c.Param("role"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Products fetched successfully", "products": products})
	}
}

// productForm reads the multipart listing fields
func productForm(c *gin.Context) (service.ProductInput, error) {
	in := service.ProductInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Medium:      c.PostForm("mediumused"),
	}
	// Numeric fields are optional at this layer; the service decides what is required
	fields := []struct {
		name string
		dst  **float64
	}{
		{"price", &in.Price},
		{"height", &in.Height},
		{"lengthPic", &in.Length},
		{"width", &in.Width},
		{"weight", &in.Weight},
	}
	for _, f := range fields {
		v, err := optionalFloat(c.PostForm(f.name))
		if err != nil {
			return service.ProductInput{}, err
		}
		*f.dst = v
	}
	return in, nil
}

// CreateProductHandler lists a new product from a multipart form with optional image
func CreateProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		image, done, err := formUpload(c, "image")
		if err != nil {
			respondError(c, err)
			return
		}
		defer done()

		in, err := productForm(c)
		if err != nil {
			respondError(c, err)
			return
		}
		product, err := catalog.CreateProduct(c.Request.Context(), middleware.CurrentIdentity(c), in, image)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Product has been created successfully", "product": product})
	}
}

// UpdateProductHandler edits a listing the caller owns
func UpdateProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		image, done, err := formUpload(c, "image")
		if err != nil {
			respondError(c, err)
			return
		}
		defer done()

		in, err := productForm(c)
		if err != nil {
			respondError(c, err)
			return
		}
		product, err := catalog.UpdateProduct(c.Request.Context(), middleware.CurrentIdentity(c), id, in, image)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
	}
}

// DeleteProductHandler removes a listing the caller owns
func DeleteProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := catalog.DeleteProduct(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

// VerifyProductHandler approves a listing and sets its commission (admin only)
func VerifyProductHandler(auction *service.AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req VerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Commission == nil {
			badRequest(c, "Commission is required")
			return
		}
		product, err := auction.VerifyProduct(c.Request.Context(), middleware.CurrentIdentity(c), id, *req.Commission)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product verified successfully", "product": product})
	}
}
