package api

import (
	"net/http"      // HTTP status codes
	"path/filepath" // Extension lookup
	"strings"       // Case folding

	"auction_system/internal/storage" // Image storage

	"github.com/gin-gonic/gin" // Gin web framework
)

// ImageHandler streams a stored image back to the client
func ImageHandler(images storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := storage.ValidName(c.Param("name"))
		if name == "" {
			c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
			return
		}
		rc, err := images.Open(c.Request.Context(), name)
		if err != nil {
			respondError(c, err)
			return
		}
		defer rc.Close()

		contentType := "application/octet-stream"
		switch strings.ToLower(filepath.Ext(name)) {
		case ".png":
			contentType = "image/png"
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
	}
}
