package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"auction_system/internal/middleware" // Caller identity
	"auction_system/internal/service"    // Account workflows

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListUsersHandler returns every account (admin only)
func ListUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.List(c.Request.Context(), middleware.CurrentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Users fetched successfully", "users": list})
	}
}

// ProfileHandler returns the caller's account
func ProfileHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.Profile(c.Request.Context(), middleware.CurrentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile fetched successfully", "user": user})
	}
}

// CommissionHandler returns the platform admin's accrued commission
func CommissionHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		total, err := users.CommissionBalance(c.Request.Context(), middleware.CurrentIdentity(c))
		if errors.Is(err, service.ErrNoPlatformAdmin) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Admin not found"})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Commission balance fetched successfully", "commissionBalance": total})
	}
}

// BalanceHandler returns a user's earnings
func BalanceHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		balance, err := users.Balance(c.Request.Context(), middleware.CurrentIdentity(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Balance fetched successfully", "balance": balance})
	}
}

// UpdateProfileHandler changes the caller's name and optional profilePic upload
func UpdateProfileHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		photo, done, err := formUpload(c, "profilePic")
		if err != nil {
			respondError(c, err)
			return
		}
		defer done()

		user, err := users.UpdateProfile(c.Request.Context(), middleware.CurrentIdentity(c), c.PostForm("name"), photo)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
	}
}

// DeleteUserHandler removes an account (admin only)
func DeleteUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := users.Delete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}
