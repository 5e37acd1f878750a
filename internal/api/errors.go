package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // Message formatting

	"auction_system/internal/access"  // Authorization errors
	"auction_system/internal/lock"    // Lock timeout
	"auction_system/internal/service" // Business errors
	"auction_system/internal/storage" // Missing images

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// statusOf maps business errors to HTTP status codes. Anything unknown is a 500.
var statusOf = []struct {
	err    error
	status int
}{
	{access.ErrUnauthenticated, http.StatusUnauthorized},
	{access.ErrForbidden, http.StatusForbidden},
	{service.ErrNotProductOwner, http.StatusForbidden},
	{service.ErrNotResourceOwner, http.StatusForbidden},
	{service.ErrRoleMismatch, http.StatusForbidden},
	{service.ErrAdminExists, http.StatusForbidden},

	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrProductNotFound, http.StatusNotFound},
	{service.ErrCategoryNotFound, http.StatusNotFound},
	{service.ErrWishlistNotFound, http.StatusNotFound},
	{service.ErrNoBiddingHistory, http.StatusNotFound},
	{storage.ErrNotFound, http.StatusNotFound},

	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrInvalidPrice, http.StatusBadRequest},
	{service.ErrInvalidCommission, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrWeakPassword, http.StatusBadRequest},
	{service.ErrInvalidImage, http.StatusBadRequest},
	{service.ErrBadCredentials, http.StatusBadRequest},
	{service.ErrEmailTaken, http.StatusBadRequest},
	{service.ErrCategoryExists, http.StatusBadRequest},
	{service.ErrCategoryInUse, http.StatusBadRequest},
	{service.ErrProductNotVerified, http.StatusBadRequest},
	{service.ErrBiddingClosed, http.StatusBadRequest},
	{service.ErrBidNotAboveOwn, http.StatusBadRequest},
	{service.ErrBidNotAboveHighest, http.StatusBadRequest},
	{service.ErrBidBelowStartingPrice, http.StatusBadRequest},
	{service.ErrNoWinningBid, http.StatusBadRequest},
	{service.ErrAlreadySold, http.StatusBadRequest},
	{service.ErrAlreadyVerified, http.StatusBadRequest},
	{service.ErrProductHasBids, http.StatusBadRequest},
	{service.ErrAlreadyInWishlist, http.StatusBadRequest},
	{service.ErrUserHasDependents, http.StatusBadRequest},
	{service.ErrCannotDeleteSelf, http.StatusBadRequest},
	{service.ErrProfileUnchanged, http.StatusBadRequest},

	{service.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
	{lock.ErrTimeout, http.StatusServiceUnavailable},
}

// respondError writes err as a JSON {"message": ...} body with the mapped status
func respondError(c *gin.Context, err error) {
	for _, m := range statusOf {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"message": sentence(err.Error())})
			return
		}
	}
	// Integrity failures and storage errors end up here
	logrus.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"error":  err.Error(),
	}).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

// sentence upper-cases the first letter of an error message
func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// badRequest answers 400 with a fixed message
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
