package api

import (
	"net/http" // HTTP status codes

	"auction_system/internal/middleware" // Caller identity
	"auction_system/internal/service"    // Bidding workflow

	"github.com/gin-gonic/gin" // Gin web framework
)

// BidRequest is a buyer's offer
type BidRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

// SellRequest names the listing the seller is closing
type SellRequest struct {
	ProductID uint `json:"productId" binding:"required"`
}

// PlaceBidHandler records a bid, or raises the caller's previous one
func PlaceBidHandler(auction *service.AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := pathID(c, "productId")
		if !ok {
			return
		}
		var req BidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Missing required fields")
			return
		}
		res, err := auction.PlaceBid(c.Request.Context(), middleware.CurrentIdentity(c), productID, req.Price)
		if err != nil {
			respondError(c, err)
			return
		}
		if res.Updated {
			c.JSON(http.StatusOK, gin.H{"message": "Bid updated successfully", "bid": res.Bid})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Bid placed successfully", "bid": res.Bid})
	}
}

// SellHandler settles a listing to its highest bidder
func SellHandler(auction *service.AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SellRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Missing required fields")
			return
		}
		sale, err := auction.Settle(c.Request.Context(), middleware.CurrentIdentity(c), req.ProductID)
		if err != nil {
			respondError(c, err)
			return
		}
		msg := "Product has been sold successfully and the winner has been notified"
		if !sale.Notified {
			msg = "Product has been sold successfully but the winner could not be notified"
		}
		c.JSON(http.StatusOK, gin.H{"message": msg, "sale": sale})
	}
}

// BiddingHistoryHandler lists a product's bids, highest first
func BiddingHistoryHandler(auction *service.AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := pathID(c, "productId")
		if !ok {
			return
		}
		bids, err := auction.History(c.Request.Context(), productID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Bidding history fetched successfully", "bids": bids})
	}
}

// BidCountHandler returns how many buyers bid on a product
func BidCountHandler(auction *service.AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := pathID(c, "productId")
		if !ok {
			return
		}
		n, err := auction.BidCount(c.Request.Context(), productID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Bid count fetched successfully", "count": n})
	}
}

// WinningBidsHandler lists the products the caller has won
func WinningBidsHandler(auction *service.AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := auction.WinningBids(c.Request.Context(), middleware.CurrentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Winning bids fetched successfully", "products": products})
	}
}

// SoldListingsHandler lists the caller's settled products
func SoldListingsHandler(auction *service.AuctionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := auction.SoldListings(c.Request.Context(), middleware.CurrentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Sold products fetched successfully", "products": products})
	}
}
