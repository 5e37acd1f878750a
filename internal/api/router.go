package api

import (
	"net/http" // Request body limits

	"auction_system/internal/domain"     // Roles
	"auction_system/internal/metrics"    // Prometheus instrumentation
	"auction_system/internal/middleware" // Authentication and guards
	"auction_system/internal/service"    // Workflows
	"auction_system/internal/storage"    // Image storage

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps are the collaborators the HTTP layer needs
type Deps struct {
	Users          *service.UserService
	Catalog        *service.CatalogService
	Auction        *service.AuctionService
	Wishlist       *service.WishlistService
	Images         storage.ImageStore
	JWTSecret      string
	LoginLimiter   *middleware.RateLimiter
	MaxUpload      int64    // Largest accepted image in bytes
	TrustedProxies []string // Proxies allowed to set X-Forwarded-For
}

// multipartOverhead leaves room for form fields around the image itself
const multipartOverhead = 1 << 20

// limitBody caps the request body so oversized uploads fail while parsing
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// NewRouter wires every route of the marketplace API
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.Default() // Gin router with logger and recovery

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(metrics.Middleware()) // Request counters and latency

	auth := middleware.Authenticate(d.JWTSecret)
	admin := middleware.RequireRole(domain.RoleAdmin)
	seller := middleware.RequireRole(domain.RoleSeller)
	buyer := middleware.RequireRole(domain.RoleBuyer)
	uploads := limitBody(d.MaxUpload + multipartOverhead)

	login := []gin.HandlerFunc{}
	if d.LoginLimiter != nil {
		login = append(login, d.LoginLimiter.Handler())
	}
	login = append(login, LoginHandler(d.Users))

	// User routes
	users := r.Group("/user")
	users.POST("/register", RegisterHandler(d.Users))
	users.POST("/login", login...)
	users.GET("", auth, admin, ListUsersHandler(d.Users))
	users.GET("/profile", auth, ProfileHandler(d.Users))
	users.GET("/commission", auth, admin, CommissionHandler(d.Users))
	users.GET("/:id/balance", auth, BalanceHandler(d.Users))
	users.PUT("/update-profile", auth, uploads, UpdateProfileHandler(d.Users))
	users.DELETE("/:id", auth, admin, DeleteUserHandler(d.Users))

	// Category routes
	categories := r.Group("/category")
	categories.GET("", ListCategoriesHandler(d.Catalog))
	categories.POST("", auth, admin, CreateCategoryHandler(d.Catalog))
	categories.PUT("/:id", auth, UpdateCategoryHandler(d.Catalog))
	categories.DELETE("/:id", auth, DeleteCategoryHandler(d.Catalog))

	// Product routes
	products := r.Group("/product")
	products.GET("", ListProductsHandler(d.Catalog))
	products.GET("/user", auth, MyProductsHandler(d.Catalog))
	products.GET("/by-role/:role", ProductsByRoleHandler(d.Catalog))
	products.GET("/:id", GetProductHandler(d.Catalog))
	products.POST("", auth, middleware.RequireRole(domain.RoleSeller, domain.RoleAdmin), uploads, CreateProductHandler(d.Catalog))
	products.PUT("/:id", auth, seller, uploads, UpdateProductHandler(d.Catalog))
	products.DELETE("/:id", auth, seller, DeleteProductHandler(d.Catalog))
	products.PATCH("/product-verify/:id", auth, admin, VerifyProductHandler(d.Auction))

	// Bidding routes
	bids := r.Group("/bid", auth)
	bids.POST("/bidding/:productId", buyer, PlaceBidHandler(d.Auction))
	bids.POST("/sell", seller, SellHandler(d.Auction))
	bids.GET("/bidding-history/:productId", BiddingHistoryHandler(d.Auction))
	bids.GET("/bid-count/:productId", BidCountHandler(d.Auction))
	bids.GET("/winning-bids", buyer, WinningBidsHandler(d.Auction))
	bids.GET("/allbid", seller, SoldListingsHandler(d.Auction))

	// Wishlist routes
	wishlist := r.Group("/wishlist", auth)
	wishlist.POST("/add", AddToWishlistHandler(d.Wishlist))
	wishlist.DELETE("/remove/:productId", RemoveFromWishlistHandler(d.Wishlist))
	wishlist.GET("", WishlistHandler(d.Wishlist))

	// Uploaded images and metrics
	r.GET(storage.URLPrefix+":name", ImageHandler(d.Images))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r, nil
}
