package service

import "errors"

// Validation
var (
	ErrInvalidInput      = errors.New("some required fields are missing or invalid")
	ErrInvalidPrice      = errors.New("price must be a positive number")
	ErrInvalidCommission = errors.New("commission must be a number between 0 and 100")
	ErrInvalidRole       = errors.New("invalid role specified")
	ErrWeakPassword      = errors.New("password must be 8-72 characters")
)

// Not found
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrWishlistNotFound = errors.New("item not found in wishlist")
	ErrNoBiddingHistory = errors.New("no bidding history found")
)

// Authentication and authorization
var (
	ErrBadCredentials   = errors.New("email or password is incorrect")
	ErrRoleMismatch     = errors.New("you are not registered with this role")
	ErrNotProductOwner  = errors.New("you are not authorized to sell this product")
	ErrNotResourceOwner = errors.New("forbidden: access denied")
	ErrAdminExists      = errors.New("an admin account already exists")
)

// Business rules
var (
	ErrEmailTaken            = errors.New("email has already been used")
	ErrCategoryExists        = errors.New("category with this title already exists")
	ErrCategoryInUse         = errors.New("category still has products")
	ErrProductNotVerified    = errors.New("product is not verified for bidding")
	ErrBiddingClosed         = errors.New("bidding is closed for this product")
	ErrBidNotAboveOwn        = errors.New("your bid must be higher than your previous bid")
	ErrBidNotAboveHighest    = errors.New("your bid must be higher than the current highest bid")
	ErrBidBelowStartingPrice = errors.New("your starting bid must be at least equal to the product's price")
	ErrNoWinningBid          = errors.New("no winning bid found for this product")
	ErrAlreadySold           = errors.New("product has already been sold")
	ErrAlreadyVerified       = errors.New("product is already verified")
	ErrProductHasBids        = errors.New("product has bids and cannot be deleted")
	ErrAlreadyInWishlist     = errors.New("already in wishlist")
	ErrUserHasDependents     = errors.New("user still owns products, categories or bids")
	ErrCannotDeleteSelf      = errors.New("you cannot delete your own account")
	ErrProfileUnchanged      = errors.New("nothing to update")
)

// Integrity: data the workflow relies on is missing or ambiguous
var (
	ErrWinnerUnresolved = errors.New("winning bidder could not be resolved")
	ErrSellerNotFound   = errors.New("seller not found")
	ErrNoPlatformAdmin  = errors.New("no platform admin account is configured")
	ErrMultipleAdmins   = errors.New("more than one admin account exists and no platform admin is configured")
)

// Uploads
var (
	ErrInvalidImage  = errors.New("only .png, .jpg and .jpeg format allowed")
	ErrImageTooLarge = errors.New("image is too large")
)
