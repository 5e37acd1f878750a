// Package store declares the persistence contracts the services depend on.
// internal/repository implements them on gorm; internal/testutil keeps an
// in-memory version for tests.
package store

import (
	"context"
	"errors"

	"auction_system/internal/domain"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate record")
	// ErrConflict is returned when a conditional update matched no row.
	ErrConflict = errors.New("conditional update matched no row")
)

// Store groups the record stores and runs work atomically.
type Store interface {
	Users() UserStore
	Products() ProductStore
	Bids() BidStore
	Categories() CategoryStore
	Wishlist() WishlistStore

	// Transaction runs fn against a Store bound to one transaction. A non-nil
	// error from fn rolls every write back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id uint, name, photo string) error
	AddBalance(ctx context.Context, id uint, amount float64) error
	AddCommission(ctx context.Context, id uint, amount float64) error
	// HasDependents reports whether products, categories, bids or purchases reference the user.
	HasDependents(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
}

type ProductStore interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uint) (domain.Product, error)
	// GetForUpdate reads the product and holds a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id uint) (domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	// MarkVerified flips an unverified product to verified. ErrConflict if it already was.
	MarkVerified(ctx context.Context, id uint, commission float64) error
	// MarkSold closes an unsold product. ErrConflict if it was already sold.
	MarkSold(ctx context.Context, id, buyerID uint, soldPrice float64) error
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type BidStore interface {
	Create(ctx context.Context, bid *domain.Bid) error
	UpdatePrice(ctx context.Context, id uint, price float64) error
	GetByUserAndProduct(ctx context.Context, userID, productID uint) (domain.Bid, error)
	// Highest returns the top bid for a product. Equal prices go to the earliest bid.
	Highest(ctx context.Context, productID uint) (domain.Bid, error)
	ListByProduct(ctx context.Context, productID uint) ([]domain.Bid, error)
	CountByProduct(ctx context.Context, productID uint) (int64, error)
}

type CategoryStore interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id uint) (domain.Category, error)
	GetByTitle(ctx context.Context, title string) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	UpdateTitle(ctx context.Context, id uint, title string) error
	Delete(ctx context.Context, id uint) error
}

type WishlistStore interface {
	Add(ctx context.Context, item *domain.WishlistItem) error
	Exists(ctx context.Context, userID, productID uint) (bool, error)
	// Remove deletes one entry, returning ErrNotFound when there was none.
	Remove(ctx context.Context, userID, productID uint) error
	ListByUser(ctx context.Context, userID uint) ([]domain.WishlistItem, error)
	DeleteByProduct(ctx context.Context, productID uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}
