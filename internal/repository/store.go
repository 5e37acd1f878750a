// Package repository implements the store contracts on gorm/MySQL.
package repository

import (
	"context" // Request scoping for transactions
	"errors"  // Error inspection
	"fmt"     // Error wrapping

	"auction_system/internal/store" // Persistence contracts

	"gorm.io/gorm" // GORM ORM library
)

var _ store.Store = (*Store)(nil)

// Store hands out repositories that share one *gorm.DB (or one transaction)
type Store struct {
	db *gorm.DB
}

// New wraps an opened gorm connection
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() store.UserStore          { return &UserRepository{db: s.db} }
func (s *Store) Products() store.ProductStore    { return &ProductRepository{db: s.db} }
func (s *Store) Bids() store.BidStore            { return &BidRepository{db: s.db} }
func (s *Store) Categories() store.CategoryStore { return &CategoryRepository{db: s.db} }
func (s *Store) Wishlist() store.WishlistStore   { return &WishlistRepository{db: s.db} }

// Transaction runs fn inside a database transaction; fn's error rolls it back
func (s *Store) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx)) // Repositories built on the transaction handle
	})
}

// translate maps gorm errors onto the store sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

// deleted converts a delete result into ErrNotFound when nothing matched
func deleted(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
