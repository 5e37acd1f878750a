package service

import (
	"context"
	"errors"
	"fmt"

	"auction_system/internal/access"
	"auction_system/internal/domain"
	"auction_system/internal/store"
)

// WishlistService keeps each user's favourite products.
type WishlistService struct {
	store store.Store
}

func NewWishlistService(st store.Store) *WishlistService {
	return &WishlistService{store: st}
}

func (s *WishlistService) Add(ctx context.Context, actor access.Identity, productID uint) (domain.WishlistItem, error) {
	if !actor.Authenticated() {
		return domain.WishlistItem{}, access.ErrUnauthenticated
	}
	if productID == 0 {
		return domain.WishlistItem{}, ErrInvalidInput
	}
	if _, err := s.store.Products().GetByID(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.WishlistItem{}, ErrProductNotFound
		}
		return domain.WishlistItem{}, fmt.Errorf("failed to load product: %w", err)
	}

	wishlist := s.store.Wishlist()
	exists, err := wishlist.Exists(ctx, actor.UserID, productID)
	if err != nil {
		return domain.WishlistItem{}, fmt.Errorf("failed to check wishlist: %w", err)
	}
	if exists {
		return domain.WishlistItem{}, ErrAlreadyInWishlist
	}

	item := domain.WishlistItem{UserID: actor.UserID, ProductID: productID}
	if err := wishlist.Add(ctx, &item); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.WishlistItem{}, ErrAlreadyInWishlist
		}
		return domain.WishlistItem{}, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return item, nil
}

func (s *WishlistService) Remove(ctx context.Context, actor access.Identity, productID uint) error {
	if !actor.Authenticated() {
		return access.ErrUnauthenticated
	}
	err := s.store.Wishlist().Remove(ctx, actor.UserID, productID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrWishlistNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}

func (s *WishlistService) List(ctx context.Context, actor access.Identity) ([]domain.WishlistItem, error) {
	if !actor.Authenticated() {
		return nil, access.ErrUnauthenticated
	}
	items, err := s.store.Wishlist().ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}
