package repository

import (
	"context" // Request scoping

	"auction_system/internal/domain" // Domain models
	"auction_system/internal/store"  // Persistence contracts

	"gorm.io/gorm" // GORM ORM library
)

var _ store.UserStore = (*UserRepository)(nil)

// UserRepository persists accounts and their balances
type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error) // Unique email surfaces as ErrDuplicate
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return user, translate(err)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error // Emails are stored lower-cased
	return user, translate(err)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("id asc").Find(&users).Error
	return users, translate(err)
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("id asc").Find(&users).Error // Oldest first
	return users, translate(err)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, name, photo string) error {
	return translate(r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{"name": name, "photo": photo}).Error) // Map so an empty photo is written too
}

// AddBalance increments the seller balance in SQL so concurrent credits never overwrite each other
func (r *UserRepository) AddBalance(ctx context.Context, id uint, amount float64) error {
	return translate(r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount)).Error)
}

// AddCommission increments the admin commission balance in SQL
func (r *UserRepository) AddCommission(ctx context.Context, id uint, amount float64) error {
	return translate(r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Update("commission_balance", gorm.Expr("commission_balance + ?", amount)).Error)
}

// HasDependents reports whether any product, category or bid still references the user
func (r *UserRepository) HasDependents(ctx context.Context, id uint) (bool, error) {
	db := r.db.WithContext(ctx)
	var n int64
	if err := db.Model(&domain.Product{}).Where("user_id = ? OR buyer_id = ?", id, id).Count(&n).Error; err != nil || n > 0 {
		return n > 0, translate(err) // Listed or bought something
	}
	if err := db.Model(&domain.Category{}).Where("user_id = ?", id).Count(&n).Error; err != nil || n > 0 {
		return n > 0, translate(err) // Owns a category
	}
	if err := db.Model(&domain.Bid{}).Where("user_id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil // Placed a bid
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&domain.User{}, id))
}
