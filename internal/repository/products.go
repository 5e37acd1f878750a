package repository

import (
	"context" // Request scoping

	"auction_system/internal/domain" // Domain models
	"auction_system/internal/store"  // Persistence contracts

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Row locks and association handling
)

var _ store.ProductStore = (*ProductRepository)(nil)

// ProductRepository persists listings and their sale state
type ProductRepository struct {
	db *gorm.DB
}

// editableColumns are the fields a seller may change after listing
var editableColumns = []string{
	"title", "description", "image", "category_id", "price",
	"height", "length", "width", "medium", "weight", "updated_at",
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error)
}

func (r *ProductRepository) GetByID(ctx context.Context, id uint) (domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Buyer").
		Preload("Category").
		First(&product, id).Error
	return product, translate(err)
}

// GetForUpdate issues SELECT ... FOR UPDATE; it only serializes when called inside a transaction
func (r *ProductRepository) GetForUpdate(ctx context.Context, id uint) (domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, id).Error
	return product, translate(err)
}

func (r *ProductRepository) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{}).
		Preload("Owner").
		Preload("Buyer").
		Preload("Category")
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID) // Filter by category
	}
	if f.IsVerify != nil {
		query = query.Where("is_verify = ?", *f.IsVerify) // Filter by verification
	}
	if f.IsSoldout != nil {
		query = query.Where("is_soldout = ?", *f.IsSoldout) // Filter by sold state
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice) // Lower price bound
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice) // Upper price bound
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status) // Filter by status
	}
	if f.OwnerID != nil {
		query = query.Where("user_id = ?", *f.OwnerID) // Listings of one seller
	}
	if f.BuyerID != nil {
		query = query.Where("buyer_id = ?", *f.BuyerID) // Listings won by one buyer
	}
	if f.OwnerRole != "" {
		owners := r.db.Model(&domain.User{}).Select("id").Where("role = ?", f.OwnerRole)
		query = query.Where("user_id IN (?)", owners) // Listings created by a role
	}
	var products []domain.Product
	err := query.Order("created_at desc").Order("id desc").Find(&products).Error
	return products, translate(err)
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return translate(r.db.WithContext(ctx).Model(product).
		Select(editableColumns).
		Omit(clause.Associations).
		Updates(product).Error)
}

func (r *ProductRepository) MarkVerified(ctx context.Context, id uint, commission float64) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND is_verify = ?", id, false).
		Updates(map[string]any{
			"is_verify":  true,
			"commission": commission,
			"status":     domain.StatusActive,
		})
	return conditional(res)
}

func (r *ProductRepository) MarkSold(ctx context.Context, id, buyerID uint, soldPrice float64) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND is_soldout = ?", id, false).
		Updates(map[string]any{
			"is_soldout": true,
			"buyer_id":   buyerID,
			"sold_price": soldPrice,
			"status":     domain.StatusSold,
		})
	return conditional(res)
}

func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, translate(err)
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&domain.Product{}, id))
}

// conditional reports ErrConflict when a guarded update touched no row
func conditional(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrConflict
	}
	return nil
}
