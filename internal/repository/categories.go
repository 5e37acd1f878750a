package repository

import (
	"context" // Request scoping

	"auction_system/internal/domain" // Domain models
	"auction_system/internal/store"  // Persistence contracts

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Association handling
)

var _ store.CategoryStore = (*CategoryRepository)(nil)

// CategoryRepository persists product categories
type CategoryRepository struct {
	db *gorm.DB
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error) // Never upsert the owner
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).Preload("User").First(&category, id).Error
	return category, translate(err)
}

func (r *CategoryRepository) GetByTitle(ctx context.Context, title string) (domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).Where("title = ?", title).Take(&category).Error
	return category, translate(err)
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).Preload("User").Order("created_at desc").Order("id desc").Find(&categories).Error // Newest first
	return categories, translate(err)
}

func (r *CategoryRepository) UpdateTitle(ctx context.Context, id uint, title string) error {
	return translate(r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).Update("title", title).Error) // Unique title surfaces as ErrDuplicate
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&domain.Category{}, id))
}
