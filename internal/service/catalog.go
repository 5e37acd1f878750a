package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"auction_system/internal/access"
	"auction_system/internal/domain"
	"auction_system/internal/storage"
	"auction_system/internal/store"
	"auction_system/internal/utils"

	"github.com/sirupsen/logrus"
)

const categoriesKey = "categories:all"

func productKey(id uint) string {
	return "product:" + strconv.FormatUint(uint64(id), 10)
}

// CatalogService manages categories and product listings.
type CatalogService struct {
	store     store.Store
	cache     utils.Cache
	images    storage.ImageStore
	maxUpload int64
}

func NewCatalogService(st store.Store, cache utils.Cache, images storage.ImageStore, maxUpload int64) *CatalogService {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	return &CatalogService{store: st, cache: cache, images: images, maxUpload: maxUpload}
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if found, err := s.cache.Get(ctx, categoriesKey, &categories); err == nil && found {
		return categories, nil
	}
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	_ = s.cache.Set(ctx, categoriesKey, categories, utils.CacheTTL)
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, actor access.Identity, title string) (domain.Category, error) {
	if err := access.Require(actor, domain.RoleAdmin); err != nil {
		return domain.Category{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Category{}, ErrInvalidInput
	}
	categories := s.store.Categories()
	if _, err := categories.GetByTitle(ctx, title); err == nil {
		return domain.Category{}, ErrCategoryExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Category{}, fmt.Errorf("failed to check category: %w", err)
	}

	category := domain.Category{UserID: actor.UserID, Title: title}
	if err := categories.Create(ctx, &category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.Category{}, ErrCategoryExists
		}
		return domain.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	_ = s.cache.Delete(ctx, categoriesKey)
	return category, nil
}

// ownCategory loads a category the actor owns.
func (s *CatalogService) ownCategory(ctx context.Context, actor access.Identity, id uint) (domain.Category, error) {
	category, err := s.store.Categories().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("failed to load category: %w", err)
	}
	if err := access.RequireOwner(actor, category.UserID); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, actor access.Identity, id uint, title string) (domain.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Category{}, ErrInvalidInput
	}
	category, err := s.ownCategory(ctx, actor, id)
	if err != nil {
		return domain.Category{}, err
	}
	if title == category.Title {
		return category, nil
	}
	if other, err := s.store.Categories().GetByTitle(ctx, title); err == nil && other.ID != id {
		return domain.Category{}, ErrCategoryExists
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.Category{}, fmt.Errorf("failed to check category: %w", err)
	}

	if err := s.store.Categories().UpdateTitle(ctx, id, title); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.Category{}, ErrCategoryExists
		}
		return domain.Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	s.invalidateCategory(ctx, id)
	category.Title = title
	return category, nil
}

// invalidateCategory drops the category list and every cached product that
// embeds the category.
func (s *CatalogService) invalidateCategory(ctx context.Context, id uint) {
	keys := []string{categoriesKey}
	products, err := s.store.Products().List(ctx, domain.ProductFilter{CategoryID: &id})
	if err != nil {
		logrus.WithFields(logrus.Fields{"category_id": id, "error": err.Error()}).Warn("Failed to list products for cache invalidation")
	}
	for _, p := range products {
		keys = append(keys, productKey(p.ID))
	}
	_ = s.cache.Delete(ctx, keys...)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, actor access.Identity, id uint) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		category, err := tx.Categories().GetByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrCategoryNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load category: %w", err)
		}
		if err := access.RequireOwner(actor, category.UserID); err != nil {
			return err
		}
		n, err := tx.Products().CountByCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		if n > 0 {
			return ErrCategoryInUse
		}
		if err := tx.Categories().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		_ = s.cache.Delete(ctx, categoriesKey)
		return nil
	})
}

// resolveCategory accepts a category id or title.
func resolveCategory(ctx context.Context, categories store.CategoryStore, ref string) (domain.Category, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Category{}, ErrInvalidInput
	}
	var (
		category domain.Category
		err      error
	)
	if id, perr := strconv.ParseUint(ref, 10, 64); perr == nil {
		category, err = categories.GetByID(ctx, uint(id))
	} else {
		category, err = categories.GetByTitle(ctx, ref)
	}
	if errors.Is(err, store.ErrNotFound) {
		return domain.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("failed to load category: %w", err)
	}
	return category, nil
}

// ProductQuery is the public catalog filter.
type ProductQuery struct {
	Category  string
	IsVerify  *bool
	IsSoldout *bool
	MinPrice  *float64
	MaxPrice  *float64
	Status    string
}

// ProductInput is the listing form. Nil or empty fields are left unchanged on update.
type ProductInput struct {
	Title       string
	Description string
	Category    string
	Price       *float64
	Height      *float64
	Length      *float64
	Width       *float64
	Weight      *float64
	Medium      string
}

func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error) {
	filter := domain.ProductFilter{
		IsVerify:  q.IsVerify,
		IsSoldout: q.IsSoldout,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
	}
	if q.Status != "" {
		status := domain.ProductStatus(strings.ToLower(q.Status))
		switch status {
		case domain.StatusPending, domain.StatusActive, domain.StatusSold:
			filter.Status = status
		default:
			return nil, ErrInvalidInput
		}
	}
	if q.Category != "" {
		category, err := resolveCategory(ctx, s.store.Categories(), q.Category)
		if errors.Is(err, ErrCategoryNotFound) {
			return []domain.Product{}, nil
		}
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &category.ID
	}

	products, err := s.store.Products().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (domain.Product, error) {
	key := productKey(id)
	var product domain.Product
	if found, err := s.cache.Get(ctx, key, &product); err == nil && found {
		return product, nil
	}
	product, err := s.store.Products().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to load product: %w", err)
	}
	_ = s.cache.Set(ctx, key, product, utils.CacheTTL)
	return product, nil
}

// ProductsOfUser lists the caller's own listings.
func (s *CatalogService) ProductsOfUser(ctx context.Context, actor access.Identity) ([]domain.Product, error) {
	if !actor.Authenticated() {
		return nil, access.ErrUnauthenticated
	}
	products, err := s.store.Products().List(ctx, domain.ProductFilter{OwnerID: &actor.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ProductsByRole lists listings created by admins or by sellers.
func (s *CatalogService) ProductsByRole(ctx context.Context, role string) ([]domain.Product, error) {
	r, err := domain.ParseRole(role)
	if err != nil || r == domain.RoleBuyer {
		return nil, ErrInvalidRole
	}
	products, err := s.store.Products().List(ctx, domain.ProductFilter{OwnerRole: r})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func validPrice(p *float64) bool {
	return p != nil && *p > 0 && !math.IsInf(*p, 0) && !math.IsNaN(*p)
}

// CreateProduct lists a new, unverified product.
func (s *CatalogService) CreateProduct(ctx context.Context, actor access.Identity, in ProductInput, image *Upload) (domain.Product, error) {
	if err := access.Require(actor, domain.RoleSeller, domain.RoleAdmin); err != nil {
		return domain.Product{}, err
	}
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" || strings.TrimSpace(in.Category) == "" || in.Price == nil {
		return domain.Product{}, ErrInvalidInput
	}
	if !validPrice(in.Price) {
		return domain.Product{}, ErrInvalidPrice
	}
	category, err := resolveCategory(ctx, s.store.Categories(), in.Category)
	if err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		UserID:      actor.UserID,
		Title:       title,
		Description: description,
		CategoryID:  category.ID,
		Price:       *in.Price,
		Height:      in.Height,
		Length:      in.Length,
		Width:       in.Width,
		Weight:      in.Weight,
		Medium:      strings.TrimSpace(in.Medium),
		Status:      domain.StatusPending,
	}
	if image != nil {
		url, err := saveImage(ctx, s.images, "image", image, s.maxUpload)
		if err != nil {
			return domain.Product{}, err
		}
		product.Image = url
	}

	if err := s.store.Products().Create(ctx, &product); err != nil {
		removeImage(ctx, s.images, product.Image)
		return domain.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	product.Category = &category

	logrus.WithFields(logrus.Fields{"product_id": product.ID, "user_id": actor.UserID}).Info("Product listed")
	return product, nil
}

// ownProduct loads a product the seller owns.
func ownProduct(ctx context.Context, products store.ProductStore, actor access.Identity, id uint) (domain.Product, error) {
	if err := access.Require(actor, domain.RoleSeller); err != nil {
		return domain.Product{}, err
	}
	product, err := products.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to load product: %w", err)
	}
	if err := access.RequireOwner(actor, product.UserID); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// UpdateProduct edits an unsold listing owned by the caller.
func (s *CatalogService) UpdateProduct(ctx context.Context, actor access.Identity, id uint, in ProductInput, image *Upload) (domain.Product, error) {
	product, err := ownProduct(ctx, s.store.Products(), actor, id)
	if err != nil {
		return domain.Product{}, err
	}
	if product.IsSoldout {
		return domain.Product{}, ErrAlreadySold
	}

	if v := strings.TrimSpace(in.Title); v != "" {
		product.Title = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		product.Description = v
	}
	if in.Price != nil {
		if !validPrice(in.Price) {
			return domain.Product{}, ErrInvalidPrice
		}
		product.Price = *in.Price
	}
	if strings.TrimSpace(in.Category) != "" {
		category, err := resolveCategory(ctx, s.store.Categories(), in.Category)
		if err != nil {
			return domain.Product{}, err
		}
		product.CategoryID = category.ID
		product.Category = &category
	}
	if in.Height != nil {
		product.Height = in.Height
	}
	if in.Length != nil {
		product.Length = in.Length
	}
	if in.Width != nil {
		product.Width = in.Width
	}
	if in.Weight != nil {
		product.Weight = in.Weight
	}
	if v := strings.TrimSpace(in.Medium); v != "" {
		product.Medium = v
	}

	oldImage := product.Image
	if image != nil {
		url, err := saveImage(ctx, s.images, "image", image, s.maxUpload)
		if err != nil {
			return domain.Product{}, err
		}
		product.Image = url
	}

	if err := s.store.Products().Update(ctx, &product); err != nil {
		if image != nil {
			removeImage(ctx, s.images, product.Image)
		}
		return domain.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	if image != nil {
		removeImage(ctx, s.images, oldImage)
	}
	_ = s.cache.Delete(ctx, productKey(id))
	return product, nil
}

// DeleteProduct removes a listing nobody has bid on, along with its wishlist entries.
func (s *CatalogService) DeleteProduct(ctx context.Context, actor access.Identity, id uint) error {
	var image string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		product, err := ownProduct(ctx, tx.Products(), actor, id)
		if err != nil {
			return err
		}
		n, err := tx.Bids().CountByProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count bids: %w", err)
		}
		if n > 0 {
			return ErrProductHasBids
		}
		if err := tx.Wishlist().DeleteByProduct(ctx, id); err != nil {
			return fmt.Errorf("failed to clear wishlist entries: %w", err)
		}
		if err := tx.Products().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		image = product.Image
		return nil
	})
	if err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, productKey(id), bidCountKey(id))
	removeImage(ctx, s.images, image)

	logrus.WithFields(logrus.Fields{"product_id": id, "user_id": actor.UserID}).Info("Product deleted")
	return nil
}
