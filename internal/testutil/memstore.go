// Package testutil holds in-memory implementations of the store and the
// outbound adapters for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"auction_system/internal/domain"
	"auction_system/internal/store"
)

// MemStore is an in-memory store.Store. Transactions are serialized and roll
// back by restoring a snapshot.
type MemStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *memData

	clock time.Time

	// Fail, when set, is consulted before every write. A non-nil error is
	// returned in place of performing the write. The op names are
	// "<store>.<method>", e.g. "users.AddBalance".
	Fail func(op string) error
}

type memData struct {
	nextID     uint
	users      map[uint]domain.User
	products   map[uint]domain.Product
	bids       map[uint]domain.Bid
	categories map[uint]domain.Category
	wishlist   map[uint]domain.WishlistItem
}

func newMemData() *memData {
	return &memData{
		users:      map[uint]domain.User{},
		products:   map[uint]domain.Product{},
		bids:       map[uint]domain.Bid{},
		categories: map[uint]domain.Category{},
		wishlist:   map[uint]domain.WishlistItem{},
	}
}

func (d *memData) clone() *memData {
	c := &memData{
		nextID:     d.nextID,
		users:      make(map[uint]domain.User, len(d.users)),
		products:   make(map[uint]domain.Product, len(d.products)),
		bids:       make(map[uint]domain.Bid, len(d.bids)),
		categories: make(map[uint]domain.Category, len(d.categories)),
		wishlist:   make(map[uint]domain.WishlistItem, len(d.wishlist)),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.bids {
		c.bids[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.wishlist {
		c.wishlist[k] = v
	}
	return c
}

func NewMemStore() *MemStore {
	return &MemStore{
		data:  newMemData(),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// now advances a fake clock by one millisecond per call so creation order is
// always observable in timestamps. Callers hold mu.
func (s *MemStore) now() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *MemStore) id() uint {
	s.data.nextID++
	return s.data.nextID
}

func (s *MemStore) fail(op string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op)
}

func (s *MemStore) Users() store.UserStore          { return memUsers{s} }
func (s *MemStore) Products() store.ProductStore    { return memProducts{s} }
func (s *MemStore) Bids() store.BidStore            { return memBids{s} }
func (s *MemStore) Categories() store.CategoryStore { return memCategories{s} }
func (s *MemStore) Wishlist() store.WishlistStore   { return memWishlist{s} }

func (s *MemStore) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Seeding and inspection helpers. They bypass Fail.

func (s *MemStore) SeedUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	} else if u.ID > s.data.nextID {
		s.data.nextID = u.ID
	}
	u.CreatedAt, u.UpdatedAt = s.now(), s.clock
	s.data.users[u.ID] = u
	return u
}

func (s *MemStore) SeedCategory(c domain.Category) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	c.CreatedAt, c.UpdatedAt = s.now(), s.clock
	s.data.categories[c.ID] = c
	return c
}

func (s *MemStore) SeedProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	if p.Status == "" {
		p.Status = domain.StatusPending
	}
	p.CreatedAt, p.UpdatedAt = s.now(), s.clock
	s.data.products[p.ID] = p
	return p
}

func (s *MemStore) SeedBid(b domain.Bid) domain.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
	s.data.bids[b.ID] = b
	return b
}

func (s *MemStore) User(id uint) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.users[id]
}

func (s *MemStore) Product(id uint) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.products[id]
}

// BidsFor returns the raw bid rows of a product ordered by id.
func (s *MemStore) BidsFor(productID uint) []domain.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Bid
	for _, b := range s.data.bids {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemStore) WishlistCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.wishlist)
}

// preload fills a product's associations. Callers hold mu.
func (s *MemStore) preload(p domain.Product) domain.Product {
	if u, ok := s.data.users[p.UserID]; ok {
		p.Owner = &u
	}
	if p.BuyerID != nil {
		if u, ok := s.data.users[*p.BuyerID]; ok {
			p.Buyer = &u
		}
	}
	if c, ok := s.data.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

type memUsers struct{ s *MemStore }

func (m memUsers) Create(_ context.Context, u *domain.User) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("users.Create"); err != nil {
		return err
	}
	for _, other := range s.data.users {
		if other.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	u.ID = s.id()
	u.CreatedAt, u.UpdatedAt = s.now(), s.clock
	s.data.users[u.ID] = *u
	return nil
}

func (m memUsers) GetByID(_ context.Context, id uint) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.data.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m memUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.data.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (m memUsers) List(_ context.Context) ([]domain.User, error) {
	return m.filter(func(domain.User) bool { return true }), nil
}

func (m memUsers) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	return m.filter(func(u domain.User) bool { return u.Role == role }), nil
}

func (m memUsers) filter(keep func(domain.User) bool) []domain.User {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.s.data.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m memUsers) update(op string, id uint, fn func(*domain.User)) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(op); err != nil {
		return err
	}
	u, ok := s.data.users[id]
	if !ok {
		return nil
	}
	fn(&u)
	u.UpdatedAt = s.now()
	s.data.users[id] = u
	return nil
}

func (m memUsers) UpdateProfile(_ context.Context, id uint, name, photo string) error {
	return m.update("users.UpdateProfile", id, func(u *domain.User) {
		u.Name, u.Photo = name, photo
	})
}

func (m memUsers) AddBalance(_ context.Context, id uint, amount float64) error {
	return m.update("users.AddBalance", id, func(u *domain.User) { u.Balance += amount })
}

func (m memUsers) AddCommission(_ context.Context, id uint, amount float64) error {
	return m.update("users.AddCommission", id, func(u *domain.User) { u.CommissionBalance += amount })
}

func (m memUsers) HasDependents(_ context.Context, id uint) (bool, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.data.products {
		if p.UserID == id || (p.BuyerID != nil && *p.BuyerID == id) {
			return true, nil
		}
	}
	for _, c := range s.data.categories {
		if c.UserID == id {
			return true, nil
		}
	}
	for _, b := range s.data.bids {
		if b.UserID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m memUsers) Delete(_ context.Context, id uint) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("users.Delete"); err != nil {
		return err
	}
	if _, ok := s.data.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.data.users, id)
	return nil
}

type memProducts struct{ s *MemStore }

func (m memProducts) Create(_ context.Context, p *domain.Product) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("products.Create"); err != nil {
		return err
	}
	p.ID = s.id()
	p.CreatedAt, p.UpdatedAt = s.now(), s.clock
	stored := *p
	stored.Owner, stored.Buyer, stored.Category = nil, nil, nil
	s.data.products[p.ID] = stored
	return nil
}

func (m memProducts) GetByID(_ context.Context, id uint) (domain.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.data.products[id]
	if !ok {
		return domain.Product{}, store.ErrNotFound
	}
	return m.s.preload(p), nil
}

func (m memProducts) GetForUpdate(_ context.Context, id uint) (domain.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.data.products[id]
	if !ok {
		return domain.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (m memProducts) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Product{}
	for _, p := range s.data.products {
		switch {
		case f.CategoryID != nil && p.CategoryID != *f.CategoryID,
			f.IsVerify != nil && p.IsVerify != *f.IsVerify,
			f.IsSoldout != nil && p.IsSoldout != *f.IsSoldout,
			f.MinPrice != nil && p.Price < *f.MinPrice,
			f.MaxPrice != nil && p.Price > *f.MaxPrice,
			f.Status != "" && p.Status != f.Status,
			f.OwnerID != nil && p.UserID != *f.OwnerID,
			f.BuyerID != nil && (p.BuyerID == nil || *p.BuyerID != *f.BuyerID),
			f.OwnerRole != "" && s.data.users[p.UserID].Role != f.OwnerRole:
			continue
		}
		out = append(out, s.preload(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m memProducts) Update(_ context.Context, p *domain.Product) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("products.Update"); err != nil {
		return err
	}
	cur, ok := s.data.products[p.ID]
	if !ok {
		return nil
	}
	cur.Title, cur.Description, cur.Image = p.Title, p.Description, p.Image
	cur.CategoryID, cur.Price, cur.Medium = p.CategoryID, p.Price, p.Medium
	cur.Height, cur.Length, cur.Width, cur.Weight = p.Height, p.Length, p.Width, p.Weight
	cur.UpdatedAt = s.now()
	s.data.products[p.ID] = cur
	return nil
}

func (m memProducts) MarkVerified(_ context.Context, id uint, commission float64) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("products.MarkVerified"); err != nil {
		return err
	}
	p, ok := s.data.products[id]
	if !ok || p.IsVerify {
		return store.ErrConflict
	}
	p.IsVerify, p.Commission, p.Status = true, commission, domain.StatusActive
	s.data.products[id] = p
	return nil
}

func (m memProducts) MarkSold(_ context.Context, id, buyerID uint, soldPrice float64) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("products.MarkSold"); err != nil {
		return err
	}
	p, ok := s.data.products[id]
	if !ok || p.IsSoldout {
		return store.ErrConflict
	}
	p.IsSoldout, p.BuyerID, p.SoldPrice, p.Status = true, &buyerID, soldPrice, domain.StatusSold
	s.data.products[id] = p
	return nil
}

func (m memProducts) CountByCategory(_ context.Context, categoryID uint) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, p := range m.s.data.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (m memProducts) Delete(_ context.Context, id uint) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("products.Delete"); err != nil {
		return err
	}
	if _, ok := s.data.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.data.products, id)
	return nil
}

type memBids struct{ s *MemStore }

func (m memBids) Create(_ context.Context, b *domain.Bid) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("bids.Create"); err != nil {
		return err
	}
	for _, other := range s.data.bids {
		if other.UserID == b.UserID && other.ProductID == b.ProductID {
			return store.ErrDuplicate
		}
	}
	b.ID = s.id()
	b.CreatedAt, b.UpdatedAt = s.now(), s.clock
	s.data.bids[b.ID] = *b
	return nil
}

func (m memBids) UpdatePrice(_ context.Context, id uint, price float64) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("bids.UpdatePrice"); err != nil {
		return err
	}
	b, ok := s.data.bids[id]
	if !ok {
		return nil
	}
	b.Price, b.UpdatedAt = price, s.now()
	s.data.bids[id] = b
	return nil
}

func (m memBids) GetByUserAndProduct(_ context.Context, userID, productID uint) (domain.Bid, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, b := range m.s.data.bids {
		if b.UserID == userID && b.ProductID == productID {
			return b, nil
		}
	}
	return domain.Bid{}, store.ErrNotFound
}

// ranked returns a product's bids highest first. On equal price the bid that
// reached it first wins.
func (m memBids) ranked(productID uint) []domain.Bid {
	var out []domain.Bid
	for _, b := range m.s.data.bids {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Price != b.Price {
			return a.Price > b.Price
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func (m memBids) Highest(_ context.Context, productID uint) (domain.Bid, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	bids := m.ranked(productID)
	if len(bids) == 0 {
		return domain.Bid{}, store.ErrNotFound
	}
	return bids[0], nil
}

func (m memBids) ListByProduct(_ context.Context, productID uint) ([]domain.Bid, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	bids := m.ranked(productID)
	for i := range bids {
		if u, ok := m.s.data.users[bids[i].UserID]; ok {
			bids[i].User = &u
		}
	}
	return bids, nil
}

func (m memBids) CountByProduct(_ context.Context, productID uint) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.ranked(productID))), nil
}

type memCategories struct{ s *MemStore }

func (m memCategories) Create(_ context.Context, c *domain.Category) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("categories.Create"); err != nil {
		return err
	}
	for _, other := range s.data.categories {
		if other.Title == c.Title {
			return store.ErrDuplicate
		}
	}
	c.ID = s.id()
	c.CreatedAt, c.UpdatedAt = s.now(), s.clock
	s.data.categories[c.ID] = *c
	return nil
}

func (m memCategories) GetByID(_ context.Context, id uint) (domain.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.data.categories[id]
	if !ok {
		return domain.Category{}, store.ErrNotFound
	}
	return c, nil
}

func (m memCategories) GetByTitle(_ context.Context, title string) (domain.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.data.categories {
		if c.Title == title {
			return c, nil
		}
	}
	return domain.Category{}, store.ErrNotFound
}

func (m memCategories) List(_ context.Context) ([]domain.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []domain.Category{}
	for _, c := range m.s.data.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m memCategories) UpdateTitle(_ context.Context, id uint, title string) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("categories.UpdateTitle"); err != nil {
		return err
	}
	for _, other := range s.data.categories {
		if other.Title == title && other.ID != id {
			return store.ErrDuplicate
		}
	}
	c, ok := s.data.categories[id]
	if !ok {
		return nil
	}
	c.Title, c.UpdatedAt = title, s.now()
	s.data.categories[id] = c
	return nil
}

func (m memCategories) Delete(_ context.Context, id uint) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("categories.Delete"); err != nil {
		return err
	}
	if _, ok := s.data.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.data.categories, id)
	return nil
}

type memWishlist struct{ s *MemStore }

func (m memWishlist) Add(_ context.Context, item *domain.WishlistItem) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("wishlist.Add"); err != nil {
		return err
	}
	for _, other := range s.data.wishlist {
		if other.UserID == item.UserID && other.ProductID == item.ProductID {
			return store.ErrDuplicate
		}
	}
	item.ID = s.id()
	item.CreatedAt = s.now()
	s.data.wishlist[item.ID] = *item
	return nil
}

func (m memWishlist) Exists(_ context.Context, userID, productID uint) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, w := range m.s.data.wishlist {
		if w.UserID == userID && w.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m memWishlist) Remove(_ context.Context, userID, productID uint) error {
	return m.deleteWhere("wishlist.Remove", true, func(w domain.WishlistItem) bool {
		return w.UserID == userID && w.ProductID == productID
	})
}

func (m memWishlist) ListByUser(_ context.Context, userID uint) ([]domain.WishlistItem, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.WishlistItem{}
	for _, w := range s.data.wishlist {
		if w.UserID != userID {
			continue
		}
		if p, ok := s.data.products[w.ProductID]; ok {
			p = s.preload(p)
			w.Product = &p
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m memWishlist) DeleteByProduct(_ context.Context, productID uint) error {
	return m.deleteWhere("wishlist.DeleteByProduct", false, func(w domain.WishlistItem) bool {
		return w.ProductID == productID
	})
}

func (m memWishlist) DeleteByUser(_ context.Context, userID uint) error {
	return m.deleteWhere("wishlist.DeleteByUser", false, func(w domain.WishlistItem) bool {
		return w.UserID == userID
	})
}

func (m memWishlist) deleteWhere(op string, mustMatch bool, match func(domain.WishlistItem) bool) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(op); err != nil {
		return err
	}
	n := 0
	for id, w := range s.data.wishlist {
		if match(w) {
			delete(s.data.wishlist, id)
			n++
		}
	}
	if mustMatch && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

var _ store.Store = (*MemStore)(nil)
