package application_test

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/greenpc/marketplace/internal/domain/entity"
	"github.com/greenpc/marketplace/internal/domain/repository"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	u.ID = uuid.NewString()
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) List(_ context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) ListByRole(_ context.Context, role entity.Role) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.User
	for _, u := range r.byEmail {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) MarkSellerVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			u.SellerVerified = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, u := range r.byEmail {
		if u.ID == id {
			delete(r.byEmail, email)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memCategoryRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{byID: map[string]*entity.Category{}}
}

func (r *memCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	c.ID = uuid.NewString()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name = strings.ToLower(name)
	for _, c := range r.byID {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memCategoryRepo) List(_ context.Context) ([]entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCategoryRepo) ListNames(_ context.Context) ([]string, error) {
	cats, _ := r.List(nil)
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return names, nil
}

type memProductRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{byID: map[string]*entity.Product{}}
}

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Status == "" {
		p.Status = entity.StatusListed
	}
	p.ID = uuid.NewString()
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) listWhere(pred func(*entity.Product) bool) []entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.byID {
		if pred(p) {
			out = append(out, *p)
		}
	}
	return out
}

func (r *memProductRepo) ListBySeller(_ context.Context, sellerEmail string) ([]entity.Product, error) {
	return r.listWhere(func(p *entity.Product) bool { return p.SellerEmail == sellerEmail }), nil
}

func (r *memProductRepo) ListAdvertised(_ context.Context) ([]entity.Product, error) {
	return r.listWhere(func(p *entity.Product) bool { return p.Status == entity.StatusAdvertised }), nil
}

func (r *memProductRepo) ListByCategory(_ context.Context, categoryID string) ([]entity.Product, error) {
	return r.listWhere(func(p *entity.Product) bool { return p.CategoryID == categoryID }), nil
}

func (r *memProductRepo) ListWishlistedBy(_ context.Context, buyerEmail string) ([]entity.Product, error) {
	return r.listWhere(func(p *entity.Product) bool {
		return p.WishlistedBy != nil && *p.WishlistedBy == buyerEmail
	}), nil
}

func (r *memProductRepo) ListReported(_ context.Context) ([]entity.Product, error) {
	return r.listWhere(func(p *entity.Product) bool { return p.Reported }), nil
}

func (r *memProductRepo) Advertise(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.Status == entity.StatusSold {
		return false, nil
	}
	p.Status = entity.StatusAdvertised
	return true, nil
}

func (r *memProductRepo) SetWishlist(_ context.Context, id, buyerEmail string, allowSold bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if p.Status == entity.StatusSold && !allowSold {
		return false, nil
	}
	p.WishlistedBy = &buyerEmail
	return true, nil
}

func (r *memProductRepo) MarkReported(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Reported = true
	return nil
}

func (r *memProductRepo) SetImageURL(_ context.Context, id, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.ImageURL = url
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type memOrderRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{byID: map[string]*entity.Order{}}
}

func (r *memOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = uuid.NewString()
	cp := *o
	r.byID[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) ListByBuyer(_ context.Context, buyerEmail string) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.byID {
		if o.BuyerEmail == buyerEmail {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListBySeller(_ context.Context, sellerEmail string) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.byID {
		if o.SellerEmail == sellerEmail {
			out = append(out, *o)
		}
	}
	return out, nil
}

// memSettler applies the settlement contract against the in-memory repos:
// exactly one finalize wins per order/product pair, repeats report no-op.
type memSettler struct {
	mu       sync.Mutex
	orders   *memOrderRepo
	products *memProductRepo
}

func (s *memSettler) Finalize(_ context.Context, orderID, productID string) (entity.SettlementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders.mu.Lock()
	o, orderOK := s.orders.byID[orderID]
	s.orders.mu.Unlock()
	s.products.mu.Lock()
	p, productOK := s.products.byID[productID]
	s.products.mu.Unlock()

	if !orderOK || !productOK {
		return entity.SettlementResult{}, repository.ErrNotFound
	}
	if o.Paid || p.Status == entity.StatusSold {
		return entity.SettlementResult{}, repository.ErrAlreadySettled
	}
	o.Paid = true
	p.Status = entity.StatusSold
	p.Paid = true
	p.WishlistedBy = nil
	return entity.SettlementResult{OrderApplied: true, ProductApplied: true}, nil
}
