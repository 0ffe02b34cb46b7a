package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	"github.com/kikibeach/kiki-pos/internal/domain/event"
	"github.com/kikibeach/kiki-pos/internal/domain/repository"
)

type fakeMenuRepo struct {
	mu    sync.Mutex
	items map[uint]*entity.MenuItem
	next  uint
}

func newFakeMenuRepo(items ...entity.MenuItem) *fakeMenuRepo {
	r := &fakeMenuRepo{items: map[uint]*entity.MenuItem{}}
	for i := range items {
		it := items[i]
		r.items[it.ID] = &it
		if it.ID > r.next {
			r.next = it.ID
		}
	}
	return r
}

func (r *fakeMenuRepo) Create(_ context.Context, item *entity.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	item.ID = r.next
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeMenuRepo) GetByID(_ context.Context, id uint) (*entity.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeMenuRepo) GetByIDs(_ context.Context, ids []uint) ([]entity.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.MenuItem
	for _, id := range ids {
		if it, ok := r.items[id]; ok {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *fakeMenuRepo) Update(_ context.Context, item *entity.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeMenuRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeMenuRepo) List(context.Context, *repository.MenuFilterParams) ([]entity.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.MenuItem
	for _, it := range r.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMenuRepo) SetStock(_ context.Context, id uint, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it, ok := r.items[id]; ok {
		it.Stock = stock
	}
	return nil
}

func (r *fakeMenuRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *fakeMenuRepo) stock(id uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Stock
}

type fakeCategoryRepo struct {
	categories []entity.Category
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	c.ID = uint(len(r.categories) + 1)
	r.categories = append(r.categories, *c)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uint) (*entity.Category, error) {
	for i := range r.categories {
		if r.categories[i].ID == id {
			return &r.categories[i], nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	for i := range r.categories {
		if r.categories[i].Slug == slug {
			return &r.categories[i], nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) List(_ context.Context, group *enum.CategoryGroup) ([]entity.Category, error) {
	var out []entity.Category
	for _, c := range r.categories {
		if group == nil || c.Group == *group {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeOrderRepo reserves stock against a fakeMenuRepo the way the gorm
// repository does inside its transaction.
type fakeOrderRepo struct {
	mu      sync.Mutex
	menu    *fakeMenuRepo
	orders  map[uint]*entity.Order
	next    uint
	now     func() time.Time
	failErr error
}

func newFakeOrderRepo(menu *fakeMenuRepo, now func() time.Time) *fakeOrderRepo {
	return &fakeOrderRepo{menu: menu, orders: map[uint]*entity.Order{}, now: now}
}

func (r *fakeOrderRepo) CreateWithStock(_ context.Context, order *entity.Order) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.menu.mu.Lock()
	var failed []uint
	for _, it := range order.Items {
		m, ok := r.menu.items[it.MenuItemID]
		if !ok || m.Stock < it.Quantity {
			failed = append(failed, it.MenuItemID)
		}
	}
	if len(failed) > 0 {
		r.menu.mu.Unlock()
		return &repository.InsufficientStockError{MenuItemIDs: failed}
	}
	for _, it := range order.Items {
		r.menu.items[it.MenuItemID].Stock -= it.Quantity
	}
	r.menu.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	order.ID = r.next
	if order.CreatedAt.IsZero() {
		order.CreatedAt = r.now()
	}
	cp := *order
	cp.Items = append([]entity.OrderItem(nil), order.Items...)
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) put(o entity.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := o
	r.orders[o.ID] = &cp
	if o.ID > r.next {
		r.next = o.ID
	}
}

func (r *fakeOrderRepo) GetWithItems(_ context.Context, id uint) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListActive(_ context.Context, from, to time.Time) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.orders {
		if !o.IsArchived && !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeOrderRepo) ListHistory(_ context.Context, params *repository.OrderHistoryParams) ([]entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.orders {
		if o.CreatedAt.Before(params.From) || !o.CreatedAt.Before(params.To) {
			continue
		}
		for _, s := range params.Statuses {
			if o.Status == s {
				out = append(out, *o)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if p := params.Pagination; p != nil {
		p.Validate()
		start := p.Offset()
		if start > len(out) {
			start = len(out)
		}
		end := start + p.PerPage
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uint, status enum.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *fakeOrderRepo) Archive(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		o.IsArchived = true
	}
	return nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := r.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.OrderCreated
	err    error
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, evt event.OrderCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type recordingPrinter struct {
	mu        sync.Mutex
	kind      string
	jobs      [][]byte
	err       error
	connected bool
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *recordingPrinter) IsConnected(context.Context) bool { return p.connected }

func (p *recordingPrinter) Type() string { return p.kind }

func (p *recordingPrinter) last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.jobs) == 0 {
		return ""
	}
	return string(p.jobs[len(p.jobs)-1])
}

var errPrinterDown = errors.New("connection refused")

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }
