package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"buildseason/internal/domain/model"
	repo "buildseason/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// in-memory store（WithinTxでエラーなら丸ごと巻き戻す）
// =====================

type memStore struct {
	orders      map[string]model.Order
	items       []model.OrderItem
	parts       map[string]model.Part
	vendors     map[string]model.Vendor
	adjustments []model.InventoryAdjustment
	audits      []model.AuditLog

	// 障害注入
	failSumTotal   error
	failItemCreate error
}

func newMemStore() *memStore {
	return &memStore{
		orders:  map[string]model.Order{},
		parts:   map[string]model.Part{},
		vendors: map[string]model.Vendor{},
	}
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		orders:         make(map[string]model.Order, len(s.orders)),
		items:          append([]model.OrderItem(nil), s.items...),
		parts:          make(map[string]model.Part, len(s.parts)),
		vendors:        make(map[string]model.Vendor, len(s.vendors)),
		adjustments:    append([]model.InventoryAdjustment(nil), s.adjustments...),
		audits:         append([]model.AuditLog(nil), s.audits...),
		failSumTotal:   s.failSumTotal,
		failItemCreate: s.failItemCreate,
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.parts {
		c.parts[k] = v
	}
	for k, v := range s.vendors {
		c.vendors[k] = v
	}
	return c
}

func (s *memStore) itemsOf(orderID string) []model.OrderItem {
	out := []model.OrderItem{}
	for _, it := range s.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

type memTxManager struct {
	mu sync.Mutex
	s  *memStore
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.s.clone()
	if err := fn(&memRepos{s: m.s}); err != nil {
		*m.s = *snapshot
		return err
	}
	return nil
}

type memRepos struct{ s *memStore }

func (r *memRepos) Orders() repo.OrderRepository         { return &memOrders{s: r.s} }
func (r *memRepos) OrderItems() repo.OrderItemRepository { return &memOrderItems{s: r.s} }
func (r *memRepos) Parts() repo.PartRepository           { return &memParts{s: r.s} }
func (r *memRepos) Inventory() repo.InventoryRepository  { return &memInventory{s: r.s} }
func (r *memRepos) Vendors() repo.VendorRepository       { return &memVendors{s: r.s} }
func (r *memRepos) AuditLogs() repo.AuditLogRepository   { return &memAudits{s: r.s} }

// ---- orders

type memOrders struct{ s *memStore }

func (r *memOrders) FindByID(ctx context.Context, teamID, orderID string) (model.Order, error) {
	o, ok := r.s.orders[orderID]
	if !ok || o.TeamID != teamID {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r *memOrders) FindByIDForUpdate(ctx context.Context, teamID, orderID string) (model.Order, error) {
	return r.FindByID(ctx, teamID, orderID)
}

func (r *memOrders) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	all := []model.Order{}
	for _, o := range r.s.orders {
		if o.TeamID != f.TeamID {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memOrders) CountByStatus(ctx context.Context, teamID string) (map[model.OrderStatus]int64, error) {
	out := map[model.OrderStatus]int64{}
	for _, o := range r.s.orders {
		if o.TeamID == teamID {
			out[o.Status]++
		}
	}
	return out, nil
}

func (r *memOrders) Create(ctx context.Context, o model.Order) error {
	if _, ok := r.s.orders[o.ID]; ok {
		return repo.ErrConflict
	}
	r.s.orders[o.ID] = o
	return nil
}

func (r *memOrders) UpdateDetails(ctx context.Context, orderID string, vendorID, notes *string, updatedAt time.Time) error {
	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.VendorID, o.Notes, o.UpdatedAt = vendorID, notes, updatedAt
	r.s.orders[orderID] = o
	return nil
}

func (r *memOrders) UpdateTotal(ctx context.Context, orderID string, totalCents int64, updatedAt time.Time) error {
	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.TotalCents, o.UpdatedAt = totalCents, updatedAt
	r.s.orders[orderID] = o
	return nil
}

func (r *memOrders) UpdateStatus(ctx context.Context, orderID string, from model.OrderStatus, upd repo.StatusUpdate) error {
	o, ok := r.s.orders[orderID]
	if !ok || o.Status != from {
		return repo.ErrConflict
	}
	o.Status = upd.Status
	o.UpdatedAt = upd.UpdatedAt
	if upd.RejectionReason != nil {
		o.RejectionReason = upd.RejectionReason
	}
	if upd.ApprovedByID != nil {
		o.ApprovedByID = upd.ApprovedByID
	}
	if upd.SubmittedAt != nil {
		o.SubmittedAt = upd.SubmittedAt
	}
	if upd.ApprovedAt != nil {
		o.ApprovedAt = upd.ApprovedAt
	}
	if upd.OrderedAt != nil {
		o.OrderedAt = upd.OrderedAt
	}
	if upd.ReceivedAt != nil {
		o.ReceivedAt = upd.ReceivedAt
	}
	r.s.orders[orderID] = o
	return nil
}

// ---- order items

type memOrderItems struct{ s *memStore }

func (r *memOrderItems) Create(ctx context.Context, it model.OrderItem) error {
	if r.s.failItemCreate != nil {
		return r.s.failItemCreate
	}
	if _, ok := r.s.orders[it.OrderID]; !ok {
		return repo.ErrNotFound
	}
	r.s.items = append(r.s.items, it)
	return nil
}

func (r *memOrderItems) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	return r.s.itemsOf(orderID), nil
}

func (r *memOrderItems) CountByOrderID(ctx context.Context, orderID string) (int64, error) {
	return int64(len(r.s.itemsOf(orderID))), nil
}

func (r *memOrderItems) SumTotalByOrderID(ctx context.Context, orderID string) (int64, error) {
	if r.s.failSumTotal != nil {
		return 0, r.s.failSumTotal
	}
	var total int64
	for _, it := range r.s.itemsOf(orderID) {
		total += it.Quantity * it.UnitPriceCents
	}
	return total, nil
}

// ---- parts

type memParts struct{ s *memStore }

func (r *memParts) List(ctx context.Context, f repo.PartListFilter) ([]model.Part, error) {
	q := strings.ToLower(f.Search)
	out := []model.Part{}
	for _, p := range r.s.parts {
		if p.TeamID != f.TeamID {
			continue
		}
		if f.LowStock && !p.IsLowStock() {
			continue
		}
		if q != "" && !partMatches(p, q) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func partMatches(p model.Part, q string) bool {
	fields := []string{p.Name}
	if p.SKU != nil {
		fields = append(fields, *p.SKU)
	}
	if p.Location != nil {
		fields = append(fields, *p.Location)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func (r *memParts) FindByID(ctx context.Context, teamID, partID string) (model.Part, error) {
	p, ok := r.s.parts[partID]
	if !ok || p.TeamID != teamID {
		return model.Part{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *memParts) Create(ctx context.Context, p model.Part) error {
	if _, ok := r.s.parts[p.ID]; ok {
		return repo.ErrConflict
	}
	r.s.parts[p.ID] = p
	return nil
}

// ---- inventory

type memInventory struct{ s *memStore }

func (r *memInventory) SetQuantity(ctx context.Context, partID string, quantity int64) error {
	p, ok := r.s.parts[partID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Quantity = quantity
	r.s.parts[partID] = p
	return nil
}

func (r *memInventory) IncreaseQuantity(ctx context.Context, partID string, delta int64) error {
	p, ok := r.s.parts[partID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Quantity += delta
	r.s.parts[partID] = p
	return nil
}

func (r *memInventory) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	adj.ID = int64(len(r.s.adjustments) + 1)
	r.s.adjustments = append(r.s.adjustments, adj)
	return nil
}

// ---- vendors

type memVendors struct{ s *memStore }

func visible(v model.Vendor, teamID string) bool {
	return v.IsGlobal || (v.TeamID != nil && *v.TeamID == teamID)
}

func (r *memVendors) ListVisible(ctx context.Context, teamID string) ([]model.Vendor, error) {
	out := []model.Vendor{}
	for _, v := range r.s.vendors {
		if visible(v, teamID) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memVendors) FindVisible(ctx context.Context, teamID, vendorID string) (model.Vendor, error) {
	v, ok := r.s.vendors[vendorID]
	if !ok || !visible(v, teamID) {
		return model.Vendor{}, repo.ErrNotFound
	}
	return v, nil
}

// ---- audit logs

type memAudits struct{ s *memStore }

func (r *memAudits) Create(ctx context.Context, log model.AuditLog) error {
	log.ID = int64(len(r.s.audits) + 1)
	r.s.audits = append(r.s.audits, log)
	return nil
}

func (r *memAudits) ListByResource(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	out := []model.AuditLog{}
	for _, a := range r.s.audits {
		if a.TeamID == f.TeamID && a.ResourceType == f.ResourceType && a.ResourceID == f.ResourceID {
			out = append(out, a)
		}
	}
	return out, nil
}

// =====================
// ports
// =====================

type seqIDGen struct {
	mu sync.Mutex
	n  int
}

// UUID形式の連番
func (g *seqIDGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", g.n)
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

// EventPublisher モック
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
