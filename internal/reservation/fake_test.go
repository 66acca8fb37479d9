package reservation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nekogravitycat/reservation-backend/internal/event"
	"github.com/nekogravitycat/reservation-backend/internal/resource"
	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

// memRepo is an in-memory Repository. WithResourceLock serialises callers per
// resource the same way the advisory lock does.
type memRepo struct {
	mu    sync.Mutex
	items map[string]*Reservation
	seq   int

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	// delay widens the window between the conflict check and the insert.
	delay time.Duration
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*Reservation{}, locks: map[string]*sync.Mutex{}}
}

func (m *memRepo) snapshot(pred func(*Reservation) bool) []*Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Reservation
	for _, r := range m.items {
		if pred(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, f Filter) ([]*Reservation, int, error) {
	out := m.snapshot(func(r *Reservation) bool {
		return (f.ResourceID == "" || r.ResourceID == f.ResourceID) &&
			(f.CustomerEmail == "" || r.CustomerEmail == f.CustomerEmail) &&
			(f.Status == "" || r.Status == f.Status)
	})
	return out, len(out), nil
}

func (m *memRepo) ListByResource(_ context.Context, resourceID string) ([]*Reservation, error) {
	return m.snapshot(func(r *Reservation) bool { return r.ResourceID == resourceID }), nil
}

func (m *memRepo) ListByResourceAndDate(_ context.Context, resourceID string, day time.Time) ([]*Reservation, error) {
	next := day.AddDate(0, 0, 1)
	return m.snapshot(func(r *Reservation) bool {
		return r.ResourceID == resourceID && !r.StartTime.Before(day) && r.StartTime.Before(next)
	}), nil
}

func (m *memRepo) ListActiveOverlapping(_ context.Context, resourceID string, start, end time.Time) ([]*Reservation, error) {
	return m.snapshot(func(r *Reservation) bool {
		return r.ResourceID == resourceID && r.Status != StatusCancelled &&
			r.StartTime.Before(end) && r.EndTime.After(start)
	}), nil
}

func (m *memRepo) Insert(_ context.Context, r *Reservation) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	r.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", m.seq)
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *memRepo) UpdateFields(_ context.Context, r *Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[r.ID]; !ok {
		return ErrNotFound
	}
	r.UpdatedAt = time.Now()
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memRepo) WithResourceLock(_ context.Context, resourceID string, fn func(Repository) error) error {
	m.lockMu.Lock()
	l, ok := m.locks[resourceID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[resourceID] = l
	}
	m.lockMu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn(m)
}

// put stores r directly, bypassing validation, for arranging fixtures.
func (m *memRepo) put(r Reservation) *Reservation {
	_ = m.Insert(context.Background(), &r)
	return &r
}

type memResources struct {
	items []*resource.Resource
	err   error
}

func (m *memResources) GetByID(_ context.Context, id string) (*resource.Resource, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.items {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, resource.ErrNotFound
}

func (m *memResources) List(_ context.Context, f resource.Filter) ([]*resource.Resource, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	start := (f.Page - 1) * f.PageSize
	if start >= len(m.items) {
		return nil, len(m.items), nil
	}
	end := start + f.PageSize
	if end > len(m.items) {
		end = len(m.items)
	}
	return m.items[start:end], len(m.items), nil
}

type fixedHours struct {
	mu sync.Mutex
	bh scheduling.BusinessHours
}

func (h *fixedHours) BusinessHours() scheduling.BusinessHours {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bh
}

func (h *fixedHours) set(bh scheduling.BusinessHours) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bh = bh
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var errStoreDown = errors.New("store down")
