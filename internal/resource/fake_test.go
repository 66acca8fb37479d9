package resource

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[string]*Resource
	seq   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]*Resource{}}
}

func (f *fakeRepo) Create(_ context.Context, res *Resource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	res.ID = "00000000-0000-0000-0000-" + pad(f.seq)
	res.CreatedAt = time.Date(2026, 1, 1, 0, 0, f.seq, 0, time.UTC)
	res.UpdatedAt = res.CreatedAt
	cp := *res
	f.items[res.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]*Resource, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*Resource
	for _, r := range f.items {
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		cp := *r
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all, len(all), nil
}

func (f *fakeRepo) Update(_ context.Context, res *Resource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[res.ID]; !ok {
		return ErrNotFound
	}
	cp := *res
	f.items[res.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func pad(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 12 {
		s = "0" + s
	}
	return s
}
