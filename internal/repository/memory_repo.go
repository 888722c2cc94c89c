package repository

import (
	"context"
	"sort"
	"sync"

	"padron-agremiados/internal/model"
	pkgerrors "padron-agremiados/pkg/errors"
)

// memoryAgremiadoRepo in-process AgremiadoRepository used for tests and for
// running without a database (db.driver=memory). It reports the same errors
// as the GORM adapter: pkgerrors.ErrNotFound and pkgerrors.ErrDuplicateKey.
type memoryAgremiadoRepo struct {
	mu     sync.RWMutex
	rows   map[int64]*model.Agremiado
	byCop  map[string]int64
	nextID int64
}

// NewMemoryAgremiadoRepo creates an in-memory repository holding seed.
// Seed rows without an id are assigned one.
func NewMemoryAgremiadoRepo(seed ...model.Agremiado) AgremiadoRepository {
	r := &memoryAgremiadoRepo{
		rows:   make(map[int64]*model.Agremiado),
		byCop:  make(map[string]int64),
		nextID: 1,
	}
	for i := range seed {
		a := seed[i]
		_ = r.insert(&a)
	}
	return r
}

func (r *memoryAgremiadoRepo) insert(a *model.Agremiado) error {
	if _, dup := r.byCop[a.Cop]; dup {
		return pkgerrors.ErrDuplicateKey
	}
	if a.ID == 0 {
		a.ID = r.nextID
	}
	if _, taken := r.rows[a.ID]; taken {
		return pkgerrors.ErrDuplicateKey
	}
	if a.ID >= r.nextID {
		r.nextID = a.ID + 1
	}
	a.RefreshSearchKeys()
	stored := *a
	r.rows[a.ID] = &stored
	r.byCop[a.Cop] = a.ID
	return nil
}

func (r *memoryAgremiadoRepo) Create(_ context.Context, a *model.Agremiado) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = 0
	return r.insert(a)
}

func (r *memoryAgremiadoRepo) GetByID(_ context.Context, id int64) (*model.Agremiado, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.rows[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (r *memoryAgremiadoRepo) List(ctx context.Context, offset, limit int) ([]model.Agremiado, int64, error) {
	return r.Search(ctx, SearchFilter{}, offset, limit)
}

func (r *memoryAgremiadoRepo) Search(_ context.Context, f SearchFilter, offset, limit int) ([]model.Agremiado, int64, error) {
	r.mu.RLock()
	matched := make([]model.Agremiado, 0, len(r.rows))
	for _, a := range r.rows {
		if f.Matches(a) {
			matched = append(matched, *a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].FechaRegistro.Equal(matched[j].FechaRegistro) {
			return matched[i].FechaRegistro.After(matched[j].FechaRegistro)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []model.Agremiado{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *memoryAgremiadoRepo) Update(_ context.Context, id int64, patch *model.AgremiadoPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return pkgerrors.ErrNotFound
	}
	patch.Apply(a)
	return nil
}

func (r *memoryAgremiadoRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return pkgerrors.ErrNotFound
	}
	delete(r.byCop, a.Cop)
	delete(r.rows, id)
	return nil
}

func (r *memoryAgremiadoRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.rows)), nil
}

func (r *memoryAgremiadoRepo) Ping(context.Context) error { return nil }
