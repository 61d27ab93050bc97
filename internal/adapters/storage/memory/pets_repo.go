package memory

import (
	"context"
	"sort"

	"menagerie/internal/domain/pets"
)

type petRepo struct {
	s *store
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.petSeq++
	p.ID = r.s.petSeq
	r.s.pets[p.ID] = p
	return p, nil
}

func (r *petRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) List(ctx context.Context) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.s.pets))
	for _, p := range r.s.pets {
		out = append(out, p)
	}
	sortPets(out)
	return out, nil
}

func (r *petRepo) ListBySpecies(ctx context.Context, species string) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.s.pets {
		if p.Species == species {
			out = append(out, p)
		}
	}
	sortPets(out)
	return out, nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[p.ID]; !ok {
		return pets.ErrNotFound
	}
	r.s.pets[p.ID] = p
	return nil
}

func (r *petRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.pets[id]
	return ok, nil
}

func (r *petRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[id]; !ok {
		return pets.ErrNotFound
	}

	// cascada: eventos y mascota bajo el mismo lock
	for eid, e := range r.s.events {
		if e.PetID == id {
			delete(r.s.events, eid)
		}
	}
	delete(r.s.pets, id)
	return nil
}

// orden estable por id asc, consistente con los adapters SQL
func sortPets(items []pets.Pet) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
}
