package memory

import (
	"context"
	"sort"

	"menagerie/internal/domain/pets"
)

type eventRepo struct {
	s *store
}

func (r *eventRepo) Create(ctx context.Context, e pets.Event) (pets.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.eventSeq++
	e.ID = r.s.eventSeq
	r.s.events[e.ID] = e
	return e, nil
}

func (r *eventRepo) ListByPet(ctx context.Context, petID int64, spec pets.SortSpec) ([]pets.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Event, 0)
	for _, e := range r.s.events {
		if e.PetID == petID {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if spec.Order == "DESC" {
			a, b = b, a
		}

		switch spec.Key {
		case "type":
			if a.Type != b.Type {
				return a.Type < b.Type
			}
		case "remark":
			if a.Remark != b.Remark {
				return a.Remark < b.Remark
			}
		case "id":
			return a.ID < b.ID
		default: // date
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
		}
		// desempate estable por id asc, como los adapters SQL
		return out[i].ID < out[j].ID
	})

	return out, nil
}
