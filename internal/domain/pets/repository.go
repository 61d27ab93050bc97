package pets

import (
	"context"
	"strings"
)

// PetRepository expone exactamente las operaciones que usa el service.
// Delete es en cascada: borra los eventos de la mascota y luego la mascota,
// dentro de una misma transacción en los adapters SQL.
type PetRepository interface {
	Create(ctx context.Context, p Pet) (Pet, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	List(ctx context.Context) ([]Pet, error)
	ListBySpecies(ctx context.Context, species string) ([]Pet, error)
	Update(ctx context.Context, p Pet) error
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type EventRepository interface {
	Create(ctx context.Context, e Event) (Event, error)
	ListByPet(ctx context.Context, petID int64, sort SortSpec) ([]Event, error)
}

// SortSpec es un orden ya validado para ListByPet.
// Solo se construye vía ParseSort, así los adapters pueden interpolar
// Key/Order en el ORDER BY sin riesgo de inyección.
type SortSpec struct {
	Key   string // date, type, remark, id
	Order string // ASC, DESC
}

const (
	defaultSortKey   = "date"
	defaultSortOrder = "DESC"
)

// ParseSort valida sortKey/sortOrder. Vacío aplica defaults (date DESC);
// un valor desconocido falla con ErrInvalidInput, nunca se corrige en silencio.
func ParseSort(key, order string) (SortSpec, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = defaultSortKey
	}
	switch key {
	case "date", "type", "remark", "id":
	default:
		return SortSpec{}, invalidf("unknown sort key: %q", key)
	}

	order = strings.ToUpper(strings.TrimSpace(order))
	if order == "" {
		order = defaultSortOrder
	}
	switch order {
	case "ASC", "DESC":
	default:
		return SortSpec{}, invalidf("sort order must be ASC or DESC, got %q", order)
	}

	return SortSpec{Key: key, Order: order}, nil
}
