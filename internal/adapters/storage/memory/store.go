package memory

import (
	"sync"

	"menagerie/internal/domain/pets"
)

// store es el estado compartido de los dos repos in-memory. Compartirlo
// permite que el delete de una mascota borre sus eventos bajo el mismo lock,
// igual que la transacción de los adapters SQL.
type store struct {
	mu sync.RWMutex

	pets   map[int64]pets.Pet
	events map[int64]pets.Event

	petSeq   int64
	eventSeq int64
}

// NewStore devuelve los repos in-memory para dev y tests.
func NewStore() (pets.PetRepository, pets.EventRepository) {
	s := &store{
		pets:   make(map[int64]pets.Pet),
		events: make(map[int64]pets.Event),
	}
	return &petRepo{s: s}, &eventRepo{s: s}
}
