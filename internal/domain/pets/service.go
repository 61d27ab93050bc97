package pets

import (
	"context"
	"strings"
	"time"

	"menagerie/internal/platform/logger"
)

// Service concentra las reglas de negocio: chequeos de existencia,
// copia de campos en update, inyección del padre al crear eventos y
// traducción de fallas del storage a la taxonomía de errores.
type Service struct {
	pets   PetRepository
	events EventRepository
	log    logger.Logger
}

// NewService recibe sus colaboradores por parámetro explícito
// (sin contenedor de inyección).
func NewService(pets PetRepository, events EventRepository, log logger.Logger) *Service {
	return &Service{
		pets:   pets,
		events: events,
		log:    log,
	}
}

// PetInput es el set completo de campos escribibles de una mascota.
// PUT es overwrite total, así que create y update comparten el shape.
type PetInput struct {
	Name    string
	Owner   string
	Species string
	Sex     Sex
	Birth   *time.Time
	Death   *time.Time
}

func (in PetInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidf("name is required")
	}
	if strings.TrimSpace(in.Species) == "" {
		return invalidf("species is required")
	}
	if in.Sex != "" && !ValidSex(in.Sex) {
		return invalidf("unknown sex: %q", in.Sex)
	}
	return nil
}

// EventInput son los campos escribibles de un evento. El pet dueño
// no viene acá: lo resuelve AddEvent a partir del petID.
type EventInput struct {
	Date   time.Time
	Type   string
	Remark string
}

// ListPets devuelve todas las mascotas, o solo las de la especie indicada
// cuando species no está vacío (match exacto). Lista vacía es resultado válido.
func (s *Service) ListPets(ctx context.Context, species string) ([]Pet, error) {
	species = strings.TrimSpace(species)
	if species == "" {
		return s.pets.List(ctx)
	}
	return s.pets.ListBySpecies(ctx, species)
}

// GetPet devuelve ErrNotFound si no existe; el caller decide cómo exponerlo.
func (s *Service) GetPet(ctx context.Context, id int64) (Pet, error) {
	return s.pets.GetByID(ctx, id)
}

// ListEvents devuelve los eventos de la mascota ordenados según sort.
func (s *Service) ListEvents(ctx context.Context, petID int64, sort SortSpec) ([]Event, error) {
	return s.events.ListByPet(ctx, petID, sort)
}

// CreatePet persiste una mascota nueva y devuelve el registro con el id
// que asignó el storage.
func (s *Service) CreatePet(ctx context.Context, in PetInput) (Pet, error) {
	if err := in.validate(); err != nil {
		return Pet{}, err
	}

	p := applyInput(Pet{}, in)
	created, err := s.pets.Create(ctx, p)
	if err != nil {
		s.log.Error("create pet rejected by storage", map[string]any{"err": err.Error()})
		return Pet{}, constraintErr(err)
	}

	s.log.Info("pet created", map[string]any{"pet_id": created.ID})
	return created, nil
}

// UpdatePet sobreescribe name/owner/species/sex/birth/death sobre el registro
// existente. El id y la colección de eventos no se tocan.
func (s *Service) UpdatePet(ctx context.Context, id int64, in PetInput) (Pet, error) {
	if err := in.validate(); err != nil {
		return Pet{}, err
	}

	existing, err := s.pets.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	updated := applyInput(existing, in)
	if err := s.pets.Update(ctx, updated); err != nil {
		s.log.Error("update pet rejected by storage", map[string]any{"pet_id": id, "err": err.Error()})
		return Pet{}, constraintErr(err)
	}

	s.log.Info("pet updated", map[string]any{"pet_id": id})
	return updated, nil
}

// AddEvent exige que la mascota exista y recién ahí setea la referencia
// al padre y persiste. Nunca deben existir eventos huérfanos.
func (s *Service) AddEvent(ctx context.Context, petID int64, in EventInput) (Event, error) {
	if in.Date.IsZero() {
		return Event{}, invalidf("date is required")
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Event{}, err
	}

	e := Event{
		PetID:  pet.ID,
		Date:   in.Date,
		Type:   strings.TrimSpace(in.Type),
		Remark: strings.TrimSpace(in.Remark),
	}

	created, err := s.events.Create(ctx, e)
	if err != nil {
		s.log.Error("add event rejected by storage", map[string]any{"pet_id": petID, "err": err.Error()})
		return Event{}, constraintErr(err)
	}

	s.log.Info("event created", map[string]any{"pet_id": petID, "event_id": created.ID})
	return created, nil
}

// DeletePet borra la mascota y sus eventos en cascada. El chequeo de
// existencia vive acá; la atomicidad del borrado la garantiza el repo.
func (s *Service) DeletePet(ctx context.Context, id int64) error {
	ok, err := s.pets.Exists(ctx, id)
	if err != nil {
		return constraintErr(err)
	}
	if !ok {
		return ErrNotFound
	}

	if err := s.pets.Delete(ctx, id); err != nil {
		s.log.Error("delete pet rejected by storage", map[string]any{"pet_id": id, "err": err.Error()})
		return constraintErr(err)
	}

	s.log.Info("pet deleted", map[string]any{"pet_id": id})
	return nil
}

func applyInput(p Pet, in PetInput) Pet {
	p.Name = strings.TrimSpace(in.Name)
	p.Owner = strings.TrimSpace(in.Owner)
	p.Species = strings.TrimSpace(in.Species)
	p.Sex = in.Sex
	if p.Sex == "" {
		p.Sex = SexUnknown
	}
	p.Birth = in.Birth
	p.Death = in.Death
	return p
}
