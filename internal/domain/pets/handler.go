package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Post("/", createPetHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Put("/{petID}", updatePetHandler(svc))

		// Alias normalizados de las rutas históricas de abajo.
		pr.Delete("/{petID}", deletePetHandler(svc))
		pr.Post("/{petID}/events", addEventHandler(svc))
	})

	// Rutas del contrato original: el delete cuelga de /pet/ (singular) y
	// el alta de eventos cuelga de la raíz. Se conservan a propósito.
	r.Delete("/pet/{petID}", deletePetHandler(svc))
	r.Post("/{petID}/events", addEventHandler(svc))
}

// petRequest es el cuerpo de POST /pets y PUT /pets/{id}.
// Las fechas van como YYYY-MM-DD; birth y death son opcionales.
type petRequest struct {
	Name    string  `json:"name"`
	Owner   string  `json:"owner"`
	Species string  `json:"species"`
	Sex     string  `json:"sex" enums:"MALE,FEMALE,UNKNOWN"`
	Birth   *string `json:"birth"`
	Death   *string `json:"death"`
}

type petResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Owner   string  `json:"owner"`
	Species string  `json:"species"`
	Sex     string  `json:"sex"`
	Birth   *string `json:"birth"`
	Death   *string `json:"death"`
}

// eventRequest es el cuerpo de POST /{id}/events. El pet dueño sale del
// path, nunca del body.
type eventRequest struct {
	Date   string `json:"date"`
	Type   string `json:"type"`
	Remark string `json:"remark"`
}

type eventResponse struct {
	ID     int64  `json:"id"`
	PetID  int64  `json:"pet_id"`
	Date   string `json:"date"`
	Type   string `json:"type"`
	Remark string `json:"remark"`
}

// petWithEventsResponse es la vista que devuelve GET /pets/{id}.
type petWithEventsResponse struct {
	Pet    petResponse     `json:"pet"`
	Events []eventResponse `json:"events"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Devuelve todas las mascotas; con ?species= filtra por especie (match exacto).
// @Tags pets
// @Produce json
// @Param species query string false "Filtro por especie"
// @Success 200 {array} petResponse
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPets(r.Context(), r.URL.Query().Get("species"))
		if err != nil {
			writeErr(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Obtener mascota con sus eventos
// @Description Devuelve {pet, events}. sortKey (date|type|remark|id, default date) y sortOrder (ASC|DESC, default DESC) ordenan los eventos; un valor inválido es 400, no se corrige en silencio.
// @Tags pets
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Param sortKey query string false "Campo de orden de los eventos"
// @Param sortOrder query string false "ASC o DESC"
// @Success 200 {object} petWithEventsResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(w, r)
		if !ok {
			return
		}

		sort, err := ParseSort(r.URL.Query().Get("sortKey"), r.URL.Query().Get("sortOrder"))
		if err != nil {
			writeErr(w, err)
			return
		}

		p, err := svc.GetPet(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}

		events, err := svc.ListEvents(r.Context(), id, sort)
		if err != nil {
			writeErr(w, err)
			return
		}

		writeJSON(w, http.StatusOK, petWithEventsResponse{
			Pet:    toPetResponse(p),
			Events: toEventResponses(events),
		})
	}
}

// createPetHandler godoc
// @Summary Crear mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body petRequest true "Datos de la mascota; fechas YYYY-MM-DD"
// @Success 201 {object} petResponse
// @Failure 400 {object} errorResponse
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodePetInput(w, r)
		if !ok {
			return
		}

		created, err := svc.CreatePet(r.Context(), in)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPetResponse(created))
	}
}

// updatePetHandler godoc
// @Summary Sobreescribir mascota
// @Description Overwrite total de name/owner/species/sex/birth/death. El id y los eventos no cambian.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Param payload body petRequest true "Datos completos de la mascota"
// @Success 200 {object} petResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /pets/{petID} [put]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(w, r)
		if !ok {
			return
		}

		in, ok := decodePetInput(w, r)
		if !ok {
			return
		}

		updated, err := svc.UpdatePet(r.Context(), id, in)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

// addEventHandler godoc
// @Summary Agregar evento a una mascota
// @Description La mascota tiene que existir; el evento queda ligado a ella y solo se borra en cascada con ella.
// @Tags events
// @Accept json
// @Produce json
// @Param petID path int true "ID de la mascota dueña"
// @Param payload body eventRequest true "Datos del evento; date YYYY-MM-DD"
// @Success 201 {object} eventResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /pets/{petID}/events [post]
func addEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(w, r)
		if !ok {
			return
		}

		var req eventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}

		created, err := svc.AddEvent(r.Context(), id, EventInput{
			Date:   date,
			Type:   req.Type,
			Remark: req.Remark,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEventResponse(created))
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Description Borra la mascota y todos sus eventos en cascada.
// @Tags pets
// @Param petID path int true "ID de la mascota"
// @Success 204
// @Failure 404 {object} errorResponse
// @Router /pet/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petID(w, r)
		if !ok {
			return
		}

		if err := svc.DeletePet(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func petID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "pet id must be an integer"})
		return 0, false
	}
	return id, true
}

func decodePetInput(w http.ResponseWriter, r *http.Request) (PetInput, bool) {
	var req petRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return PetInput{}, false
	}

	birth, err := parseDate(req.Birth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "birth must be YYYY-MM-DD"})
		return PetInput{}, false
	}
	death, err := parseDate(req.Death)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "death must be YYYY-MM-DD"})
		return PetInput{}, false
	}

	return PetInput{
		Name:    req.Name,
		Owner:   req.Owner,
		Species: req.Species,
		Sex:     Sex(strings.ToUpper(strings.TrimSpace(req.Sex))),
		Birth:   birth,
		Death:   death,
	}, true
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:      p.ID,
		Name:    p.Name,
		Owner:   p.Owner,
		Species: p.Species,
		Sex:     string(p.Sex),
		Birth:   formatDate(p.Birth),
		Death:   formatDate(p.Death),
	}
}

func toEventResponse(e Event) eventResponse {
	return eventResponse{
		ID:     e.ID,
		PetID:  e.PetID,
		Date:   e.Date.Format(dateLayout),
		Type:   e.Type,
		Remark: e.Remark,
	}
}

func toEventResponses(events []Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

// writeErr traduce la taxonomía del dominio a status codes:
// NotFound es 404 en todos los endpoints (política única, ver DESIGN.md),
// input inválido y constraint violation son 400, el resto 500.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "pet not found"})
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConstraint):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
