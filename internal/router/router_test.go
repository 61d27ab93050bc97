package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"menagerie/internal/router"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	// fija el storage in-memory aunque el entorno tenga DSNs configurados
	t.Setenv("DB_DSN", "")
	t.Setenv("SQLITE_DSN", "")
	t.Setenv("LOG_LEVEL", "error")

	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_PetLifecycle(t *testing.T) {
	ts := newServer(t)

	// 1) Crear mascota
	petID := createPet(t, ts.URL, map[string]any{
		"name":    "Mimi",
		"owner":   "Lee",
		"species": "cat",
		"sex":     "FEMALE",
	})

	// 2) Perfil con eventos vacíos
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get pet, got %d body=%s", st, string(body))
		}
		var resp struct {
			Pet struct {
				ID      json.Number `json:"id"`
				Name    string      `json:"name"`
				Species string      `json:"species"`
			} `json:"pet"`
			Events []any `json:"events"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("unmarshal: %v body=%s", err, string(body))
		}
		if resp.Pet.ID.String() != petID {
			t.Fatalf("expected stable id %s, got %s", petID, resp.Pet.ID)
		}
		if resp.Pet.Name != "Mimi" || resp.Pet.Species != "cat" {
			t.Fatalf("unexpected pet body=%s", string(body))
		}
		if len(resp.Events) != 0 {
			t.Fatalf("expected empty events, got %d", len(resp.Events))
		}
	}

	// 3) Agregar evento por la ruta histórica /{id}/events
	{
		st, body := doReq(t, ts.URL, "POST", "/"+petID+"/events", map[string]any{
			"date":   "2023-05-01",
			"type":   "checkup",
			"remark": "ok",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 add event, got %d body=%s", st, string(body))
		}
	}

	// 4) El perfil ahora lista el evento
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"?sortKey=date&sortOrder=DESC", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get pet, got %d body=%s", st, string(body))
		}
		events := eventsOf(t, body)
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d body=%s", len(events), string(body))
		}
		if events[0].Type != "checkup" || events[0].Date != "2023-05-01" {
			t.Fatalf("unexpected event body=%s", string(body))
		}
	}

	// 5) Borrar por la ruta histórica /pet/{id}
	{
		st, body := doReq(t, ts.URL, "DELETE", "/pet/"+petID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete pet, got %d body=%s", st, string(body))
		}
	}

	// 6) La mascota ya no existe
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

func TestHTTP_CreateRoundTrip(t *testing.T) {
	ts := newServer(t)

	petID := createPet(t, ts.URL, map[string]any{
		"name":    "Rex",
		"owner":   "Ana",
		"species": "dog",
		"sex":     "MALE",
		"birth":   "2020-01-01",
	})

	st, body := doReq(t, ts.URL, "GET", "/pets/"+petID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}

	var resp struct {
		Pet struct {
			ID      json.Number `json:"id"`
			Name    string      `json:"name"`
			Owner   string      `json:"owner"`
			Species string      `json:"species"`
			Sex     string      `json:"sex"`
			Birth   *string     `json:"birth"`
			Death   *string     `json:"death"`
		} `json:"pet"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Pet.Name != "Rex" || resp.Pet.Owner != "Ana" || resp.Pet.Species != "dog" || resp.Pet.Sex != "MALE" {
		t.Fatalf("round trip mismatch body=%s", string(body))
	}
	if resp.Pet.Birth == nil || *resp.Pet.Birth != "2020-01-01" {
		t.Fatalf("expected birth 2020-01-01, body=%s", string(body))
	}
	if resp.Pet.Death != nil {
		t.Fatalf("expected null death, body=%s", string(body))
	}
}

func TestHTTP_SpeciesFilter(t *testing.T) {
	ts := newServer(t)

	createPet(t, ts.URL, map[string]any{"name": "Rex", "species": "dog"})
	createPet(t, ts.URL, map[string]any{"name": "Mimi", "species": "cat"})
	createPet(t, ts.URL, map[string]any{"name": "Toby", "species": "dog"})

	{
		st, body := doReq(t, ts.URL, "GET", "/pets?species=dog", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		pets := petsOf(t, body)
		if len(pets) != 2 {
			t.Fatalf("expected 2 dogs, got %d body=%s", len(pets), string(body))
		}
		for _, p := range pets {
			if p.Species != "dog" {
				t.Fatalf("filter leaked species %q", p.Species)
			}
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/pets", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d", st)
		}
		if got := len(petsOf(t, body)); got != 3 {
			t.Fatalf("expected 3 pets without filter, got %d", got)
		}
	}
}

func TestHTTP_EventSorting(t *testing.T) {
	ts := newServer(t)

	petID := createPet(t, ts.URL, map[string]any{"name": "Mimi", "species": "cat"})

	for _, date := range []string{"2023-03-10", "2023-01-05", "2023-07-20"} {
		st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/events", map[string]any{
			"date": date,
			"type": "checkup",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", st, string(body))
		}
	}

	{
		_, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"?sortKey=date&sortOrder=ASC", nil)
		dates := eventDates(t, body)
		for i := 1; i < len(dates); i++ {
			if dates[i] < dates[i-1] {
				t.Fatalf("ASC order broken: %v", dates)
			}
		}
	}

	{
		_, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"?sortKey=date&sortOrder=DESC", nil)
		dates := eventDates(t, body)
		for i := 1; i < len(dates); i++ {
			if dates[i] > dates[i-1] {
				t.Fatalf("DESC order broken: %v", dates)
			}
		}
	}

	// dirección u orden inválidos fallan, no se corrigen en silencio
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID+"?sortOrder=sideways", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad sortOrder, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID+"?sortKey=owner", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad sortKey, got %d", st)
		}
	}
}

func TestHTTP_UpdateKeepsIDAndEvents(t *testing.T) {
	ts := newServer(t)

	petID := createPet(t, ts.URL, map[string]any{
		"name":    "Rex",
		"owner":   "Ana",
		"species": "dog",
		"sex":     "MALE",
	})

	st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/events", map[string]any{
		"date": "2023-05-01",
		"type": "vaccine",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}

	// overwrite cambiando solo species
	st, body = doReq(t, ts.URL, "PUT", "/pets/"+petID, map[string]any{
		"name":    "Rex",
		"owner":   "Ana",
		"species": "wolf",
		"sex":     "MALE",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 update, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/pets/"+petID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var resp struct {
		Pet struct {
			ID      json.Number `json:"id"`
			Species string      `json:"species"`
		} `json:"pet"`
		Events []any `json:"events"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Pet.ID.String() != petID {
		t.Fatalf("update changed id: %s -> %s", petID, resp.Pet.ID)
	}
	if resp.Pet.Species != "wolf" {
		t.Fatalf("expected species wolf, got %q", resp.Pet.Species)
	}
	if len(resp.Events) != 1 {
		t.Fatalf("update touched events: got %d", len(resp.Events))
	}
}

func TestHTTP_MissingPet(t *testing.T) {
	ts := newServer(t)

	if st, _ := doReq(t, ts.URL, "GET", "/pets/999", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 get, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "PUT", "/pets/999", map[string]any{"name": "X", "species": "dog"}); st != http.StatusNotFound {
		t.Fatalf("expected 404 update, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", "/pet/999", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 delete, got %d", st)
	}

	// agregar evento a mascota inexistente: 404 y no persiste nada
	st, _ := doReq(t, ts.URL, "POST", "/999/events", map[string]any{
		"date": "2023-05-01",
		"type": "checkup",
	})
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 add event, got %d", st)
	}
}

func TestHTTP_DeleteCascadesViaNormalizedRoute(t *testing.T) {
	ts := newServer(t)

	petID := createPet(t, ts.URL, map[string]any{"name": "Mimi", "species": "cat"})

	st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/events", map[string]any{
		"date": "2023-05-01",
		"type": "checkup",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}

	if st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID, nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 on plural delete route, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID, nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", st)
	}
}

func TestHTTP_CreateValidation(t *testing.T) {
	ts := newServer(t)

	// sin name ni species
	if st, _ := doReq(t, ts.URL, "POST", "/pets", map[string]any{"owner": "Ana"}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", st)
	}

	// sexo desconocido
	st, _ := doReq(t, ts.URL, "POST", "/pets", map[string]any{
		"name": "Rex", "species": "dog", "sex": "YES",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sex, got %d", st)
	}

	// fecha mal formada
	st, _ = doReq(t, ts.URL, "POST", "/pets", map[string]any{
		"name": "Rex", "species": "dog", "birth": "01/01/2020",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad birth, got %d", st)
	}
}

// -------------------------
// helpers
// -------------------------

type petBody struct {
	ID      json.Number `json:"id"`
	Name    string      `json:"name"`
	Species string      `json:"species"`
}

type eventBody struct {
	ID     json.Number `json:"id"`
	PetID  json.Number `json:"pet_id"`
	Date   string      `json:"date"`
	Type   string      `json:"type"`
	Remark string      `json:"remark"`
}

func createPet(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp petBody
	_ = json.Unmarshal(body, &resp)
	if resp.ID.String() == "" || resp.ID.String() == "0" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID.String()
}

func petsOf(t *testing.T, body []byte) []petBody {
	t.Helper()

	var out []petBody
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal pets: %v body=%s", err, string(body))
	}
	return out
}

func eventsOf(t *testing.T, body []byte) []eventBody {
	t.Helper()

	var resp struct {
		Events []eventBody `json:"events"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal events: %v body=%s", err, string(body))
	}
	return resp.Events
}

func eventDates(t *testing.T, body []byte) []string {
	t.Helper()

	events := eventsOf(t, body)
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Date)
	}
	return out
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
