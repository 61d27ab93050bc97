package pets

import "time"

// Event es una ocurrencia fechada (visita, tratamiento, etc.) que pertenece
// a exactamente una mascota. No guarda puntero a Pet: la vista {pet, events}
// se arma en el service con la consulta por pet_id.
type Event struct {
	ID    int64
	PetID int64

	Date   time.Time
	Type   string
	Remark string
}
