package pets

import "time"

// Sex define el sexo de la mascota. Se persiste como texto.
// @Enum MALE, FEMALE, UNKNOWN
type Sex string

const (
	SexMale    Sex = "MALE"
	SexFemale  Sex = "FEMALE"
	SexUnknown Sex = "UNKNOWN"
)

// ValidSex reporta si s es uno de los valores soportados.
func ValidSex(s Sex) bool {
	switch s {
	case SexMale, SexFemale, SexUnknown:
		return true
	}
	return false
}

// Pet representa el registro de un animal.
// El ID lo asigna el storage al insertar y es inmutable después.
type Pet struct {
	ID int64

	Name    string
	Owner   string
	Species string
	Sex     Sex

	// Fechas calendario opcionales. Death queda nil mientras viva.
	Birth *time.Time
	Death *time.Time
}
