package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `db:"id"`
	Nombre        string    `db:"nombre"`
	TelefonoMovil string    `db:"telefono_movil"`
	Password      string    `db:"password"`
	Rol           string    `db:"rol"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
