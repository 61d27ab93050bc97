package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS pets (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	name    TEXT NOT NULL,
	owner   TEXT NOT NULL DEFAULT '',
	species TEXT NOT NULL,
	sex     TEXT NOT NULL DEFAULT 'UNKNOWN',
	birth   DATE,
	death   DATE
);

CREATE TABLE IF NOT EXISTS events (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	pet_id INTEGER NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
	date   DATE NOT NULL,
	type   TEXT NOT NULL DEFAULT '',
	remark TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_events_pet_id ON events(pet_id);
`

// Open abre (o crea) la base sqlite y deja el esquema listo.
// dsn puede ser una ruta de archivo o ":memory:" para dev.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// sqlite es un archivo: una sola conexión de escritura evita SQLITE_BUSY
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
