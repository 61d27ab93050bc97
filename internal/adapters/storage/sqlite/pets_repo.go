package sqlite

import (
	"context"
	"database/sql"
	"time"

	"menagerie/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (name, owner, species, sex, birth, death)
		VALUES (?,?,?,?,?,?)
	`,
		p.Name,
		p.Owner,
		p.Species,
		string(p.Sex),
		toNullDate(p.Birth),
		toNullDate(p.Death),
	)
	if err != nil {
		return pets.Pet{}, err
	}

	p.ID, err = res.LastInsertId()
	if err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, owner, species, sex, birth, death
		FROM pets
		WHERE id = ?
	`, id)

	p, err := scanPet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, owner, species, sex, birth, death
		FROM pets
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPets(rows)
}

func (r *PetsRepo) ListBySpecies(ctx context.Context, species string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, owner, species, sex, birth, death
		FROM pets
		WHERE species = ?
		ORDER BY id ASC
	`, species)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPets(rows)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET name = ?, owner = ?, species = ?, sex = ?, birth = ?, death = ?
		WHERE id = ?
	`,
		p.Name,
		p.Owner,
		p.Species,
		string(p.Sex),
		toNullDate(p.Birth),
		toNullDate(p.Death),
		p.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM pets WHERE id = ?)
	`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Delete es el mismo borrado en dos pasos del adapter de Postgres:
// eventos primero, mascota después, en una transacción. El FK con
// ON DELETE CASCADE queda como red de seguridad.
func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE pet_id = ?`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var sex string
	var birth, death sql.NullTime

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Owner,
		&p.Species,
		&sex,
		&birth,
		&death,
	); err != nil {
		return pets.Pet{}, err
	}

	p.Sex = pets.Sex(sex)
	p.Birth = fromNullDate(birth)
	p.Death = fromNullDate(death)
	return p, nil
}

func collectPets(rows *sql.Rows) ([]pets.Pet, error) {
	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullDate(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
