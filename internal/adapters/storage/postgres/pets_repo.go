package postgres

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
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pets (name, owner, species, sex, birth, death)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`,
		p.Name,
		p.Owner,
		p.Species,
		string(p.Sex),
		toNullDate(p.Birth),
		toNullDate(p.Death),
	).Scan(&p.ID)
	if err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, owner, species, sex, birth, death
		FROM pets
		WHERE id = $1
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
		WHERE species = $1
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
		SET
			name = $2,
			owner = $3,
			species = $4,
			sex = $5,
			birth = $6,
			death = $7
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Owner,
		p.Species,
		string(p.Sex),
		toNullDate(p.Birth),
		toNullDate(p.Death),
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
		SELECT EXISTS (SELECT 1 FROM pets WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Delete borra primero los eventos de la mascota y después la mascota,
// dentro de una sola transacción. Nunca deben quedar eventos huérfanos.
func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE pet_id = $1`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
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

// birth/death son DATE; van y vienen como NullTime.
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
