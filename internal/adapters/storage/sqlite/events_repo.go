package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"menagerie/internal/domain/pets"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

func (r *EventsRepo) Create(ctx context.Context, e pets.Event) (pets.Event, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO events (pet_id, date, type, remark)
		VALUES (?,?,?,?)
	`,
		e.PetID,
		e.Date,
		e.Type,
		e.Remark,
	)
	if err != nil {
		return pets.Event{}, err
	}

	e.ID, err = res.LastInsertId()
	if err != nil {
		return pets.Event{}, err
	}
	return e, nil
}

func (r *EventsRepo) ListByPet(ctx context.Context, petID int64, sort pets.SortSpec) ([]pets.Event, error) {
	// Key/Order pasaron por la whitelist de ParseSort.
	query := fmt.Sprintf(`
		SELECT id, pet_id, date, type, remark
		FROM events
		WHERE pet_id = ?
		ORDER BY %q %s, id ASC
	`, sort.Key, sort.Order)

	rows, err := r.db.QueryContext(ctx, query, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Event, 0)
	for rows.Next() {
		var e pets.Event
		if err := rows.Scan(&e.ID, &e.PetID, &e.Date, &e.Type, &e.Remark); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
