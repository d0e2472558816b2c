package db

import (
	"context"

	"labdesk/models"
)

// ResourceStore covers the two bookable resource kinds: testbeds and the
// demo timeslot grid.
type ResourceStore struct{ db *DB }

func NewResourceStore(db *DB) *ResourceStore { return &ResourceStore{db: db} }

func (s *ResourceStore) CreateTestbed(ctx context.Context, t *models.Testbed) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO testbeds (name, description) VALUES (?, ?) RETURNING id`,
		t.Name, t.Description)
	if err := row.Scan(&t.ID); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *ResourceStore) ListTestbeds(ctx context.Context) ([]models.Testbed, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, description FROM testbeds ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	testbeds := []models.Testbed{}
	for rows.Next() {
		var t models.Testbed
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		testbeds = append(testbeds, t)
	}
	return testbeds, rows.Err()
}

func (s *ResourceStore) DeleteTestbed(ctx context.Context, id int64) error {
	res, err := s.db.Exec(ctx, `DELETE FROM testbeds WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ResourceStore) CreateTimeslot(ctx context.Context, t *models.Timeslot) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO timeslots (start_time, end_time) VALUES (?, ?) RETURNING id`,
		t.Start, t.End)
	if err := row.Scan(&t.ID); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *ResourceStore) ListTimeslots(ctx context.Context) ([]models.Timeslot, error) {
	rows, err := s.db.Query(ctx, `SELECT id, start_time, end_time FROM timeslots ORDER BY start_time`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	slots := []models.Timeslot{}
	for rows.Next() {
		var t models.Timeslot
		if err := rows.Scan(&t.ID, &t.Start, &t.End); err != nil {
			return nil, err
		}
		slots = append(slots, t)
	}
	return slots, rows.Err()
}

func (s *ResourceStore) DeleteTimeslot(ctx context.Context, id int64) error {
	res, err := s.db.Exec(ctx, `DELETE FROM timeslots WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
