package db

import (
	"context"
	"time"

	"labdesk/models"
)

type BookingStore struct{ db *DB }

func NewBookingStore(db *DB) *BookingStore { return &BookingStore{db: db} }

// Create inserts the booking. Collisions on (date, testbed) or on a demo's
// (date, timeslot) come back as ErrConflict. The unique indexes are the
// concurrency-safety mechanism, so of two racing inserts exactly one wins.
func (s *BookingStore) Create(ctx context.Context, b *models.Booking) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	row := s.db.QueryRow(ctx,
		`INSERT INTO bookings (kind, user_id, guest_email, status, timeslot_id, testbed_id, date, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		string(b.Kind), b.UserID, b.GuestEmail, string(b.Status), b.TimeslotID, b.TestbedID, b.Date, b.Message, b.CreatedAt)
	if err := row.Scan(&b.ID); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *BookingStore) Get(ctx context.Context, id int64) (*models.Booking, error) {
	var b models.Booking
	var kind, status string
	err := s.db.QueryRow(ctx,
		`SELECT id, kind, user_id, guest_email, status, timeslot_id, testbed_id, date, message, created_at
		 FROM bookings WHERE id = ?`, id).
		Scan(&b.ID, &kind, &b.UserID, &b.GuestEmail, &status, &b.TimeslotID, &b.TestbedID, &b.Date, &b.Message, &b.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	b.Kind = models.BookingKind(kind)
	b.Status = models.BookingStatus(status)
	return &b, nil
}

const bookingCols = `id, kind, user_id, guest_email, status, timeslot_id, testbed_id, date, message, created_at`

func (s *BookingStore) ListByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return s.list(ctx, `SELECT `+bookingCols+` FROM bookings WHERE date = ? ORDER BY id`, date)
}

func (s *BookingStore) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.list(ctx, `SELECT `+bookingCols+` FROM bookings WHERE user_id = ? ORDER BY date, id`, userID)
}

func (s *BookingStore) ListAll(ctx context.Context) ([]models.Booking, error) {
	return s.list(ctx, `SELECT `+bookingCols+` FROM bookings ORDER BY date, id`)
}

func (s *BookingStore) list(ctx context.Context, stmt string, args ...any) ([]models.Booking, error) {
	rows, err := s.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		var kind, status string
		if err := rows.Scan(&b.ID, &kind, &b.UserID, &b.GuestEmail, &status, &b.TimeslotID, &b.TestbedID, &b.Date, &b.Message, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Kind = models.BookingKind(kind)
		b.Status = models.BookingStatus(status)
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (s *BookingStore) SetStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	res, err := s.db.Exec(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BookingStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.Exec(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
