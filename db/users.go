package db

import (
	"context"
	"time"

	"labdesk/models"
)

type UserStore struct{ db *DB }

func NewUserStore(db *DB) *UserStore { return &UserStore{db: db} }

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	row := s.db.QueryRow(ctx,
		`INSERT INTO users (userid, name, email, password_hash, is_admin, availability, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		u.UserID, u.Name, u.Email, u.PasswordHash, boolToInt(u.IsAdmin), u.Availability, int(u.Status), u.CreatedAt)
	if err := row.Scan(&u.ID); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.get(ctx, `SELECT id, userid, name, email, password_hash, is_admin, availability, status, created_at
		FROM users WHERE email = ?`, email)
}

func (s *UserStore) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return s.get(ctx, `SELECT id, userid, name, email, password_hash, is_admin, availability, status, created_at
		FROM users WHERE userid = ?`, userID)
}

func (s *UserStore) get(ctx context.Context, stmt string, arg any) (*models.User, error) {
	var (
		u       models.User
		isAdmin int
		status  int
	)
	err := s.db.QueryRow(ctx, stmt, arg).Scan(
		&u.ID, &u.UserID, &u.Name, &u.Email, &u.PasswordHash, &isAdmin, &u.Availability, &status, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	u.IsAdmin = isAdmin != 0
	u.Status = models.ApprovalStatus(status)
	return &u, nil
}

func (s *UserStore) ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]models.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, userid, name, email, password_hash, is_admin, availability, status, created_at
		 FROM users WHERE status = ? ORDER BY created_at`, int(status))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var (
			u       models.User
			isAdmin int
			st      int
		)
		if err := rows.Scan(&u.ID, &u.UserID, &u.Name, &u.Email, &u.PasswordHash, &isAdmin, &u.Availability, &st, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.IsAdmin = isAdmin != 0
		u.Status = models.ApprovalStatus(st)
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetStatus flips a user's approval status (admin approve path).
func (s *UserStore) SetStatus(ctx context.Context, userID string, status models.ApprovalStatus) error {
	res, err := s.db.Exec(ctx, `UPDATE users SET status = ? WHERE userid = ?`, int(status), userID)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile changes the fields a user may edit about themselves.
func (s *UserStore) UpdateProfile(ctx context.Context, userID, name, availability string) error {
	res, err := s.db.Exec(ctx, `UPDATE users SET name = ?, availability = ? WHERE userid = ?`,
		name, availability, userID)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) SetPassword(ctx context.Context, userID, passwordHash string) error {
	res, err := s.db.Exec(ctx, `UPDATE users SET password_hash = ? WHERE userid = ?`,
		passwordHash, userID)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, userID string) error {
	res, err := s.db.Exec(ctx, `DELETE FROM users WHERE userid = ?`, userID)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
