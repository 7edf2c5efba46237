package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/tossit/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) CreateUser(businessID int64, name string, isAdmin bool) (*model.User, error) {
	var adminInt int
	if isAdmin {
		adminInt = 1
	}
	result, err := s.db.Exec(
		`INSERT INTO users (business_id, name, is_admin) VALUES (?, ?, ?)`,
		businessID, name, adminInt,
	)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, _ := result.LastInsertId()
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	var u model.User
	var adminInt, shiftInt int
	err := s.db.QueryRow(
		`SELECT id, business_id, name, is_admin, is_on_shift, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.BusinessID, &u.Name, &adminInt, &shiftInt, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.IsAdmin = adminInt != 0
	u.IsOnShift = shiftInt != 0
	return &u, nil
}

// ListOnShift returns every user of a business currently clocked in.
func (s *UserStore) ListOnShift(businessID int64) ([]model.User, error) {
	rows, err := s.db.Query(
		`SELECT id, business_id, name, is_admin, is_on_shift, created_at
		 FROM users WHERE business_id = ? AND is_on_shift = 1 ORDER BY name`,
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("list on-shift users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var adminInt, shiftInt int
		if err := rows.Scan(&u.ID, &u.BusinessID, &u.Name, &adminInt, &shiftInt, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan on-shift user: %w", err)
		}
		u.IsAdmin = adminInt != 0
		u.IsOnShift = shiftInt != 0
		users = append(users, u)
	}
	return users, rows.Err()
}

// StartShift clocks a user in.
func (s *UserStore) StartShift(userID int64) error {
	if _, err := s.db.Exec(`UPDATE users SET is_on_shift = 1 WHERE id = ?`, userID); err != nil {
		return fmt.Errorf("start shift: %w", err)
	}
	return nil
}

// EndShift clocks a user out. Used by both the explicit end-shift action and
// the midnight auto-end.
func (s *UserStore) EndShift(userID int64) error {
	if _, err := s.db.Exec(`UPDATE users SET is_on_shift = 0 WHERE id = ?`, userID); err != nil {
		return fmt.Errorf("end shift: %w", err)
	}
	return nil
}
