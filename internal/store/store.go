package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/pointtally/internal/models"
)

// Errores centinela del Account Store.
var (
	// ErrAlreadyExists se retorna cuando el username ya está tomado.
	ErrAlreadyExists = errors.New("account already exists")
	// ErrNotFound se retorna cuando no existe la cuenta referenciada.
	ErrNotFound = errors.New("account not found")
)

// Store is the durable keyed storage of account records. One row per
// account; the button list lives embedded on the row as a JSON column,
// not in a child table, so every write is a single-row replace.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle. Lifecycle of the handle (open at
// process start, close at shutdown) belongs to the caller.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ping verifies the underlying connection, para health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateAccount inserts a new account with zero points and no buttons.
// Only the bcrypt hash of the password is stored, never the password.
func (s *Store) CreateAccount(ctx context.Context, username, email, password string) (*models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (username, email, password_hash, points, buttons)
		VALUES (?, ?, ?, 0, '[]')
	`, username, sql.NullString{String: email, Valid: email != ""}, string(hash))
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	id, _ := res.LastInsertId()
	return &models.Account{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Points:       0,
		Buttons:      []models.Button{},
	}, nil
}

// FindByHandle looks an account up by its login name (case-sensitive).
func (s *Store) FindByHandle(ctx context.Context, username string) (*models.Account, error) {
	return s.findOne(ctx, `SELECT id, username, email, password_hash, points, buttons, created_at FROM accounts WHERE username = ?`, username)
}

// FindByID looks an account up by its opaque id.
func (s *Store) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	return s.findOne(ctx, `SELECT id, username, email, password_hash, points, buttons, created_at FROM accounts WHERE id = ?`, id)
}

func (s *Store) findOne(ctx context.Context, query string, arg interface{}) (*models.Account, error) {
	var (
		acc        models.Account
		email      sql.NullString
		rawButtons []byte
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&acc.ID, &acc.Username, &email, &acc.PasswordHash, &acc.Points, &rawButtons, &acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	if email.Valid {
		acc.Email = email.String
	}

	acc.Buttons = []models.Button{}
	if len(rawButtons) > 0 {
		if err := json.Unmarshal(rawButtons, &acc.Buttons); err != nil {
			return nil, fmt.Errorf("decode buttons: %w", err)
		}
	}
	if acc.Buttons == nil {
		acc.Buttons = []models.Button{}
	}
	return &acc, nil
}

// ReplacePoints stores a new point total for the account, clamped at a
// lower bound of zero. The clamp applies to every write, not just at
// creation. Returns the value actually stored.
func (s *Store) ReplacePoints(ctx context.Context, id int64, points int64) (int64, error) {
	if points < 0 {
		points = 0
	}

	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET points = ? WHERE id = ?`, points, id)
	if err != nil {
		return 0, fmt.Errorf("update points: %w", err)
	}

	// MySQL reporta 0 filas afectadas también cuando el valor no cambió,
	// así que RowsAffected == 0 no implica que la cuenta no exista.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if err := s.exists(ctx, id); err != nil {
			return 0, err
		}
	}
	return points, nil
}

// ReplaceButtons overwrites the account's entire button list atomically.
// No partial merge, no validation: this is a pass-through trust boundary
// and the service layer is responsible for rejecting malformed buttons.
func (s *Store) ReplaceButtons(ctx context.Context, id int64, buttons []models.Button) ([]models.Button, error) {
	if buttons == nil {
		buttons = []models.Button{}
	}
	raw, err := json.Marshal(buttons)
	if err != nil {
		return nil, fmt.Errorf("encode buttons: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET buttons = ? WHERE id = ?`, raw, id)
	if err != nil {
		return nil, fmt.Errorf("update buttons: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if err := s.exists(ctx, id); err != nil {
			return nil, err
		}
	}
	return buttons, nil
}

func (s *Store) exists(ctx context.Context, id int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	return nil
}
