package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/pointtally/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	return New(db), mock, func() { db.Close() }
}

func accountColumns() []string {
	return []string{"id", "username", "email", "password_hash", "points", "buttons", "created_at"}
}

func TestCreateAccountStoresHashNotPassword(t *testing.T) {
	st, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs("alice", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	acc, err := st.CreateAccount(context.Background(), "alice", "", "secret123")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if acc.ID != 7 {
		t.Errorf("Expected id 7, got %d", acc.ID)
	}
	if acc.Points != 0 {
		t.Errorf("Expected 0 points, got %d", acc.Points)
	}
	if len(acc.Buttons) != 0 {
		t.Errorf("Expected empty button list, got %v", acc.Buttons)
	}
	// Se guarda el hash, nunca el secreto
	if acc.PasswordHash == "secret123" {
		t.Error("Password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("secret123")); err != nil {
		t.Errorf("Stored hash does not match password: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateAccountDuplicateUsername(t *testing.T) {
	st, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'accounts.username'"))

	_, err := st.CreateAccount(context.Background(), "alice", "", "secret123")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
}

func TestFindByHandleDecodesButtons(t *testing.T) {
	st, mock, done := newMockStore(t)
	defer done()

	buttons := `[{"id":"1","label":"Chore","magnitude":10,"direction":"increase"}]`
	rows := sqlmock.NewRows(accountColumns()).
		AddRow(7, "alice", nil, "hash", 25, []byte(buttons), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE username").
		WithArgs("alice").
		WillReturnRows(rows)

	acc, err := st.FindByHandle(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByHandle: %v", err)
	}
	if acc.Points != 25 {
		t.Errorf("Expected 25 points, got %d", acc.Points)
	}
	if len(acc.Buttons) != 1 || acc.Buttons[0].Label != "Chore" {
		t.Errorf("Unexpected buttons: %v", acc.Buttons)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	st, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM accounts WHERE id").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := st.FindByID(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReplacePointsClampsNegative(t *testing.T) {
	st, mock, done := newMockStore(t)
	defer done()

	// El clamp ocurre antes de tocar la base: se escribe 0, no -5
	mock.ExpectExec("UPDATE accounts SET points").
		WithArgs(int64(0), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stored, err := st.ReplacePoints(context.Background(), 7, -5)
	if err != nil {
		t.Fatalf("ReplacePoints: %v", err)
	}
	if stored != 0 {
		t.Errorf("Expected clamped value 0, got %d", stored)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReplacePointsNoChangeIsNotAnError(t *testing.T) {
	st, mock, done := newMockStore(t)
	defer done()

	// MySQL reporta 0 filas afectadas cuando el valor no cambió; el
	// store debe distinguirlo de una cuenta inexistente.
	mock.ExpectExec("UPDATE accounts SET points").
		WithArgs(int64(10), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM accounts WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	stored, err := st.ReplacePoints(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("ReplacePoints: %v", err)
	}
	if stored != 10 {
		t.Errorf("Expected 10, got %d", stored)
	}
}

func TestReplacePointsNotFound(t *testing.T) {
	st, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec("UPDATE accounts SET points").
		WithArgs(int64(10), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM accounts WHERE id").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := st.ReplacePoints(context.Background(), 99, 10)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReplaceButtonsWritesWholeList(t *testing.T) {
	st, mock, done := newMockStore(t)
	defer done()

	buttons := []models.Button{
		{ID: "1", Label: "Chore", Magnitude: 10, Direction: models.DirectionIncrease},
		{ID: "2", Label: "Treat", Magnitude: 5, Direction: models.DirectionDecrease},
	}
	raw, _ := json.Marshal(buttons)

	mock.ExpectExec("UPDATE accounts SET buttons").
		WithArgs(raw, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stored, err := st.ReplaceButtons(context.Background(), 7, buttons)
	if err != nil {
		t.Fatalf("ReplaceButtons: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("Expected 2 buttons back, got %d", len(stored))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReplaceButtonsNilBecomesEmptyList(t *testing.T) {
	st, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec("UPDATE accounts SET buttons").
		WithArgs([]byte("[]"), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stored, err := st.ReplaceButtons(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("ReplaceButtons: %v", err)
	}
	if stored == nil || len(stored) != 0 {
		t.Errorf("Expected empty list, got %v", stored)
	}
}
