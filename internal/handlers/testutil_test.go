package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/pointtally/internal/auth"
	"github.com/yourorg/pointtally/internal/models"
	"github.com/yourorg/pointtally/internal/routes"
	"github.com/yourorg/pointtally/internal/store"
)

// fakeStore es un Account Store en memoria con la misma disciplina de
// escritura que el real: reemplazo completo por registro, last-writer-wins.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*models.Account
	byHandle map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:   1,
		accounts: make(map[int64]*models.Account),
		byHandle: make(map[string]int64),
	}
}

func (f *fakeStore) CreateAccount(_ context.Context, username, email, password string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, taken := f.byHandle[username]; taken {
		return nil, store.ErrAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	acc := &models.Account{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Points:       0,
		Buttons:      []models.Button{},
		CreatedAt:    time.Now(),
	}
	f.accounts[acc.ID] = acc
	f.byHandle[username] = acc.ID
	f.nextID++
	copy := *acc
	return &copy, nil
}

func (f *fakeStore) FindByHandle(_ context.Context, username string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.byHandle[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	copy := *f.accounts[id]
	return &copy, nil
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	acc, ok := f.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copy := *acc
	return &copy, nil
}

func (f *fakeStore) ReplacePoints(_ context.Context, id int64, points int64) (int64, error) {
	if points < 0 {
		points = 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	acc, ok := f.accounts[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	acc.Points = points
	return points, nil
}

func (f *fakeStore) ReplaceButtons(_ context.Context, id int64, buttons []models.Button) ([]models.Button, error) {
	if buttons == nil {
		buttons = []models.Button{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	acc, ok := f.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	acc.Buttons = buttons
	return buttons, nil
}

func (f *fakeStore) Ping(_ context.Context) error { return nil }

var testIssuer = auth.NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour)

func newTestApp(t *testing.T) (*fiber.App, *fakeStore) {
	t.Helper()
	app := fiber.New()
	st := newFakeStore()
	routes.Register(app, st, st, testIssuer, nil)
	return app, st
}

// doJSON dispara un request contra la app de prueba y decodifica la
// respuesta en out (si out no es nil). token vacío omite el header.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}, out interface{}) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, string(raw)
}

// signupAndLogin crea una cuenta y retorna su token de sesión.
func signupAndLogin(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/signup", "",
		models.SignupRequest{Username: username, Password: password}, nil)
	if status != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d (%s)", status, body)
	}

	var login models.LoginResponse
	status, body = doJSON(t, app, http.MethodPost, "/api/login", "",
		models.LoginRequest{Username: username, Password: password}, &login)
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", status, body)
	}
	return login.Token
}
