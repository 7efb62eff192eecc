package auth_services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pipecode66/kanban-api/internal/model/auth_model"
	"github.com/pipecode66/kanban-api/internal/repository/auth_repository"
	"github.com/pipecode66/kanban-api/internal/services/auth_services"
)

type memoryUserStore struct {
	nextID int
	users  map[string]*auth_model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{nextID: 1, users: make(map[string]*auth_model.User)}
}

func (s *memoryUserStore) Create(ctx context.Context, u *auth_model.User) error {
	if _, exists := s.users[u.Username]; exists {
		return auth_repository.ErrUsernameTaken
	}
	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = time.Now().UTC()
	clone := *u
	s.users[u.Username] = &clone
	return nil
}

func (s *memoryUserStore) GetByUsername(ctx context.Context, username string) (*auth_model.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (s *memoryUserStore) GetByID(ctx context.Context, id int) (*auth_model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func testSettings() auth_services.TokenSettings {
	return auth_services.TokenSettings{
		Secret:   "test-secret",
		Issuer:   "kanban-api",
		Audience: "kanban-client",
	}
}

func newTestService() (*auth_services.AuthService, *memoryUserStore) {
	store := newMemoryUserStore()
	return auth_services.NewAuthService(store, testSettings()), store
}

func TestRegisterNormalizesUsername(t *testing.T) {
	svc, store := newTestService()

	token, u, err := svc.Register(context.Background(), "  Admin ", "admin123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "admin" {
		t.Errorf("username: got %q, want %q", u.Username, "admin")
	}
	if token == "" {
		t.Error("expected a token on successful registration")
	}
	if _, ok := store.users["admin"]; !ok {
		t.Error("user not stored under normalized username")
	}
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	svc, store := newTestService()

	if _, _, err := svc.Register(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	stored := store.users["admin"]
	if stored.PasswordHash == "admin123" {
		t.Fatal("plaintext password stored")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("admin123")) != nil {
		t.Error("stored hash does not verify against the password")
	}
}

func TestRegisterRejectsBlankCredentials(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct{ username, password string }{
		{"", "secret"},
		{"   ", "secret"},
		{"admin", ""},
		{"admin", "   "},
	}
	for _, tt := range tests {
		_, _, err := svc.Register(context.Background(), tt.username, tt.password)
		if !errors.Is(err, auth_services.ErrMissingCredentials) {
			t.Errorf("Register(%q, %q): got %v, want ErrMissingCredentials", tt.username, tt.password, err)
		}
	}
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	// Same name modulo normalization.
	_, _, err := svc.Register(ctx, " ADMIN ", "other")
	if !errors.Is(err, auth_repository.ErrUsernameTaken) {
		t.Errorf("got %v, want ErrUsernameTaken", err)
	}
}

func TestLoginNormalizesUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, username := range []string{"admin", "Admin ", "  ADMIN"} {
		if _, _, err := svc.Login(ctx, username, "admin123"); err != nil {
			t.Errorf("Login(%q): %v", username, err)
		}
	}
}

func TestLoginFailureIsIndistinguishable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, wrongPassword := svc.Login(ctx, "admin", "wrong")
	_, _, unknownUser := svc.Login(ctx, "ghost", "whatever")

	if !errors.Is(wrongPassword, auth_services.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", wrongPassword)
	}
	if !errors.Is(unknownUser, auth_services.ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v, want ErrInvalidCredentials", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Errorf("error messages differ: %q vs %q", wrongPassword, unknownUser)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newTestService()

	token, u, err := svc.Register(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	userID, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if userID != u.ID {
		t.Errorf("user id claim: got %d, want %d", userID, u.ID)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	store := newMemoryUserStore()
	settings := testSettings()
	settings.TTL = -time.Minute
	expiredIssuer := auth_services.NewAuthService(store, settings)

	token, err := expiredIssuer.GenerateToken(&auth_model.User{ID: 1})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := expiredIssuer.ParseAccessToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestParseRejectsForeignTokens(t *testing.T) {
	svc, _ := newTestService()
	user := &auth_model.User{ID: 1}

	tests := []struct {
		name   string
		mutate func(s *auth_services.TokenSettings)
	}{
		{"wrong secret", func(s *auth_services.TokenSettings) { s.Secret = "other-secret" }},
		{"wrong issuer", func(s *auth_services.TokenSettings) { s.Issuer = "other-issuer" }},
		{"wrong audience", func(s *auth_services.TokenSettings) { s.Audience = "other-audience" }},
	}
	for _, tt := range tests {
		settings := testSettings()
		tt.mutate(&settings)
		foreign := auth_services.NewAuthService(newMemoryUserStore(), settings)

		token, err := foreign.GenerateToken(user)
		if err != nil {
			t.Fatalf("%s: GenerateToken: %v", tt.name, err)
		}
		if _, err := svc.ParseAccessToken(token); err == nil {
			t.Errorf("%s: token accepted", tt.name)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	svc, _ := newTestService()

	for _, token := range []string{"", "not-a-token", "aa.bb.cc"} {
		if _, err := svc.ParseAccessToken(token); err == nil {
			t.Errorf("token %q accepted", token)
		}
	}
}
