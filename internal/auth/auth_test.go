package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestCookieStore_RoundTrip(t *testing.T) {
	store, err := NewCookieStore("test-secret")
	if err != nil {
		t.Fatalf("NewCookieStore() error = %v", err)
	}
	ctx := context.Background()

	value, err := store.Create(ctx, "access-token")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if strings.Contains(value, "access-token") {
		t.Error("cookie value must not contain the token in clear")
	}

	got, err := store.Lookup(ctx, value)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got != "access-token" {
		t.Errorf("Lookup() = %q, want %q", got, "access-token")
	}

	// Same secret, new store: sessions survive a restart.
	restarted, _ := NewCookieStore("test-secret")
	if got, err := restarted.Lookup(ctx, value); err != nil || got != "access-token" {
		t.Errorf("Lookup() after restart = %q, %v", got, err)
	}
}

func TestCookieStore_Rejects(t *testing.T) {
	store, _ := NewCookieStore("test-secret")
	other, _ := NewCookieStore("other-secret")
	ctx := context.Background()

	sealed, _ := other.Create(ctx, "token")

	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"not base64", "!!!"},
		{"too short", "YWJj"},
		{"other key", sealed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Lookup(ctx, tt.value); !errors.Is(err, ErrNoSession) {
				t.Errorf("Lookup() error = %v, want ErrNoSession", err)
			}
		})
	}
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		OrgID: "org-1",
		Role:  "admin",
		Email: "admin@constructiq.ro",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString([]byte("backend-key"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	claims, err := ParseClaims(signed)
	if err != nil {
		t.Fatalf("ParseClaims() error = %v", err)
	}
	if claims.Email != "admin@constructiq.ro" || claims.Subject != "user-1" || claims.OrgID != "org-1" {
		t.Errorf("ParseClaims() = %+v", claims)
	}
	if !claims.IsAdmin() {
		t.Error("expected admin role")
	}
	if claims.Expired(time.Now()) {
		t.Error("expected token to be valid now")
	}
	if !claims.Expired(exp.Add(time.Second)) {
		t.Error("expected token to be expired after exp")
	}
}

func TestParseClaims_Invalid(t *testing.T) {
	if _, err := ParseClaims("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestClaims_NoExpiry(t *testing.T) {
	c := &Claims{}
	if c.Expired(time.Now()) {
		t.Error("token without exp must not expire")
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.yaml")

	store, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore() error = %v", err)
	}
	if store.Token() != "" {
		t.Errorf("Token() = %q, want empty for missing file", store.Token())
	}

	err = store.Save(Credentials{APIBaseURL: "http://api", Email: "a@b.ro", AccessToken: "tok"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore() error = %v", err)
	}
	if reopened.Token() != "tok" {
		t.Errorf("Token() = %q, want %q", reopened.Token(), "tok")
	}

	reopened.Clear()
	again, _ := OpenFileStore(path)
	if again.Token() != "" {
		t.Errorf("Token() after Clear = %q, want empty", again.Token())
	}
	if again.Credentials().Email != "a@b.ro" {
		t.Errorf("Email = %q, want profile kept after Clear", again.Credentials().Email)
	}
}

// fakeDB is a minimal Querier backed by a map.
type fakeDB struct {
	sessions map[string]fakeSession
}

type fakeSession struct {
	token     string
	expiresAt time.Time
}

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	switch {
	case strings.Contains(sql, "INSERT"):
		f.sessions[args[0].(string)] = fakeSession{token: args[1].(string), expiresAt: args[2].(time.Time)}
	case strings.Contains(sql, "DELETE") && len(args) == 1:
		delete(f.sessions, args[0].(string))
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	s, ok := f.sessions[args[0].(string)]
	return fakeRow{scan: func(dest ...any) error {
		if !ok {
			return pgx.ErrNoRows
		}
		*dest[0].(*string) = s.token
		*dest[1].(*time.Time) = s.expiresAt
		return nil
	}}
}

func TestPGStore(t *testing.T) {
	db := &fakeDB{sessions: map[string]fakeSession{}}
	store := NewPGStore(db)
	ctx := context.Background()

	id, err := store.Create(ctx, "tok")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got, err := store.Lookup(ctx, id); err != nil || got != "tok" {
		t.Errorf("Lookup() = %q, %v, want tok", got, err)
	}

	if _, err := store.Lookup(ctx, "unknown"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Lookup(unknown) error = %v, want ErrNoSession", err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Lookup(ctx, id); !errors.Is(err, ErrNoSession) {
		t.Errorf("Lookup() after Delete error = %v, want ErrNoSession", err)
	}
}

func TestPGStore_Expired(t *testing.T) {
	db := &fakeDB{sessions: map[string]fakeSession{}}
	store := NewPGStore(db)
	ctx := context.Background()

	id, _ := store.Create(ctx, "tok")
	store.now = func() time.Time { return time.Now().Add(SessionDuration + time.Hour) }

	if _, err := store.Lookup(ctx, id); !errors.Is(err, ErrNoSession) {
		t.Errorf("Lookup() error = %v, want ErrNoSession", err)
	}
	if _, ok := db.sessions[id]; ok {
		t.Error("expected expired session to be deleted")
	}
}
