package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type fakeUsers struct {
	byEmail map[string]*models.User
	nextID  uint
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*models.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, u *models.User) error {
	f.nextID++
	u.ID = f.nextID
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUsers) GetUser(_ context.Context, id uint) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

// plainHasher keeps tests fast; bcrypt is covered separately.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "plain:" + p, nil }

func (plainHasher) Compare(h, p string) error {
	if h != "plain:"+p {
		return errors.New("mismatch")
	}
	return nil
}

func TestVerifier(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	v := NewVerifier(users, plainHasher{}, ParseAllowList(" Admin@Barberia.mx ,"))

	if _, err := v.Register(ctx, "Admin", "admin@barberia.mx", "secreto1", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := v.Register(ctx, "Otro", "otro@barberia.mx", "secreto1", RoleManager); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := v.Verify(ctx, "ADMIN@barberia.mx ", "secreto1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if u.Role != RoleAdmin {
		t.Errorf("role = %q", u.Role)
	}

	if _, err := v.Verify(ctx, "admin@barberia.mx", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, err := v.Verify(ctx, "ghost@barberia.mx", "secreto1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v", err)
	}
	if _, err := v.Verify(ctx, "otro@barberia.mx", "secreto1"); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("not allowed err = %v", err)
	}

	users.byEmail["admin@barberia.mx"].Active = false
	if _, err := v.Verify(ctx, "admin@barberia.mx", "secreto1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("inactive err = %v", err)
	}

	if _, err := v.Register(ctx, "x", "x@barberia.mx", "123", ""); err == nil {
		t.Error("expected weak password error")
	}
}

func TestAllowList_EmptyAdmitsEveryone(t *testing.T) {
	if !ParseAllowList("").Allows("anyone@example.com") {
		t.Fatal("empty allow-list should admit everyone")
	}
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hash, err := h.Hash("secreto1")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(hash, "secreto1") {
		t.Fatal("hash leaks the password")
	}
	if err := h.Compare(hash, "secreto1"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := h.Compare(hash, "otro"); err == nil {
		t.Fatal("compare accepted a wrong password")
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	iss := NewTokenIssuer("s3cret", time.Hour)
	raw, err := iss.Issue(&models.User{ID: 7, Role: RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}

	claims, err := iss.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || claims.Role != RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := NewTokenIssuer("other", time.Hour).Parse(raw); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}

	expired := NewTokenIssuer("s3cret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue(&models.User{ID: 7})
	if _, err := iss.Parse(old); err == nil {
		t.Fatal("expired token was accepted")
	}
}
