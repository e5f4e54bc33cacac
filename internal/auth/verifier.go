package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAllowed         = errors.New("account not allowed")
)

// UserStore is the account lookup of the verifier. FindUserByEmail
// returns nil without error when no account matches.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// AllowList restricts which accounts may log in. An empty list admits
// every active account.
type AllowList map[string]struct{}

func ParseAllowList(csv string) AllowList {
	out := AllowList{}
	for _, e := range strings.Split(csv, ",") {
		if e = normalizeEmail(e); e != "" {
			out[e] = struct{}{}
		}
	}
	return out
}

func (a AllowList) Allows(email string) bool {
	if len(a) == 0 {
		return true
	}
	_, ok := a[normalizeEmail(email)]
	return ok
}

type Verifier struct {
	users  UserStore
	hasher PasswordHasher
	allow  AllowList
}

func NewVerifier(users UserStore, hasher PasswordHasher, allow AllowList) *Verifier {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &Verifier{users: users, hasher: hasher, allow: allow}
}

// Verify returns the account behind the credentials. Unknown email and
// wrong password are indistinguishable to the caller.
func (v *Verifier) Verify(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	user, err := v.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := v.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !v.allow.Allows(email) {
		return nil, ErrNotAllowed
	}
	return user, nil
}

// Register creates an active account with a hashed password.
func (v *Verifier) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	email = normalizeEmail(email)
	if len(password) < 6 {
		return nil, httperr.InvalidArgumentf("weak_password", "La contraseña debe tener al menos 6 caracteres")
	}
	if role == "" {
		role = RoleAdmin
	}

	hash, err := v.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := v.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
