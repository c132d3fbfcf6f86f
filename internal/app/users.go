package app

import (
	"context"
	"log/slog"
	"strings"

	"tonearm/internal/apperr"
	"tonearm/internal/store"
	"tonearm/pkg/auth"
	"tonearm/pkg/domain"
)

// dummyHash keeps the validate path constant-time when the username does
// not exist.
var dummyHash, _ = auth.HashPassword("tonearm-dummy-credential-1!A")

// SignupInput is the account creation payload. The plaintext password is
// hashed before it ever reaches the store.
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserPatch updates an account; nil fields are left unchanged. A new
// password triggers a re-hash; the stored hash is otherwise untouched.
// Role changes are admin-only.
type UserPatch struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// UserService manages accounts, credential validation and roles.
type UserService struct {
	store  store.Store
	logger *slog.Logger
}

// Create registers an account. The very first account becomes the admin
// so a fresh deployment can be bootstrapped without out-of-band access.
func (s *UserService) Create(ctx context.Context, in SignupInput) (domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return domain.User{}, apperr.Validationf("username", "username is required")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, apperr.Validationf("email", "a valid email is required")
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return domain.User{}, apperr.Validationf("password", "%s", err.Error())
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, apperr.Internalf(err, "hash password")
	}

	role := domain.RoleUser
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if count == 0 {
		role = domain.RoleAdmin
	}

	user, err := s.store.CreateUser(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return domain.User{}, err
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	user, found, err := s.store.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !found {
		return domain.User{}, apperr.NotFoundf("user not found")
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	user, found, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	if !found {
		return domain.User{}, apperr.NotFoundf("user not found")
	}
	return user, nil
}

// List returns all accounts; admin-only.
func (s *UserService) List(ctx context.Context, ident *Identity) ([]domain.User, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

// Update patches an account. Users edit themselves; admins edit anyone.
// Changing the role requires admin regardless of the subject.
func (s *UserService) Update(ctx context.Context, ident *Identity, id int64, patch UserPatch) (domain.User, error) {
	if err := requireSelfOrAdmin(ident, id); err != nil {
		return domain.User{}, err
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return domain.User{}, apperr.Validationf("username", "username is required")
		}
		user.Username = username
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email == "" || !strings.Contains(email, "@") {
			return domain.User{}, apperr.Validationf("email", "a valid email is required")
		}
		user.Email = email
	}
	if patch.Password != nil {
		if err := auth.ValidatePassword(*patch.Password); err != nil {
			return domain.User{}, apperr.Validationf("password", "%s", err.Error())
		}
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return domain.User{}, apperr.Internalf(err, "hash password")
		}
		user.PasswordHash = hash
	}
	if patch.Role != nil {
		if !ident.IsAdmin() {
			return domain.User{}, apperr.Forbiddenf("admin role required to change roles")
		}
		user.Role = domain.Role(*patch.Role)
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes an account; self or admin.
func (s *UserService) Delete(ctx context.Context, ident *Identity, id int64) error {
	if err := requireSelfOrAdmin(ident, id); err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, id)
}

// Validate checks a username/password pair. A missing user and a wrong
// password are indistinguishable to the caller; the dummy comparison keeps
// both paths doing the same bcrypt work.
func (s *UserService) Validate(ctx context.Context, username, password string) (domain.User, bool, error) {
	user, found, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, false, err
	}
	if !found {
		auth.CheckPassword(password, dummyHash)
		return domain.User{}, false, nil
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, false, nil
	}
	return user, true, nil
}

// CreateRole adds a role name; admin-only.
func (s *UserService) CreateRole(ctx context.Context, ident *Identity, name string) error {
	if err := requireAdmin(ident); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validationf("name", "role name is required")
	}
	return s.store.CreateRole(ctx, name)
}

func (s *UserService) ListRoles(ctx context.Context) ([]string, error) {
	return s.store.ListRoles(ctx)
}
