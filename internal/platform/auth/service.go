package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gestion-activos-backend/internal/platform/apierr"
	"gestion-activos-backend/internal/platform/db"
)

var (
	errBadCredentials = apierr.Unauthenticated("Usuario o contraseña incorrectos")
	errUserNotFound   = apierr.NotFound("Usuario no encontrado")
	errUserExists     = apierr.Conflict("El usuario ya existe")
	errUserDisabled   = apierr.Unauthenticated("Usuario inactivo o inexistente")
)

type Service struct {
	store  UserStore
	tokens *Tokens
	cost   int
	logger *zap.Logger
}

type Option func(*Service)

// WithBcryptCost overrides bcrypt.DefaultCost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option { return func(s *Service) { s.cost = cost } }

func NewService(store UserStore, tokens *Tokens, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{store: store, tokens: tokens, cost: bcrypt.DefaultCost, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Login authenticates an active user and issues a bearer token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil || !u.Active {
		s.logger.Warn("login rejected: unknown or inactive user", zap.String("username", username))
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login rejected: wrong password", zap.String("username", username), zap.Uint64("user_id", u.ID))
		return nil, errBadCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	s.logger.Info("login", zap.String("username", username), zap.Uint64("user_id", u.ID), zap.String("rol", u.Role))
	return &LoginResponse{Usuario: toUserResponse(u), Token: token}, nil
}

// Authorize reloads the token's user so deactivation and role changes apply
// to tokens issued before them.
func (s *Service) Authorize(ctx context.Context, p Principal) (Principal, error) {
	u, err := s.store.GetByID(ctx, p.ID)
	if err != nil {
		return Principal{}, fmt.Errorf("load user: %w", err)
	}
	if u == nil || !u.Active {
		return Principal{}, errUserDisabled
	}
	return Principal{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func (s *Service) List(ctx context.Context) ([]UserResponse, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apierr.Invalid("Usuario, contraseña y rol son requeridos")
	}
	if !ValidRole(req.Rol) {
		return nil, apierr.Invalid("Rol inválido")
	}
	taken, err := s.store.UsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, errUserExists
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}
	u := &User{Username: username, PasswordHash: hash, Role: req.Rol, Active: true}
	if req.Activo != nil {
		u.Active = *req.Activo
	}
	id, err := s.store.Create(ctx, u)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, errUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	res := toUserResponse(u)
	return &res, nil
}

func (s *Service) Update(ctx context.Context, id uint64, req UpdateUserRequest) (*UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apierr.Invalid("Usuario y rol son requeridos")
	}
	if !ValidRole(req.Rol) {
		return nil, apierr.Invalid("Rol inválido")
	}
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, errUserNotFound
	}
	taken, err := s.store.UsernameTaken(ctx, username, id)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, errUserExists
	}

	u.Username = username
	u.Role = req.Rol
	if req.Activo != nil {
		u.Active = *req.Activo
	}
	if req.Password != nil && *req.Password != "" {
		if u.PasswordHash, err = s.hash(*req.Password); err != nil {
			return nil, err
		}
	}
	n, err := s.store.Update(ctx, u)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, errUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return nil, errUserNotFound
	}
	res := toUserResponse(u)
	return &res, nil
}

func (s *Service) Delete(ctx context.Context, id uint64) error {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return errUserNotFound
	}
	if u.Username == DefaultAdminUsername {
		return apierr.Invalid("No se puede eliminar el usuario administrador por defecto")
	}
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return errUserNotFound
	}
	s.logger.Info("user deleted", zap.Uint64("user_id", id), zap.String("username", u.Username))
	return nil
}

// ChangePassword lets a user change their own password, or an administrator
// change anyone's. The target's current password is always verified.
func (s *Service) ChangePassword(ctx context.Context, caller Principal, id uint64, req ChangePasswordRequest) error {
	if caller.ID != id && !caller.IsAdmin() {
		return apierr.Forbidden("Solo puede cambiar su propia contraseña")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apierr.Invalid("La contraseña actual y la nueva contraseña son requeridas")
	}
	if len(req.NewPassword) < MinPasswordLength {
		return apierr.Invalidf("La nueva contraseña debe tener al menos %d caracteres", MinPasswordLength)
	}
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return errUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apierr.Unauthenticated("La contraseña actual es incorrecta")
		}
		return fmt.Errorf("compare password: %w", err)
	}
	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	if _, err := s.store.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.logger.Info("password changed", zap.Uint64("user_id", id), zap.Uint64("by", caller.ID))
	return nil
}

// EnsureAdmin creates the default administrator if it does not exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	if len(password) < MinPasswordLength {
		return false, fmt.Errorf("admin password must have at least %d characters", MinPasswordLength)
	}
	u, err := s.store.GetByUsername(ctx, DefaultAdminUsername)
	if err != nil {
		return false, fmt.Errorf("load admin: %w", err)
	}
	if u != nil {
		return false, nil
	}
	hash, err := s.hash(password)
	if err != nil {
		return false, err
	}
	id, err := s.store.Create(ctx, &User{Username: DefaultAdminUsername, PasswordHash: hash, Role: RoleAdmin, Active: true})
	if err != nil {
		if db.IsDuplicateKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert admin: %w", err)
	}
	s.logger.Info("default admin created", zap.Uint64("user_id", id))
	return true, nil
}
