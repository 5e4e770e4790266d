package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wpwscannerapp/scanner-feed/internal/models"
	pgrepo "github.com/wpwscannerapp/scanner-feed/internal/repositories/postgres"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

const resetTokenTTL = time.Hour

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	// SignOut revokes the token's jti. Idempotent: an already-expired or
	// malformed token is nothing to revoke, not an error.
	SignOut(ctx context.Context, rawToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type sessionClaims struct {
	jwt.RegisteredClaims
	AppMetadata map[string]any `json:"app_metadata"`
}

type authService struct {
	users    pgrepo.UserRepository
	profiles ProfileService
	resets   pgrepo.PasswordResetRepository
	revoker  TokenRevoker

	secret []byte
	issuer string
	ttl    time.Duration
}

func NewAuthService(users pgrepo.UserRepository, profiles ProfileService, resets pgrepo.PasswordResetRepository, revoker TokenRevoker, secret []byte, issuer string, ttl time.Duration) AuthService {
	return &authService{
		users:    users,
		profiles: profiles,
		resets:   resets,
		revoker:  revoker,
		secret:   secret,
		issuer:   issuer,
		ttl:      ttl,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	const op = "AuthService.SignUp"

	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateCredentials(op, email, password); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		LastSignInAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "email already registered", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	p, err := s.profiles.Resolve(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return s.issueSession(op, u.ID, p.Role)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	const op = "AuthService.SignIn"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// same message as a bad password: no account enumeration
			return nil, utils.E(utils.CodeUnauthorized, op, "invalid email or password", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	if err := utils.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid email or password", err)
	}

	_ = s.users.TouchSignIn(ctx, u.ID, time.Now().UTC())

	p, err := s.profiles.Resolve(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return s.issueSession(op, u.ID, p.Role)
}

func (s *authService) SignOut(ctx context.Context, rawToken string) error {
	const op = "AuthService.SignOut"

	claims := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid || claims.ID == "" {
		return nil
	}

	var remaining time.Duration
	if claims.ExpiresAt != nil {
		remaining = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revoker.Revoke(ctx, claims.ID, remaining); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to revoke session", err)
	}
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "AuthService.RequestPasswordReset"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return utils.E(utils.CodeInvalidArgument, op, "email is required", nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// respond success regardless: no account enumeration
			return nil
		}
		return utils.E(utils.CodeInternal, op, "failed to look up user", err)
	}

	now := time.Now().UTC()
	pr := &models.PasswordReset{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}
	if err := s.resets.Create(ctx, pr); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to create reset token", err)
	}
	return nil
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	const op = "AuthService.ConfirmPasswordReset"

	if token == "" {
		return utils.E(utils.CodeInvalidArgument, op, "token is required", nil)
	}
	if len(newPassword) < 8 {
		return utils.E(utils.CodeInvalidArgument, op, "password must be at least 8 characters", nil)
	}

	pr, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeInvalidArgument, op, "invalid or expired reset token", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to look up reset token", err)
	}
	if pr.Used || time.Now().UTC().After(pr.ExpiresAt) {
		return utils.E(utils.CodeInvalidArgument, op, "invalid or expired reset token", nil)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, pr.UserID, hash); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update password", err)
	}
	if err := s.resets.MarkUsed(ctx, token); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to consume reset token", err)
	}
	return nil
}

func (s *authService) issueSession(op, userID string, role models.Role) (*models.Session, error) {
	now := time.Now().UTC()
	exp := now.Add(s.ttl)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		AppMetadata: map[string]any{"role": string(role)},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to sign session token", err)
	}

	return &models.Session{
		Token:     raw,
		UserID:    userID,
		Role:      role,
		ExpiresAt: exp,
	}, nil
}

func validateCredentials(op, email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return utils.E(utils.CodeInvalidArgument, op, "a valid email is required", nil)
	}
	if len(password) < 8 {
		return utils.E(utils.CodeInvalidArgument, op, "password must be at least 8 characters", nil)
	}
	return nil
}
