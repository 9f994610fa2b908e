package services

import (
	"context"
	"errors"
	"fmt"

	"shopapi/internal/crypto"
	"shopapi/internal/domain"
	"shopapi/internal/validate"
)

// UserStore is the persistence the services need; repos.UserRepo implements it.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	List(ctx context.Context, p domain.Page) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
	UpdateNames(ctx context.Context, id string, firstName, lastName *string) (*domain.User, error)
	Delete(ctx context.Context, id string) (domain.UserRemoval, error)
}

type RoleStore interface {
	FindByID(ctx context.Context, id string) (*domain.Role, error)
}

type TokenIssuer interface {
	Sign(userID, email, roleID string) (string, error)
}

type LoginResult struct {
	AccessToken string            `json:"accessToken"`
	User        domain.PublicUser `json:"user"`
}

type AuthService struct {
	users  UserStore
	roles  RoleStore
	hasher crypto.PasswordHandler
	tokens TokenIssuer

	allowSignupRole bool
	// compared against when the email is unknown so both login failures cost a hash
	dummyHash string
}

// NewAuthService wires the credential flow. allowSignupRole lets signup
// requests choose a role other than Customer.
func NewAuthService(users UserStore, roles RoleStore, hasher crypto.PasswordHandler, tokens TokenIssuer, allowSignupRole bool) (*AuthService, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{
		users:           users,
		roles:           roles,
		hasher:          hasher,
		tokens:          tokens,
		allowSignupRole: allowSignupRole,
		dummyHash:       dummy,
	}, nil
}

// Signup registers a new active account and returns it without the hash.
func (s *AuthService) Signup(ctx context.Context, in validate.SignupInput) (domain.UserView, error) {
	if err := domain.NewValidationError(validate.Signup(&in)); err != nil {
		return domain.UserView{}, err
	}

	roleID, err := s.signupRole(ctx, in.RoleID)
	if err != nil {
		return domain.UserView{}, err
	}

	switch _, err := s.users.FindByEmail(ctx, in.Email); {
	case err == nil:
		return domain.UserView{}, fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, in.Email)
	case !errors.Is(err, domain.ErrNotFound):
		return domain.UserView{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.UserView{}, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
		RoleID:       roleID,
	}
	// the UNIQUE constraint still decides when two signups race past the check
	if err := s.users.Create(ctx, u); err != nil {
		return domain.UserView{}, err
	}
	return u.View(), nil
}

func (s *AuthService) signupRole(ctx context.Context, requested *string) (string, error) {
	if requested == nil || *requested == domain.RoleCustomerID {
		return domain.RoleCustomerID, nil
	}
	if !s.allowSignupRole {
		return "", &domain.ValidationError{Violations: []domain.Violation{
			{Field: "roleId", Message: "cannot be chosen at signup"},
		}}
	}
	role, err := s.roles.FindByID(ctx, *requested)
	if errors.Is(err, domain.ErrNotFound) {
		return "", &domain.ValidationError{Violations: []domain.Violation{
			{Field: "roleId", Message: "unknown role"},
		}}
	}
	if err != nil {
		return "", err
	}
	return role.ID, nil
}

// Login checks the credentials and issues an access token. An unknown email
// and a wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, in validate.LoginInput) (LoginResult, error) {
	if err := domain.NewValidationError(validate.Login(&in)); err != nil {
		return LoginResult{}, err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		_, _ = s.hasher.Verify(in.Password, s.dummyHash)
		return LoginResult{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	ok, err := s.hasher.Verify(in.Password, u.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("verify password for %s: %w", u.ID, err)
	}
	if !ok || !u.IsActive {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(u.ID, u.Email, u.RoleID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}
	return LoginResult{AccessToken: token, User: u.Public()}, nil
}
